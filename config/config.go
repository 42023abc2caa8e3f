package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from a .env file if one is present.
func LoadEnv() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file loaded, using process environment")
	}
}

// GetEnv retrieves an environment variable with a fallback.
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// AllowedOrigins returns the comma-separated CORS origins from CORS_ORIGINS,
// or nil to allow any origin.
func AllowedOrigins() []string {
	raw := GetEnv("CORS_ORIGINS", "")
	if raw == "" {
		return nil
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
