package main

import (
	"log"

	"github.com/fhammsnutribites-bit/fhamms-service/config"
	"github.com/fhammsnutribites-bit/fhamms-service/database"
	customMiddleware "github.com/fhammsnutribites-bit/fhamms-service/middleware"
	"github.com/fhammsnutribites-bit/fhamms-service/routes"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load environment variables
	config.LoadEnv()

	// Initialize Echo
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	if origins := config.AllowedOrigins(); origins != nil {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     origins,
			AllowCredentials: true,
		}))
	} else {
		e.Use(middleware.CORS())
	}
	e.Use(customMiddleware.MetricsMiddleware)

	// Connect to MongoDB
	if err := database.ConnectDB(); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Setup routes
	routes.SetupRoutes(e)

	// Start the server
	port := config.GetEnv("PORT", "3000")
	e.Logger.Fatal(e.Start(":" + port))
}
