package middleware

import (
	"net/http"
	"strings"

	"github.com/fhammsnutribites-bit/fhamms-service/utils"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func bearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func setUserContext(c echo.Context, claims *utils.Claims) error {
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return err
	}
	c.Set("userID", userID)
	c.Set("isAdmin", claims.IsAdmin)
	return nil
}

// AuthMiddleware requires a valid bearer token and puts userID and isAdmin on
// the request context.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing authorization header"})
		}

		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
		}

		if err := setUserContext(c, claims); err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token subject"})
		}
		return next(c)
	}
}

// OptionalAuthMiddleware sets the user context when a valid token is present
// and otherwise lets the request through as a guest.
func OptionalAuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if tokenString := bearerToken(c); tokenString != "" {
			if claims, err := utils.ValidateJWT(tokenString); err == nil {
				_ = setUserContext(c, claims)
			}
		}
		return next(c)
	}
}

// AdminMiddleware must be layered after AuthMiddleware.
func AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		isAdmin, ok := c.Get("isAdmin").(bool)
		if !ok || !isAdmin {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Requires admin"})
		}
		return next(c)
	}
}
