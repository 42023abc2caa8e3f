package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/fhammsnutribites-bit/fhamms-service/database"
	"github.com/fhammsnutribites-bit/fhamms-service/models"
	"github.com/fhammsnutribites-bit/fhamms-service/utils"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type authResponse struct {
	Token string         `json:"token"`
	User  authUserDetail `json:"user"`
}

type authUserDetail struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// Register creates a user account and returns a signed token.
func Register(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		IsAdmin  bool   `json:"isAdmin"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name, email and password are required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := database.DB.Collection("users")

	err := users.FindOne(ctx, bson.M{"email": req.Email}).Err()
	if err == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "User already exists"})
	}
	if err != mongo.ErrNoDocuments {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to check existing user"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to hash password"})
	}

	user := models.User{
		ID:             primitive.NewObjectID(),
		Name:           req.Name,
		Email:          req.Email,
		Password:       string(hashed),
		IsAdmin:        req.IsAdmin,
		Addresses:      []models.Address{},
		PaymentMethods: []models.PaymentMethod{},
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if _, err := users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "User already exists"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create user"})
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.IsAdmin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate token"})
	}

	return c.JSON(http.StatusCreated, authResponse{
		Token: token,
		User:  authUserDetail{ID: user.ID.Hex(), Name: user.Name, Email: user.Email, IsAdmin: user.IsAdmin},
	})
}

// Login verifies credentials and returns a signed token.
func Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.DB.Collection("users").FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid credentials"})
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.IsAdmin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate token"})
	}

	return c.JSON(http.StatusOK, authResponse{
		Token: token,
		User:  authUserDetail{ID: user.ID.Hex(), Name: user.Name, Email: user.Email, IsAdmin: user.IsAdmin},
	})
}
