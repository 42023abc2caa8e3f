package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fhammsnutribites-bit/fhamms-service/database"
	"github.com/fhammsnutribites-bit/fhamms-service/models"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

func requestUserID(c echo.Context) (primitive.ObjectID, bool) {
	userID, ok := c.Get("userID").(primitive.ObjectID)
	return userID, ok
}

func loadUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := database.DB.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetMe returns the authenticated user's profile.
func GetMe(c echo.Context) error {
	userID, ok := requestUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := loadUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe updates name, email and/or password of the authenticated user.
func UpdateMe(c echo.Context) error {
	userID, ok := requestUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	updates := bson.M{"updatedAt": time.Now()}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to hash password"})
		}
		updates["password"] = string(hashed)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.DB.Collection("users").FindOneAndUpdate(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$set": updates},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update user"})
	}
	return c.JSON(http.StatusOK, user)
}

// GetUsers lists all users (admin).
func GetUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection("users").Find(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch users"})
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to decode users"})
	}
	return c.JSON(http.StatusOK, users)
}

// DeleteUser removes a user by id (admin).
func DeleteUser(c echo.Context) error {
	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.DB.Collection("users").DeleteOne(ctx, bson.M{"_id": targetID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete user"})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "User deleted"})
}

// AddAddress appends an address to the user's address book.
func AddAddress(c echo.Context) error {
	userID, ok := requestUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	var address models.Address
	if err := c.Bind(&address); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.DB.Collection("users").FindOneAndUpdate(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"addresses": address}, "$set": bson.M{"updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}
	return c.JSON(http.StatusOK, user.Addresses)
}

func addressIndex(c echo.Context, user *models.User) (int, bool) {
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil || idx < 0 || idx >= len(user.Addresses) {
		return 0, false
	}
	return idx, true
}

// UpdateAddress replaces an address by array index.
func UpdateAddress(c echo.Context) error {
	userID, ok := requestUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	var address models.Address
	if err := c.Bind(&address); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := loadUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}

	idx, ok := addressIndex(c, user)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No such address"})
	}
	user.Addresses[idx] = address

	if err := saveUserField(ctx, userID, "addresses", user.Addresses); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update address"})
	}
	return c.JSON(http.StatusOK, user.Addresses)
}

// DeleteAddress removes an address by array index.
func DeleteAddress(c echo.Context) error {
	userID, ok := requestUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := loadUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}

	idx, ok := addressIndex(c, user)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No such address"})
	}
	user.Addresses = append(user.Addresses[:idx], user.Addresses[idx+1:]...)

	if err := saveUserField(ctx, userID, "addresses", user.Addresses); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete address"})
	}
	return c.JSON(http.StatusOK, user.Addresses)
}

// AddPaymentMethod stores a payment-method stub.
func AddPaymentMethod(c echo.Context) error {
	userID, ok := requestUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	var method models.PaymentMethod
	if err := c.Bind(&method); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.DB.Collection("users").FindOneAndUpdate(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"paymentMethods": method}, "$set": bson.M{"updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}
	return c.JSON(http.StatusOK, user.PaymentMethods)
}

// UpdatePaymentMethod replaces a payment-method stub by array index.
func UpdatePaymentMethod(c echo.Context) error {
	userID, ok := requestUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	var method models.PaymentMethod
	if err := c.Bind(&method); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := loadUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}

	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil || idx < 0 || idx >= len(user.PaymentMethods) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No such payment method"})
	}
	user.PaymentMethods[idx] = method

	if err := saveUserField(ctx, userID, "paymentMethods", user.PaymentMethods); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update payment method"})
	}
	return c.JSON(http.StatusOK, user.PaymentMethods)
}

// DeletePaymentMethod removes a payment-method stub by array index.
func DeletePaymentMethod(c echo.Context) error {
	userID, ok := requestUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := loadUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}

	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil || idx < 0 || idx >= len(user.PaymentMethods) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No such payment method"})
	}
	user.PaymentMethods = append(user.PaymentMethods[:idx], user.PaymentMethods[idx+1:]...)

	if err := saveUserField(ctx, userID, "paymentMethods", user.PaymentMethods); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete payment method"})
	}
	return c.JSON(http.StatusOK, user.PaymentMethods)
}

func saveUserField(ctx context.Context, userID primitive.ObjectID, field string, value interface{}) error {
	_, err := database.DB.Collection("users").UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{field: value, "updatedAt": time.Now()}},
	)
	return err
}
