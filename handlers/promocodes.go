package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/fhammsnutribites-bit/fhamms-service/database"
	"github.com/fhammsnutribites-bit/fhamms-service/models"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ValidatePromoCode checks a code against an order amount without redeeming
// it. Cart items may be supplied so the product-discount conflict is caught
// before validation.
func ValidatePromoCode(c echo.Context) error {
	var req struct {
		Code        string             `json:"code"`
		OrderAmount *float64           `json:"orderAmount"`
		UserID      string             `json:"userId"`
		CartItems   []models.OrderItem `json:"cartItems"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if req.Code == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Promo code is required"})
	}
	if req.OrderAmount == nil || *req.OrderAmount < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Valid order amount is required"})
	}

	if models.HasProductDiscount(req.CartItems) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"valid":   false,
			"message": "Promo codes cannot be applied when products already have discounts. Please remove discounted items from cart to use promo code.",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var promo models.PromoCode
	err := database.DB.Collection("promocodes").FindOne(ctx, bson.M{
		"code":     models.NormalizeCode(req.Code),
		"isActive": true,
	}).Decode(&promo)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]interface{}{"valid": false, "message": "Invalid promo code"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to look up promo code"})
	}

	var userID *primitive.ObjectID
	if req.UserID != "" {
		if id, err := primitive.ObjectIDFromHex(req.UserID); err == nil {
			userID = &id
		}
	}

	if err := promo.Validate(*req.OrderAmount, userID); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"valid": false, "message": err.Error()})
	}

	discount := promo.CalculateDiscount(*req.OrderAmount)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"valid":         true,
		"code":          promo.Code,
		"discountType":  promo.DiscountType,
		"discountValue": promo.DiscountValue,
		"discount":      discount,
		"finalAmount":   models.Round2(*req.OrderAmount - discount),
		"message":       "Promo code applied successfully",
	})
}

// GetPromoCodes lists all codes, newest first (admin).
func GetPromoCodes(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.DB.Collection("promocodes").Find(ctx, bson.M{}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch promo codes"})
	}
	defer cursor.Close(ctx)

	promoCodes := []models.PromoCode{}
	if err := cursor.All(ctx, &promoCodes); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to decode promo codes"})
	}
	return c.JSON(http.StatusOK, promoCodes)
}

// GetPromoCode returns one code (admin).
func GetPromoCode(c echo.Context) error {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid promo code ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var promo models.PromoCode
	err = database.DB.Collection("promocodes").FindOne(ctx, bson.M{"_id": objID}).Decode(&promo)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Promo code not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch promo code"})
	}
	return c.JSON(http.StatusOK, promo)
}

func validatePromoFields(discountType models.DiscountType, discountValue float64) string {
	if discountType != models.DiscountPercentage && discountType != models.DiscountFixed {
		return `discountType must be either "percentage" or "fixed"`
	}
	if discountType == models.DiscountPercentage && (discountValue < 0 || discountValue > 100) {
		return "Percentage discount must be between 0 and 100"
	}
	if discountType == models.DiscountFixed && discountValue < 0 {
		return "Fixed discount must be positive"
	}
	return ""
}

// CreatePromoCode adds a code (admin). The code is normalized to trimmed
// upper case; duplicates are rejected by the unique index.
func CreatePromoCode(c echo.Context) error {
	var promo models.PromoCode
	if err := c.Bind(&promo); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	if promo.Code == "" || promo.DiscountType == "" || promo.DiscountValue == 0 ||
		promo.StartDate.IsZero() || promo.EndDate.IsZero() {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Code, discountType, discountValue, startDate, and endDate are required",
		})
	}
	if msg := validatePromoFields(promo.DiscountType, promo.DiscountValue); msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}
	if !promo.StartDate.Before(promo.EndDate) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "End date must be after start date"})
	}

	promo.ID = primitive.NewObjectID()
	promo.Code = models.NormalizeCode(promo.Code)
	promo.UsedCount = 0
	promo.UsedBy = []primitive.ObjectID{}
	promo.CreatedAt = time.Now()
	promo.UpdatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.DB.Collection("promocodes").InsertOne(ctx, promo); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Promo code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create promo code"})
	}
	return c.JSON(http.StatusCreated, promo)
}

// UpdatePromoCode applies a partial update to a code (admin).
func UpdatePromoCode(c echo.Context) error {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid promo code ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var existing models.PromoCode
	err = database.DB.Collection("promocodes").FindOne(ctx, bson.M{"_id": objID}).Decode(&existing)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Promo code not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch promo code"})
	}

	var req struct {
		Code              *string              `json:"code"`
		Description       *string              `json:"description"`
		DiscountType      *models.DiscountType `json:"discountType"`
		DiscountValue     *float64             `json:"discountValue"`
		MinOrderAmount    *float64             `json:"minOrderAmount"`
		MaxDiscountAmount *float64             `json:"maxDiscountAmount"`
		StartDate         *time.Time           `json:"startDate"`
		EndDate           *time.Time           `json:"endDate"`
		IsActive          *bool                `json:"isActive"`
		UsageLimit        *int                 `json:"usageLimit"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	if req.Code != nil {
		existing.Code = models.NormalizeCode(*req.Code)
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.DiscountType != nil {
		existing.DiscountType = *req.DiscountType
	}
	if req.DiscountValue != nil {
		existing.DiscountValue = *req.DiscountValue
	}
	if msg := validatePromoFields(existing.DiscountType, existing.DiscountValue); msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}
	if req.MinOrderAmount != nil {
		existing.MinOrderAmount = *req.MinOrderAmount
	}
	if req.MaxDiscountAmount != nil {
		existing.MaxDiscountAmount = req.MaxDiscountAmount
	}
	if req.StartDate != nil {
		existing.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		existing.EndDate = *req.EndDate
	}
	if !existing.StartDate.Before(existing.EndDate) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "End date must be after start date"})
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}
	if req.UsageLimit != nil {
		existing.UsageLimit = req.UsageLimit
	}
	existing.UpdatedAt = time.Now()

	_, err = database.DB.Collection("promocodes").ReplaceOne(ctx, bson.M{"_id": objID}, existing)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Promo code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update promo code"})
	}
	return c.JSON(http.StatusOK, existing)
}

// DeletePromoCode removes a code (admin).
func DeletePromoCode(c echo.Context) error {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid promo code ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.DB.Collection("promocodes").DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete promo code"})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Promo code not found"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Promo code deleted successfully"})
}
