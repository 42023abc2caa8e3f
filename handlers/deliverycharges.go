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

func validChargeType(t models.ChargeType) bool {
	switch t {
	case models.ChargeFixed, models.ChargePercentage, models.ChargeTiered, models.ChargeFreeAbove:
		return true
	}
	return false
}

func validateTiers(tiers []models.ChargeTier) string {
	for _, tier := range tiers {
		if tier.MinAmount < 0 {
			return "Invalid tier minAmount"
		}
		if tier.MaxAmount != nil && *tier.MaxAmount < tier.MinAmount {
			return "Invalid tier maxAmount"
		}
		if tier.Charge < 0 {
			return "Invalid tier charge"
		}
	}
	return ""
}

// quoteDeliveryCharge selects the applicable delivery rule for an order
// amount from the active rule set.
func quoteDeliveryCharge(ctx context.Context, orderAmount float64) (float64, *models.DeliveryCharge, error) {
	opts := options.Find().SetSort(bson.D{{Key: "priority", Value: 1}, {Key: "createdAt", Value: 1}})
	cursor, err := database.DB.Collection("deliverycharges").Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return 0, nil, err
	}
	defer cursor.Close(ctx)

	var rules []models.DeliveryCharge
	if err := cursor.All(ctx, &rules); err != nil {
		return 0, nil, err
	}

	charge, rule := models.SelectDeliveryCharge(rules, orderAmount)
	return charge, rule, nil
}

// CalculateDeliveryCharge quotes the delivery charge for an order amount.
func CalculateDeliveryCharge(c echo.Context) error {
	var req struct {
		OrderAmount *float64 `json:"orderAmount"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if req.OrderAmount == nil || *req.OrderAmount < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Valid order amount is required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	charge, rule, err := quoteDeliveryCharge(ctx, *req.OrderAmount)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to calculate delivery charge"})
	}

	resp := map[string]interface{}{"deliveryCharge": charge, "rule": nil}
	if rule != nil {
		resp["rule"] = map[string]interface{}{
			"id":         rule.ID,
			"name":       rule.Name,
			"chargeType": rule.ChargeType,
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// GetDeliveryCharges lists all rules, highest precedence first (admin).
func GetDeliveryCharges(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "priority", Value: 1}, {Key: "createdAt", Value: -1}})
	cursor, err := database.DB.Collection("deliverycharges").Find(ctx, bson.M{}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch delivery charges"})
	}
	defer cursor.Close(ctx)

	charges := []models.DeliveryCharge{}
	if err := cursor.All(ctx, &charges); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to decode delivery charges"})
	}
	return c.JSON(http.StatusOK, charges)
}

// GetDeliveryCharge returns one rule (admin).
func GetDeliveryCharge(c echo.Context) error {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid delivery charge ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var charge models.DeliveryCharge
	err = database.DB.Collection("deliverycharges").FindOne(ctx, bson.M{"_id": objID}).Decode(&charge)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Delivery charge not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch delivery charge"})
	}
	return c.JSON(http.StatusOK, charge)
}

// CreateDeliveryCharge adds a rule (admin). Type-specific fields are
// validated and the fields of other types are zeroed.
func CreateDeliveryCharge(c echo.Context) error {
	var charge models.DeliveryCharge
	if err := c.Bind(&charge); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	if charge.Name == "" || charge.ChargeType == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Name and charge type are required"})
	}
	if !validChargeType(charge.ChargeType) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid charge type"})
	}

	switch charge.ChargeType {
	case models.ChargeFixed:
		if charge.FixedAmount <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Fixed amount is required for fixed charge type"})
		}
	case models.ChargePercentage:
		if charge.Percentage <= 0 || charge.Percentage > 100 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Valid percentage (0-100) is required for percentage charge type"})
		}
	case models.ChargeFreeAbove:
		if charge.FreeDeliveryAbove <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Free delivery above amount is required for free_above charge type"})
		}
	case models.ChargeTiered:
		if len(charge.Tiers) == 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Tiers are required for tiered charge type"})
		}
	}
	if msg := validateTiers(charge.Tiers); msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}

	// Zero the fields that don't belong to the chosen type. FixedAmount is
	// kept for free_above rules as the below-threshold fallback charge.
	if charge.ChargeType != models.ChargeFixed && charge.ChargeType != models.ChargeFreeAbove {
		charge.FixedAmount = 0
	}
	if charge.ChargeType != models.ChargePercentage {
		charge.Percentage = 0
	}
	if charge.ChargeType != models.ChargeFreeAbove {
		charge.FreeDeliveryAbove = 0
	}
	if charge.ChargeType != models.ChargeTiered {
		charge.Tiers = []models.ChargeTier{}
	}

	charge.ID = primitive.NewObjectID()
	charge.CreatedAt = time.Now()
	charge.UpdatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.DB.Collection("deliverycharges").InsertOne(ctx, charge); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create delivery charge"})
	}
	return c.JSON(http.StatusCreated, charge)
}

// UpdateDeliveryCharge applies a partial update to a rule (admin).
func UpdateDeliveryCharge(c echo.Context) error {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid delivery charge ID"})
	}

	updates := bson.M{}
	if err := c.Bind(&updates); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if raw, ok := updates["chargeType"].(string); ok {
		if !validChargeType(models.ChargeType(raw)) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid charge type"})
		}
	}
	delete(updates, "_id")
	delete(updates, "id")
	updates["updatedAt"] = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var charge models.DeliveryCharge
	err = database.DB.Collection("deliverycharges").FindOneAndUpdate(
		ctx,
		bson.M{"_id": objID},
		bson.M{"$set": updates},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&charge)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Delivery charge not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update delivery charge"})
	}
	return c.JSON(http.StatusOK, charge)
}

// DeleteDeliveryCharge removes a rule (admin).
func DeleteDeliveryCharge(c echo.Context) error {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid delivery charge ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.DB.Collection("deliverycharges").DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete delivery charge"})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Delivery charge not found"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Delivery charge deleted successfully"})
}

// ToggleDeliveryCharge flips a rule's active flag (admin).
func ToggleDeliveryCharge(c echo.Context) error {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid delivery charge ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var charge models.DeliveryCharge
	err = database.DB.Collection("deliverycharges").FindOne(ctx, bson.M{"_id": objID}).Decode(&charge)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Delivery charge not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch delivery charge"})
	}

	err = database.DB.Collection("deliverycharges").FindOneAndUpdate(
		ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"isActive": !charge.IsActive, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&charge)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to toggle delivery charge"})
	}
	return c.JSON(http.StatusOK, charge)
}
