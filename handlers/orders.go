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

// redeemPromoCode records one use of a code for a user as a single conditional
// update, so two near-simultaneous orders cannot both consume the last
// remaining use. It reports whether the redemption was accepted.
func redeemPromoCode(ctx context.Context, promo *models.PromoCode, userID primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"_id": promo.ID,
		"$or": []bson.M{
			{"usageLimit": bson.M{"$exists": false}},
			{"usageLimit": nil},
			{"$expr": bson.M{"$lt": []string{"$usedCount", "$usageLimit"}}},
		},
	}
	update := bson.M{
		"$inc":      bson.M{"usedCount": 1},
		"$addToSet": bson.M{"usedBy": userID},
		"$set":      bson.M{"updatedAt": time.Now()},
	}

	result, err := database.DB.Collection("promocodes").UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// CreateOrder places an order: subtotal recomputed server-side, promo code
// validated and redeemed, delivery charge selected, final total persisted.
// Promo codes are mutually exclusive with per-item product discounts.
func CreateOrder(c echo.Context) error {
	userID, ok := c.Get("userID").(primitive.ObjectID)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	var req struct {
		OrderItems      []models.OrderItem     `json:"orderItems"`
		ShippingAddress models.ShippingAddress `json:"shippingAddress"`
		PaymentMethod   string                 `json:"paymentMethod"`
		PromoCode       string                 `json:"promoCode"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if len(req.OrderItems) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "orderItems required"})
	}
	for _, item := range req.OrderItems {
		if item.Qty < 1 || item.Price < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order item"})
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	subtotal := models.Subtotal(req.OrderItems)

	var (
		discount  float64
		promoUsed string
	)

	if req.PromoCode != "" {
		// Conflict gate runs before any promo validation or mutation.
		if models.HasProductDiscount(req.OrderItems) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Promo codes cannot be applied when products already have discounts. Please remove discounted items from cart to use promo code.",
			})
		}

		var promo models.PromoCode
		err := database.DB.Collection("promocodes").FindOne(ctx, bson.M{
			"code":     models.NormalizeCode(req.PromoCode),
			"isActive": true,
		}).Decode(&promo)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid promo code"})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to look up promo code"})
		}

		if err := promo.Validate(subtotal, &userID); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}

		discount = promo.CalculateDiscount(subtotal)
		promoUsed = promo.Code

		if subtotal-discount < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order total"})
		}

		// Redemption happens only after the total is confirmed valid, and as
		// a single conditional update so the usage limit cannot be oversold.
		redeemed, err := redeemPromoCode(ctx, &promo, userID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to redeem promo code"})
		}
		if !redeemed {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Promo code usage limit reached"})
		}
	}

	deliveryCharge, _, err := quoteDeliveryCharge(ctx, subtotal-discount)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to compute delivery charge"})
	}

	now := time.Now()
	order := models.Order{
		ID:              primitive.NewObjectID(),
		UserID:          userID,
		OrderItems:      req.OrderItems,
		ShippingAddress: req.ShippingAddress,
		Subtotal:        subtotal,
		PromoCode:       promoUsed,
		Discount:        discount,
		DeliveryCharge:  deliveryCharge,
		TotalPrice:      models.Round2(subtotal - discount + deliveryCharge),
		PaymentMethod:   req.PaymentMethod,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := database.DB.Collection("orders").InsertOne(ctx, order); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create order"})
	}
	return c.JSON(http.StatusCreated, order)
}

// GetOrders lists every order (admin).
func GetOrders(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection("orders").Find(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch orders"})
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to decode orders"})
	}
	return c.JSON(http.StatusOK, orders)
}

// GetMyOrders returns the caller's 20 most recent orders.
func GetMyOrders(c echo.Context) error {
	userID, ok := c.Get("userID").(primitive.ObjectID)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(20)
	cursor, err := database.DB.Collection("orders").Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch orders"})
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to decode orders"})
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder returns one order; non-admins can only read their own.
func GetOrder(c echo.Context) error {
	userID, ok := c.Get("userID").(primitive.ObjectID)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}
	isAdmin, _ := c.Get("isAdmin").(bool)

	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var order models.Order
	err = database.DB.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch order"})
	}

	if order.UserID != userID && !isAdmin {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Access denied"})
	}
	return c.JSON(http.StatusOK, order)
}

// DeliverOrder marks an order delivered (admin). This is the only mutation an
// order supports after creation.
func DeliverOrder(c echo.Context) error {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	var order models.Order
	err = database.DB.Collection("orders").FindOneAndUpdate(
		ctx,
		bson.M{"_id": orderID},
		bson.M{"$set": bson.M{"isDelivered": true, "deliveredAt": now, "updatedAt": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update order"})
	}
	return c.JSON(http.StatusOK, order)
}
