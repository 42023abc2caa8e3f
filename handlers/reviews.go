package handlers

import (
	"context"
	"log"
	"math"
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
)

// recomputeProductRating refreshes a product's average rating and review
// count after a review change.
func recomputeProductRating(ctx context.Context, productID primitive.ObjectID) error {
	cursor, err := database.DB.Collection("reviews").Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"product": productID}}},
		{{Key: "$group", Value: bson.M{
			"_id":    nil,
			"rating": bson.M{"$avg": "$rating"},
			"count":  bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var result struct {
		Rating float64 `bson:"rating"`
		Count  int     `bson:"count"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return err
		}
	}

	_, err = database.DB.Collection("products").UpdateOne(
		ctx,
		bson.M{"_id": productID},
		bson.M{"$set": bson.M{
			"rating":     models.Round2(result.Rating),
			"numReviews": result.Count,
			"updatedAt":  time.Now(),
		}},
	)
	return err
}

// GetProductReviews lists a product's reviews, newest first, paginated.
func GetProductReviews(c echo.Context) error {
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 10
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"product": productID}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := database.DB.Collection("reviews").Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch reviews"})
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to decode reviews"})
	}

	total, err := database.DB.Collection("reviews").CountDocuments(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to count reviews"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"reviews": reviews,
		"pagination": map[string]interface{}{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// GetUserReview returns the caller's review for a product within an order.
func GetUserReview(c echo.Context) error {
	userID, ok := c.Get("userID").(primitive.ObjectID)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}
	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var review models.Review
	err = database.DB.Collection("reviews").FindOne(ctx, bson.M{
		"user":    userID,
		"product": productID,
		"order":   orderID,
	}).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusOK, map[string]interface{}{"review": nil})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch review"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"review": review})
}

// CreateOrUpdateReview records a review for a product the caller bought in a
// delivered order; reviewing the same (product, order) again updates it.
func CreateOrUpdateReview(c echo.Context) error {
	userID, ok := c.Get("userID").(primitive.ObjectID)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	var req struct {
		ProductID string   `json:"productId"`
		OrderID   string   `json:"orderId"`
		Rating    int      `json:"rating"`
		Comment   string   `json:"comment"`
		Images    []string `json:"images"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if req.ProductID == "" || req.OrderID == "" || req.Rating == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "productId, orderId, and rating are required"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Rating must be between 1 and 5"})
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}
	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var order models.Order
	err = database.DB.Collection("orders").FindOne(ctx, bson.M{
		"_id":         orderID,
		"user":        userID,
		"isDelivered": true,
	}).Decode(&order)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found or not delivered yet"})
	}

	inOrder := false
	for _, item := range order.OrderItems {
		if item.ProductID == productID {
			inOrder = true
			break
		}
	}
	if !inOrder {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Product was not in this order"})
	}

	now := time.Now()
	var review models.Review
	err = database.DB.Collection("reviews").FindOneAndUpdate(
		ctx,
		bson.M{"user": userID, "product": productID, "order": orderID},
		bson.M{
			"$set": bson.M{
				"rating":     req.Rating,
				"comment":    req.Comment,
				"images":     req.Images,
				"isVerified": true,
				"updatedAt":  now,
			},
			"$setOnInsert": bson.M{"createdAt": now},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&review)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save review"})
	}

	if err := recomputeProductRating(ctx, productID); err != nil {
		log.Printf("Failed to recompute product rating: %v", err)
	}
	return c.JSON(http.StatusOK, review)
}

// DeleteReview removes the caller's own review.
func DeleteReview(c echo.Context) error {
	userID, ok := c.Get("userID").(primitive.ObjectID)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	reviewID, err := primitive.ObjectIDFromHex(c.Param("reviewId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid review ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var review models.Review
	err = database.DB.Collection("reviews").FindOneAndDelete(ctx, bson.M{
		"_id":  reviewID,
		"user": userID,
	}).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Review not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete review"})
	}

	if err := recomputeProductRating(ctx, review.ProductID); err != nil {
		log.Printf("Failed to recompute product rating: %v", err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Review deleted successfully"})
}
