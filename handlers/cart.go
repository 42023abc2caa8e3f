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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// cartIdentifier is the owner of a cart: exactly one of userID (authenticated)
// or sessionID (guest) is set.
type cartIdentifier struct {
	userID    *primitive.ObjectID
	sessionID string
}

func (id cartIdentifier) filter() bson.M {
	if id.userID != nil {
		return bson.M{"user": *id.userID}
	}
	return bson.M{"sessionId": id.sessionID}
}

// cartIdentifierFrom resolves the cart owner for a request: the authenticated
// user when a token was presented, else the session id from the X-Session-Id
// header or the request's sessionId field.
func cartIdentifierFrom(c echo.Context, bodySessionID string) (cartIdentifier, bool) {
	if userID, ok := c.Get("userID").(primitive.ObjectID); ok {
		return cartIdentifier{userID: &userID}, true
	}
	sessionID := c.Request().Header.Get("X-Session-Id")
	if sessionID == "" {
		sessionID = bodySessionID
	}
	if sessionID == "" {
		return cartIdentifier{}, false
	}
	return cartIdentifier{sessionID: sessionID}, true
}

// findOrCreateCart loads the cart for an identifier, creating an empty one
// atomically when none exists. The upsert keeps concurrent first accesses
// from creating duplicate carts for the same owner.
func findOrCreateCart(ctx context.Context, id cartIdentifier) (*models.Cart, error) {
	// The equality fields of the filter become part of the inserted document,
	// so the identifier itself must not be repeated in $setOnInsert.
	now := time.Now()

	var cart models.Cart
	err := database.DB.Collection("carts").FindOneAndUpdate(
		ctx,
		id.filter(),
		bson.M{
			"$setOnInsert": bson.M{"items": []models.CartItem{}, "createdAt": now},
			"$set":         bson.M{"updatedAt": now},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&cart)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func saveCartItems(ctx context.Context, cart *models.Cart) error {
	_, err := database.DB.Collection("carts").UpdateOne(
		ctx,
		bson.M{"_id": cart.ID},
		bson.M{"$set": bson.M{"items": cart.Items, "updatedAt": time.Now()}},
	)
	return err
}

// GetCart returns the caller's cart, creating it on first access.
func GetCart(c echo.Context) error {
	identifier, ok := cartIdentifierFrom(c, "")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Session ID required for guest cart"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cart, err := findOrCreateCart(ctx, identifier)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load cart"})
	}
	return c.JSON(http.StatusOK, cart)
}

// AddCartItem upserts a line item keyed by (product, weight). The unit price
// comes from the discount resolver unless the client supplies explicit
// price/originalPrice overrides.
func AddCartItem(c echo.Context) error {
	var req struct {
		ProductID     string   `json:"productId"`
		Qty           int      `json:"qty"`
		Price         *float64 `json:"price"`
		OriginalPrice *float64 `json:"originalPrice"`
		Weight        *float64 `json:"weight"`
		SessionID     string   `json:"sessionId"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if req.ProductID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "productId required"})
	}
	if req.Qty == 0 {
		req.Qty = 1
	}
	if req.Qty < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "qty must be positive"})
	}

	identifier, ok := cartIdentifierFrom(c, req.SessionID)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Session ID required for guest cart"})
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var product models.Product
	err = database.DB.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch product"})
	}

	// Explicit weight match, else the first weight option, else none.
	var weightOption *models.WeightOption
	if req.Weight != nil {
		weightOption = product.FindWeightOption(*req.Weight)
	} else if len(product.WeightOptions) > 0 {
		weightOption = &product.WeightOptions[0]
	}

	priceInfo := utils.GetProductPriceInfo(&product, weightOption)

	// Client-supplied prices win over resolved ones; this lets a client that
	// already quoted pricing avoid drift, at the cost of trusting its input.
	itemPrice := priceInfo.Discounted
	if req.Price != nil {
		itemPrice = *req.Price
	}
	originalPrice := priceInfo.Original
	if req.OriginalPrice != nil {
		originalPrice = *req.OriginalPrice
	}

	cart, err := findOrCreateCart(ctx, identifier)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load cart"})
	}

	cart.UpsertItem(models.CartItem{
		ProductID:     productID,
		Qty:           req.Qty,
		Price:         itemPrice,
		OriginalPrice: originalPrice,
		Weight:        req.Weight,
	})

	if err := saveCartItems(ctx, cart); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save cart"})
	}
	return c.JSON(http.StatusCreated, cart)
}

// UpdateCartItem sets a line's quantity; zero or below removes the line.
func UpdateCartItem(c echo.Context) error {
	itemID, err := primitive.ObjectIDFromHex(c.Param("itemId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid item ID"})
	}

	var req struct {
		Qty       *int   `json:"qty"`
		SessionID string `json:"sessionId"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if req.Qty == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "qty number required"})
	}

	identifier, ok := cartIdentifierFrom(c, req.SessionID)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Session ID required for guest cart"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var cart models.Cart
	err = database.DB.Collection("carts").FindOne(ctx, identifier.filter()).Decode(&cart)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Cart not found"})
	}

	item := cart.FindItemByID(itemID)
	if item == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Item not found"})
	}

	if *req.Qty <= 0 {
		cart.RemoveItem(itemID)
	} else {
		item.Qty = *req.Qty
	}

	if err := saveCartItems(ctx, &cart); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save cart"})
	}
	return c.JSON(http.StatusOK, cart)
}

// RemoveCartItem deletes a line item.
func RemoveCartItem(c echo.Context) error {
	itemID, err := primitive.ObjectIDFromHex(c.Param("itemId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid item ID"})
	}

	identifier, ok := cartIdentifierFrom(c, "")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Session ID required for guest cart"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var cart models.Cart
	err = database.DB.Collection("carts").FindOne(ctx, identifier.filter()).Decode(&cart)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Cart not found"})
	}

	if !cart.RemoveItem(itemID) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Item not found in cart"})
	}

	if err := saveCartItems(ctx, &cart); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save cart"})
	}
	return c.JSON(http.StatusOK, cart)
}

// ClearCart empties the item list but keeps the cart document.
func ClearCart(c echo.Context) error {
	identifier, ok := cartIdentifierFrom(c, "")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Session ID required for guest cart"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var cart models.Cart
	err := database.DB.Collection("carts").FindOne(ctx, identifier.filter()).Decode(&cart)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Cart not found"})
	}

	cart.Items = []models.CartItem{}
	if err := saveCartItems(ctx, &cart); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save cart"})
	}
	return c.JSON(http.StatusOK, cart)
}

// MergeCart folds the guest cart for the given session into the authenticated
// user's cart and deletes the guest cart. Quantities of matching
// (product, weight) lines are summed; the user cart's prices win. Calling it
// again for the same session is a no-op because the guest cart is gone.
func MergeCart(c echo.Context) error {
	userID, ok := c.Get("userID").(primitive.ObjectID)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	var req struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "sessionId required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userCart, err := findOrCreateCart(ctx, cartIdentifier{userID: &userID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load cart"})
	}

	var guestCart models.Cart
	err = database.DB.Collection("carts").FindOne(ctx, bson.M{"sessionId": req.SessionID}).Decode(&guestCart)
	if err != nil && err != mongo.ErrNoDocuments {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load guest cart"})
	}

	if err == nil && len(guestCart.Items) > 0 {
		userCart.MergeFrom(&guestCart)
		if err := saveCartItems(ctx, userCart); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save cart"})
		}
	}
	if err == nil {
		if _, err := database.DB.Collection("carts").DeleteOne(ctx, bson.M{"sessionId": req.SessionID}); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete guest cart"})
		}
	}

	return c.JSON(http.StatusOK, userCart)
}
