package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUpsertItemIncrementsMatchingLine(t *testing.T) {
	productID := primitive.NewObjectID()
	weight := 250.0
	cart := &Cart{}

	cart.UpsertItem(CartItem{ProductID: productID, Qty: 1, Price: 100, OriginalPrice: 120, Weight: &weight})
	cart.UpsertItem(CartItem{ProductID: productID, Qty: 1, Price: 90, OriginalPrice: 120, Weight: &weight})

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Qty)
	// Price fields are overwritten on re-add.
	assert.Equal(t, 90.0, cart.Items[0].Price)
	assert.False(t, cart.Items[0].ID.IsZero())
}

func TestUpsertItemDifferentWeightIsSeparateLine(t *testing.T) {
	productID := primitive.NewObjectID()
	w250, w500 := 250.0, 500.0
	cart := &Cart{}

	cart.UpsertItem(CartItem{ProductID: productID, Qty: 1, Price: 100, Weight: &w250})
	cart.UpsertItem(CartItem{ProductID: productID, Qty: 1, Price: 180, Weight: &w500})
	cart.UpsertItem(CartItem{ProductID: productID, Qty: 1, Price: 100})

	assert.Len(t, cart.Items, 3)
}

func TestFindItemMatchesNilWeights(t *testing.T) {
	productID := primitive.NewObjectID()
	weight := 250.0
	cart := &Cart{Items: []CartItem{{ID: primitive.NewObjectID(), ProductID: productID, Qty: 1}}}

	assert.Equal(t, 0, cart.FindItem(productID, nil))
	assert.Equal(t, -1, cart.FindItem(productID, &weight))
	assert.Equal(t, -1, cart.FindItem(primitive.NewObjectID(), nil))
}

func TestMergeFromSumsQuantitiesAndKeepsUserPrices(t *testing.T) {
	productID := primitive.NewObjectID()
	weight := 250.0

	userCart := &Cart{Items: []CartItem{
		{ID: primitive.NewObjectID(), ProductID: productID, Qty: 1, Price: 100, OriginalPrice: 120, Weight: &weight},
	}}
	guestCart := &Cart{Items: []CartItem{
		{ID: primitive.NewObjectID(), ProductID: productID, Qty: 2, Price: 90, OriginalPrice: 110, Weight: &weight},
	}}

	userCart.MergeFrom(guestCart)

	require.Len(t, userCart.Items, 1)
	assert.Equal(t, 3, userCart.Items[0].Qty)
	assert.Equal(t, 100.0, userCart.Items[0].Price)
	assert.Equal(t, 120.0, userCart.Items[0].OriginalPrice)
}

func TestMergeFromAppendsUnmatchedLines(t *testing.T) {
	userCart := &Cart{}
	guestCart := &Cart{Items: []CartItem{
		{ID: primitive.NewObjectID(), ProductID: primitive.NewObjectID(), Qty: 2, Price: 90},
		{ID: primitive.NewObjectID(), ProductID: primitive.NewObjectID(), Qty: 1, Price: 150},
	}}

	userCart.MergeFrom(guestCart)

	require.Len(t, userCart.Items, 2)
	assert.Equal(t, 2, userCart.Items[0].Qty)
	assert.Equal(t, 90.0, userCart.Items[0].Price)
}

func TestMergeFromEmptyGuestCartIsNoOp(t *testing.T) {
	productID := primitive.NewObjectID()
	userCart := &Cart{Items: []CartItem{{ID: primitive.NewObjectID(), ProductID: productID, Qty: 1, Price: 100}}}

	userCart.MergeFrom(&Cart{})

	require.Len(t, userCart.Items, 1)
	assert.Equal(t, 1, userCart.Items[0].Qty)
}

func TestRemoveItem(t *testing.T) {
	itemID := primitive.NewObjectID()
	cart := &Cart{Items: []CartItem{
		{ID: itemID, ProductID: primitive.NewObjectID(), Qty: 1},
		{ID: primitive.NewObjectID(), ProductID: primitive.NewObjectID(), Qty: 2},
	}}

	assert.True(t, cart.RemoveItem(itemID))
	assert.Len(t, cart.Items, 1)
	assert.False(t, cart.RemoveItem(itemID))
}

func TestFindItemByID(t *testing.T) {
	itemID := primitive.NewObjectID()
	cart := &Cart{Items: []CartItem{{ID: itemID, ProductID: primitive.NewObjectID(), Qty: 1}}}

	require.NotNil(t, cart.FindItemByID(itemID))
	assert.Nil(t, cart.FindItemByID(primitive.NewObjectID()))
}
