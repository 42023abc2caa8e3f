package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartItem struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID     primitive.ObjectID `bson:"product" json:"productId"`
	Qty           int                `bson:"qty" json:"qty"`
	Price         float64            `bson:"price" json:"price"`
	OriginalPrice float64            `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	Weight        *float64           `bson:"weight,omitempty" json:"weight,omitempty"`
}

// Cart is owned by exactly one of UserID (authenticated) or SessionID (guest).
type Cart struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID    *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	SessionID string              `bson:"sessionId,omitempty" json:"sessionId,omitempty"`
	Items     []CartItem          `bson:"items" json:"items"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}

func sameWeight(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// FindItem returns the index of the line with the given (product, weight) key,
// or -1 when no such line exists.
func (c *Cart) FindItem(productID primitive.ObjectID, weight *float64) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID && sameWeight(c.Items[i].Weight, weight) {
			return i
		}
	}
	return -1
}

// UpsertItem adds item to the cart. An existing line with the same
// (product, weight) key gets its quantity incremented and its price fields
// overwritten; otherwise a new line is appended.
func (c *Cart) UpsertItem(item CartItem) {
	if idx := c.FindItem(item.ProductID, item.Weight); idx > -1 {
		c.Items[idx].Qty += item.Qty
		c.Items[idx].Price = item.Price
		c.Items[idx].OriginalPrice = item.OriginalPrice
		return
	}
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	c.Items = append(c.Items, item)
}

// MergeFrom folds a guest cart's lines into this cart. Quantities of matching
// (product, weight) lines are summed and this cart's price fields are kept;
// lines with no match are appended as-is.
func (c *Cart) MergeFrom(guest *Cart) {
	for _, guestItem := range guest.Items {
		if idx := c.FindItem(guestItem.ProductID, guestItem.Weight); idx > -1 {
			c.Items[idx].Qty += guestItem.Qty
			continue
		}
		guestItem.ID = primitive.NewObjectID()
		c.Items = append(c.Items, guestItem)
	}
}

// RemoveItem deletes the line with the given subdocument id. It reports
// whether a line was removed.
func (c *Cart) RemoveItem(itemID primitive.ObjectID) bool {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// FindItemByID returns the line with the given subdocument id, or nil.
func (c *Cart) FindItemByID(itemID primitive.ObjectID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}
