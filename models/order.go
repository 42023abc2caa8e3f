package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderItem struct {
	ProductID     primitive.ObjectID `bson:"product" json:"productId"`
	Qty           int                `bson:"qty" json:"qty"`
	Price         float64            `bson:"price" json:"price"`
	OriginalPrice float64            `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	Weight        *float64           `bson:"weight,omitempty" json:"weight,omitempty"`
}

type ShippingAddress struct {
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
}

// Order is immutable after creation except for delivery marking.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"user" json:"user"`
	OrderItems      []OrderItem        `bson:"orderItems" json:"orderItems"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	Subtotal        float64            `bson:"subtotal" json:"subtotal"`
	PromoCode       string             `bson:"promoCode,omitempty" json:"promoCode,omitempty"`
	Discount        float64            `bson:"discount" json:"discount"`
	DeliveryCharge  float64            `bson:"deliveryCharge" json:"deliveryCharge"`
	TotalPrice      float64            `bson:"totalPrice" json:"totalPrice"`
	PaymentMethod   string             `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	IsPaid          bool               `bson:"isPaid" json:"isPaid"`
	PaidAt          *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	IsDelivered     bool               `bson:"isDelivered" json:"isDelivered"`
	DeliveredAt     *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Subtotal sums price × qty over the given lines.
func Subtotal(items []OrderItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Price * float64(item.Qty)
	}
	return sum
}

// HasProductDiscount reports whether any line already carries a product or
// weight-option discount, i.e. its original price is set and differs from its
// unit price. Such orders cannot additionally use a promo code.
func HasProductDiscount(items []OrderItem) bool {
	for _, item := range items {
		if item.OriginalPrice != 0 && item.OriginalPrice != item.Price {
			return true
		}
	}
	return false
}
