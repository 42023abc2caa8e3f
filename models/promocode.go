package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PromoCode struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Code              string               `bson:"code" json:"code"`
	Description       string               `bson:"description,omitempty" json:"description,omitempty"`
	DiscountType      DiscountType         `bson:"discountType" json:"discountType"`
	DiscountValue     float64              `bson:"discountValue" json:"discountValue"`
	MinOrderAmount    float64              `bson:"minOrderAmount" json:"minOrderAmount"`
	MaxDiscountAmount *float64             `bson:"maxDiscountAmount,omitempty" json:"maxDiscountAmount,omitempty"`
	StartDate         time.Time            `bson:"startDate" json:"startDate"`
	EndDate           time.Time            `bson:"endDate" json:"endDate"`
	IsActive          bool                 `bson:"isActive" json:"isActive"`
	UsageLimit        *int                 `bson:"usageLimit,omitempty" json:"usageLimit,omitempty"`
	UsedCount         int                  `bson:"usedCount" json:"usedCount"`
	UsedBy            []primitive.ObjectID `bson:"usedBy" json:"usedBy"`
	CreatedAt         time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// NormalizeCode canonicalizes a promo code for storage and lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Round2 rounds a money amount to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Validate checks whether the code can be applied to an order of the given
// amount by the given user. Checks run in a fixed order and the first failure
// is returned; nil means the code is applicable.
func (p *PromoCode) Validate(orderAmount float64, userID *primitive.ObjectID) error {
	now := time.Now()

	if !p.IsActive {
		return errors.New("Promo code is not active")
	}
	if now.Before(p.StartDate) || now.After(p.EndDate) {
		return errors.New("Promo code has expired or not yet active")
	}
	if orderAmount < p.MinOrderAmount {
		return fmt.Errorf("Minimum order amount of ₹%g required", p.MinOrderAmount)
	}
	if p.UsageLimit != nil && p.UsedCount >= *p.UsageLimit {
		return errors.New("Promo code usage limit reached")
	}
	if userID != nil {
		for _, used := range p.UsedBy {
			if used == *userID {
				return errors.New("You have already used this promo code")
			}
		}
	}
	return nil
}

// CalculateDiscount computes the discount for an order amount. Percentage
// discounts are capped at MaxDiscountAmount when set; fixed discounts never
// exceed the order amount. Only meaningful after Validate succeeds.
func (p *PromoCode) CalculateDiscount(orderAmount float64) float64 {
	var discount float64

	switch p.DiscountType {
	case DiscountPercentage:
		discount = orderAmount * p.DiscountValue / 100
		if p.MaxDiscountAmount != nil && discount > *p.MaxDiscountAmount {
			discount = *p.MaxDiscountAmount
		}
	case DiscountFixed:
		discount = p.DiscountValue
		if discount > orderAmount {
			discount = orderAmount
		}
	}

	return Round2(discount)
}
