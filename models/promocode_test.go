package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func activePromo() *PromoCode {
	return &PromoCode{
		Code:          "SAVE100",
		DiscountType:  DiscountFixed,
		DiscountValue: 100,
		StartDate:     time.Now().Add(-time.Hour),
		EndDate:       time.Now().Add(time.Hour),
		IsActive:      true,
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "SAVE100", NormalizeCode("  save100 "))
}

func TestPromoValidateChecksRunInOrder(t *testing.T) {
	userID := primitive.NewObjectID()

	promo := activePromo()
	promo.IsActive = false
	assert.EqualError(t, promo.Validate(500, nil), "Promo code is not active")

	promo = activePromo()
	promo.EndDate = time.Now().Add(-time.Minute)
	assert.EqualError(t, promo.Validate(500, nil), "Promo code has expired or not yet active")

	promo = activePromo()
	promo.StartDate = time.Now().Add(time.Minute)
	promo.EndDate = time.Now().Add(time.Hour)
	assert.EqualError(t, promo.Validate(500, nil), "Promo code has expired or not yet active")

	promo = activePromo()
	promo.MinOrderAmount = 200
	assert.EqualError(t, promo.Validate(150, nil), "Minimum order amount of ₹200 required")

	promo = activePromo()
	limit := 5
	promo.UsageLimit = &limit
	promo.UsedCount = 5
	assert.EqualError(t, promo.Validate(500, nil), "Promo code usage limit reached")

	promo = activePromo()
	promo.UsedBy = []primitive.ObjectID{userID}
	assert.EqualError(t, promo.Validate(500, &userID), "You have already used this promo code")

	// Without a user identity the per-user reuse check is skipped.
	assert.NoError(t, promo.Validate(500, nil))

	promo = activePromo()
	promo.MinOrderAmount = 200
	require.NoError(t, promo.Validate(500, &userID))
}

func TestPromoValidateUnsetUsageLimit(t *testing.T) {
	promo := activePromo()
	promo.UsedCount = 1000000
	assert.NoError(t, promo.Validate(500, nil))
}

func TestPromoCalculateDiscountFixed(t *testing.T) {
	promo := activePromo()
	assert.Equal(t, 100.0, promo.CalculateDiscount(500))

	// Fixed discount never exceeds the order amount.
	assert.Equal(t, 80.0, promo.CalculateDiscount(80))
}

func TestPromoCalculateDiscountPercentage(t *testing.T) {
	promo := activePromo()
	promo.DiscountType = DiscountPercentage
	promo.DiscountValue = 10
	assert.Equal(t, 50.0, promo.CalculateDiscount(500))

	maxDiscount := 30.0
	promo.MaxDiscountAmount = &maxDiscount
	assert.Equal(t, 30.0, promo.CalculateDiscount(500))
}

func TestPromoCalculateDiscountRoundsToTwoDecimals(t *testing.T) {
	promo := activePromo()
	promo.DiscountType = DiscountPercentage
	promo.DiscountValue = 15
	// 15% of 333.33 = 49.9995 → 50.00
	assert.Equal(t, 50.0, promo.CalculateDiscount(333.33))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 3.14, Round2(3.14159))
	assert.Equal(t, 2.72, Round2(2.718))
	assert.Equal(t, 0.0, Round2(0))
}
