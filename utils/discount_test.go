package utils

import (
	"testing"

	"github.com/fhammsnutribites-bit/fhamms-service/models"
	"github.com/stretchr/testify/assert"
)

func TestCalculateDiscountedPrice(t *testing.T) {
	assert.Equal(t, 90.0, CalculateDiscountedPrice(100, models.DiscountPercentage, 10))
	assert.Equal(t, 0.0, CalculateDiscountedPrice(100, models.DiscountPercentage, 100))
	assert.Equal(t, 60.0, CalculateDiscountedPrice(100, models.DiscountFixed, 40))

	// Fixed discount larger than the price floors at zero.
	assert.Equal(t, 0.0, CalculateDiscountedPrice(100, models.DiscountFixed, 150))

	// Missing type or non-positive value leaves the price unchanged.
	assert.Equal(t, 100.0, CalculateDiscountedPrice(100, "", 10))
	assert.Equal(t, 100.0, CalculateDiscountedPrice(100, models.DiscountPercentage, 0))
	assert.Equal(t, 100.0, CalculateDiscountedPrice(100, models.DiscountFixed, -5))
	assert.Equal(t, 100.0, CalculateDiscountedPrice(100, "bogus", 10))
}

func TestGetProductPriceInfoWeightOptionOverridesProduct(t *testing.T) {
	product := &models.Product{
		BasePrice:        200,
		DiscountType:     models.DiscountPercentage,
		DiscountValue:    50,
		IsDiscountActive: true,
	}
	option := &models.WeightOption{
		Weight:           500,
		Price:            300,
		DiscountType:     models.DiscountFixed,
		DiscountValue:    30,
		IsDiscountActive: true,
	}

	info := GetProductPriceInfo(product, option)
	assert.True(t, info.HasDiscount)
	assert.Equal(t, 300.0, info.Original)
	assert.Equal(t, 270.0, info.Discounted)
	assert.Equal(t, models.DiscountFixed, info.DiscountInfo.Type)
}

func TestGetProductPriceInfoFallsBackToProductDiscount(t *testing.T) {
	product := &models.Product{
		BasePrice:        200,
		DiscountType:     models.DiscountPercentage,
		DiscountValue:    10,
		IsDiscountActive: true,
	}
	option := &models.WeightOption{Weight: 250, Price: 150}

	info := GetProductPriceInfo(product, option)
	assert.True(t, info.HasDiscount)
	assert.Equal(t, 150.0, info.Original)
	assert.Equal(t, 135.0, info.Discounted)
	assert.Equal(t, models.DiscountPercentage, info.DiscountInfo.Type)
}

func TestGetProductPriceInfoInactiveDiscount(t *testing.T) {
	product := &models.Product{
		BasePrice:        200,
		DiscountType:     models.DiscountPercentage,
		DiscountValue:    10,
		IsDiscountActive: false,
	}

	info := GetProductPriceInfo(product, nil)
	assert.False(t, info.HasDiscount)
	assert.Equal(t, 200.0, info.Original)
	assert.Equal(t, 200.0, info.Discounted)
	assert.Nil(t, info.DiscountInfo)
}

func TestGetProductPriceInfoUsesFirstWeightOptionPrice(t *testing.T) {
	product := &models.Product{
		BasePrice: 200,
		WeightOptions: []models.WeightOption{
			{Weight: 250, Price: 120},
			{Weight: 500, Price: 220},
		},
	}

	info := GetProductPriceInfo(product, nil)
	assert.Equal(t, 120.0, info.Original)

	bare := &models.Product{BasePrice: 200}
	assert.Equal(t, 200.0, GetProductPriceInfo(bare, nil).Original)
}
