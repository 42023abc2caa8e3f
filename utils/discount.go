package utils

import (
	"github.com/fhammsnutribites-bit/fhamms-service/models"
)

// DiscountInfo describes the discount layer that produced a price.
type DiscountInfo struct {
	Type  models.DiscountType `json:"type"`
	Value float64             `json:"value"`
}

// PriceInfo is the resolved price for a product / weight-option pair.
type PriceInfo struct {
	Original     float64       `json:"original"`
	Discounted   float64       `json:"discounted"`
	HasDiscount  bool          `json:"hasDiscount"`
	DiscountInfo *DiscountInfo `json:"discountInfo,omitempty"`
}

// CalculateDiscountedPrice applies a single discount spec to a price.
// Percentage discounts reduce the price by value percent; fixed discounts
// subtract value, floored at zero. A missing type or non-positive value
// leaves the price unchanged.
func CalculateDiscountedPrice(originalPrice float64, discountType models.DiscountType, discountValue float64) float64 {
	if discountType == "" || discountValue <= 0 {
		return originalPrice
	}

	switch discountType {
	case models.DiscountPercentage:
		return originalPrice - originalPrice*discountValue/100
	case models.DiscountFixed:
		if discounted := originalPrice - discountValue; discounted > 0 {
			return discounted
		}
		return 0
	}

	return originalPrice
}

// GetProductPriceInfo resolves the effective price for a product, optionally
// for a specific weight option. An active weight-option discount takes
// precedence over an active product-level discount; with neither active the
// discounted price equals the original.
func GetProductPriceInfo(product *models.Product, weightOption *models.WeightOption) PriceInfo {
	var (
		originalPrice float64
		discountType  models.DiscountType
		discountValue float64
		hasDiscount   bool
	)

	if weightOption != nil {
		originalPrice = weightOption.Price

		if weightOption.IsDiscountActive && weightOption.DiscountType != "" && weightOption.DiscountValue > 0 {
			hasDiscount = true
			discountType = weightOption.DiscountType
			discountValue = weightOption.DiscountValue
		} else if product.IsDiscountActive && product.DiscountType != "" && product.DiscountValue > 0 {
			hasDiscount = true
			discountType = product.DiscountType
			discountValue = product.DiscountValue
		}
	} else {
		originalPrice = product.Price()

		if product.IsDiscountActive && product.DiscountType != "" && product.DiscountValue > 0 {
			hasDiscount = true
			discountType = product.DiscountType
			discountValue = product.DiscountValue
		}
	}

	info := PriceInfo{
		Original:    originalPrice,
		Discounted:  originalPrice,
		HasDiscount: hasDiscount,
	}
	if hasDiscount {
		info.Discounted = CalculateDiscountedPrice(originalPrice, discountType, discountValue)
		info.DiscountInfo = &DiscountInfo{Type: discountType, Value: discountValue}
	}
	return info
}
