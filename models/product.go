package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// WeightOption is one purchasable weight variant of a product. Its discount
// fields, when active, override the product-level discount.
type WeightOption struct {
	Weight           float64      `bson:"weight" json:"weight"` // grams
	Price            float64      `bson:"price" json:"price"`
	Stock            int          `bson:"stock" json:"stock"`
	DiscountType     DiscountType `bson:"discountType,omitempty" json:"discountType,omitempty"`
	DiscountValue    float64      `bson:"discountValue,omitempty" json:"discountValue,omitempty"`
	IsDiscountActive bool         `bson:"isDiscountActive" json:"isDiscountActive"`
}

type Product struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Description      string             `bson:"description" json:"description"`
	BasePrice        float64            `bson:"basePrice" json:"basePrice"`
	Image            string             `bson:"image,omitempty" json:"image,omitempty"`
	Stock            int                `bson:"stock" json:"stock"`
	Category         string             `bson:"category,omitempty" json:"category,omitempty"`
	WeightOptions    []WeightOption     `bson:"weightOptions" json:"weightOptions"`
	DiscountType     DiscountType       `bson:"discountType,omitempty" json:"discountType,omitempty"`
	DiscountValue    float64            `bson:"discountValue,omitempty" json:"discountValue,omitempty"`
	IsDiscountActive bool               `bson:"isDiscountActive" json:"isDiscountActive"`
	Rating           float64            `bson:"rating" json:"rating"`
	NumReviews       int                `bson:"numReviews" json:"numReviews"`
	User             primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Price returns the product's display price: the first weight option's price
// when weight options exist, else the base price.
func (p *Product) Price() float64 {
	if len(p.WeightOptions) > 0 {
		return p.WeightOptions[0].Price
	}
	return p.BasePrice
}

// FindWeightOption returns the option matching the given weight, or nil.
func (p *Product) FindWeightOption(weight float64) *WeightOption {
	for i := range p.WeightOptions {
		if p.WeightOptions[i].Weight == weight {
			return &p.WeightOptions[i]
		}
	}
	return nil
}
