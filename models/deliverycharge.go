package models

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChargeType string

const (
	ChargeFixed      ChargeType = "fixed"
	ChargePercentage ChargeType = "percentage"
	ChargeTiered     ChargeType = "tiered"
	ChargeFreeAbove  ChargeType = "free_above"
)

// ChargeTier maps an order-amount band to a flat charge. A nil MaxAmount
// means the band is unbounded above.
type ChargeTier struct {
	MinAmount float64  `bson:"minAmount" json:"minAmount"`
	MaxAmount *float64 `bson:"maxAmount" json:"maxAmount"`
	Charge    float64  `bson:"charge" json:"charge"`
}

type DeliveryCharge struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                string             `bson:"name" json:"name"`
	Description         string             `bson:"description,omitempty" json:"description,omitempty"`
	ChargeType          ChargeType         `bson:"chargeType" json:"chargeType"`
	FixedAmount         float64            `bson:"fixedAmount" json:"fixedAmount"`
	Percentage          float64            `bson:"percentage" json:"percentage"`
	FreeDeliveryAbove   float64            `bson:"freeDeliveryAbove" json:"freeDeliveryAbove"`
	Tiers               []ChargeTier       `bson:"tiers" json:"tiers"`
	MinOrderAmount      float64            `bson:"minOrderAmount" json:"minOrderAmount"`
	MaxOrderAmount      *float64           `bson:"maxOrderAmount,omitempty" json:"maxOrderAmount,omitempty"`
	Priority            int                `bson:"priority" json:"priority"`
	IsActive            bool               `bson:"isActive" json:"isActive"`
	ApplicableLocations []string           `bson:"applicableLocations,omitempty" json:"applicableLocations,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CalculateCharge evaluates this rule for an order amount. The second return
// value reports whether the rule applies at all; an inapplicable rule is
// distinct from a zero charge so the caller can fall through to the next rule.
func (d *DeliveryCharge) CalculateCharge(orderAmount float64) (float64, bool) {
	if !d.IsActive {
		return 0, false
	}
	if orderAmount < d.MinOrderAmount {
		return 0, false
	}
	if d.MaxOrderAmount != nil && orderAmount > *d.MaxOrderAmount {
		return 0, false
	}

	var charge float64

	switch d.ChargeType {
	case ChargeFixed:
		charge = d.FixedAmount

	case ChargePercentage:
		charge = orderAmount * d.Percentage / 100

	case ChargeFreeAbove:
		if orderAmount >= d.FreeDeliveryAbove {
			charge = 0
		} else {
			// Below the free-delivery threshold the rule's fixed amount is
			// the fallback charge.
			charge = d.FixedAmount
		}

	case ChargeTiered:
		tier := d.matchTier(orderAmount)
		if tier == nil {
			return 0, false
		}
		charge = tier.Charge

	default:
		return 0, false
	}

	if charge < 0 {
		charge = 0
	}
	return charge, true
}

func (d *DeliveryCharge) matchTier(orderAmount float64) *ChargeTier {
	for i := range d.Tiers {
		t := &d.Tiers[i]
		if orderAmount >= t.MinAmount && (t.MaxAmount == nil || orderAmount <= *t.MaxAmount) {
			return t
		}
	}
	return nil
}

// SelectDeliveryCharge scans rules in priority order (ascending, ties broken
// by creation time, older first) and returns the first applicable rule's
// charge. With no applicable rule the charge is 0 and the rule nil.
func SelectDeliveryCharge(rules []DeliveryCharge, orderAmount float64) (float64, *DeliveryCharge) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority < rules[j].Priority
		}
		return rules[i].CreatedAt.Before(rules[j].CreatedAt)
	})

	for i := range rules {
		if charge, ok := rules[i].CalculateCharge(orderAmount); ok {
			return charge, &rules[i]
		}
	}
	return 0, nil
}
