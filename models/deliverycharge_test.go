package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func TestCalculateChargeFixed(t *testing.T) {
	rule := DeliveryCharge{ChargeType: ChargeFixed, FixedAmount: 40, IsActive: true}

	charge, ok := rule.CalculateCharge(300)
	require.True(t, ok)
	assert.Equal(t, 40.0, charge)
}

func TestCalculateChargePercentage(t *testing.T) {
	rule := DeliveryCharge{ChargeType: ChargePercentage, Percentage: 5, IsActive: true}

	charge, ok := rule.CalculateCharge(200)
	require.True(t, ok)
	assert.Equal(t, 10.0, charge)
}

func TestCalculateChargeFreeAbove(t *testing.T) {
	rule := DeliveryCharge{
		ChargeType:        ChargeFreeAbove,
		FreeDeliveryAbove: 500,
		FixedAmount:       50,
		IsActive:          true,
	}

	charge, ok := rule.CalculateCharge(600)
	require.True(t, ok)
	assert.Equal(t, 0.0, charge)

	// Below the threshold the rule's fixed amount is the fallback charge.
	charge, ok = rule.CalculateCharge(300)
	require.True(t, ok)
	assert.Equal(t, 50.0, charge)
}

func TestCalculateChargeTiered(t *testing.T) {
	rule := DeliveryCharge{
		ChargeType: ChargeTiered,
		IsActive:   true,
		Tiers: []ChargeTier{
			{MinAmount: 0, MaxAmount: f64(500), Charge: 50},
			{MinAmount: 500, MaxAmount: nil, Charge: 0},
		},
	}

	charge, ok := rule.CalculateCharge(300)
	require.True(t, ok)
	assert.Equal(t, 50.0, charge)

	charge, ok = rule.CalculateCharge(1000)
	require.True(t, ok)
	assert.Equal(t, 0.0, charge)
}

func TestCalculateChargeTieredGapIsInapplicable(t *testing.T) {
	rule := DeliveryCharge{
		ChargeType: ChargeTiered,
		IsActive:   true,
		Tiers:      []ChargeTier{{MinAmount: 100, MaxAmount: f64(200), Charge: 25}},
	}

	_, ok := rule.CalculateCharge(50)
	assert.False(t, ok)

	// No tiers at all also makes the rule inapplicable.
	rule.Tiers = nil
	_, ok = rule.CalculateCharge(150)
	assert.False(t, ok)
}

func TestCalculateChargeAmountRange(t *testing.T) {
	rule := DeliveryCharge{
		ChargeType:     ChargeFixed,
		FixedAmount:    40,
		MinOrderAmount: 100,
		MaxOrderAmount: f64(1000),
		IsActive:       true,
	}

	_, ok := rule.CalculateCharge(50)
	assert.False(t, ok)

	_, ok = rule.CalculateCharge(1500)
	assert.False(t, ok)

	charge, ok := rule.CalculateCharge(500)
	require.True(t, ok)
	assert.Equal(t, 40.0, charge)
}

func TestCalculateChargeInactive(t *testing.T) {
	rule := DeliveryCharge{ChargeType: ChargeFixed, FixedAmount: 40, IsActive: false}

	_, ok := rule.CalculateCharge(300)
	assert.False(t, ok)
}

func TestSelectDeliveryChargeFirstApplicableWins(t *testing.T) {
	rules := []DeliveryCharge{
		{Name: "low", ChargeType: ChargeFixed, FixedAmount: 80, Priority: 2, IsActive: true},
		{Name: "high", ChargeType: ChargeFixed, FixedAmount: 40, Priority: 1, IsActive: true},
	}

	charge, rule := SelectDeliveryCharge(rules, 300)
	require.NotNil(t, rule)
	assert.Equal(t, "high", rule.Name)
	assert.Equal(t, 40.0, charge)
}

func TestSelectDeliveryChargeFallsThroughInapplicable(t *testing.T) {
	rules := []DeliveryCharge{
		{
			Name:       "gapped tiers",
			ChargeType: ChargeTiered,
			Priority:   1,
			IsActive:   true,
			Tiers:      []ChargeTier{{MinAmount: 1000, MaxAmount: nil, Charge: 0}},
		},
		{Name: "fallback", ChargeType: ChargeFixed, FixedAmount: 60, Priority: 2, IsActive: true},
	}

	charge, rule := SelectDeliveryCharge(rules, 300)
	require.NotNil(t, rule)
	assert.Equal(t, "fallback", rule.Name)
	assert.Equal(t, 60.0, charge)
}

func TestSelectDeliveryChargePriorityTieBrokenByCreation(t *testing.T) {
	older := time.Now().Add(-time.Hour)
	newer := time.Now()
	rules := []DeliveryCharge{
		{Name: "newer", ChargeType: ChargeFixed, FixedAmount: 80, Priority: 1, IsActive: true, CreatedAt: newer},
		{Name: "older", ChargeType: ChargeFixed, FixedAmount: 40, Priority: 1, IsActive: true, CreatedAt: older},
	}

	_, rule := SelectDeliveryCharge(rules, 300)
	require.NotNil(t, rule)
	assert.Equal(t, "older", rule.Name)
}

func TestSelectDeliveryChargeNoApplicableRule(t *testing.T) {
	rules := []DeliveryCharge{
		{ChargeType: ChargeFixed, FixedAmount: 40, MinOrderAmount: 1000, IsActive: true},
	}

	charge, rule := SelectDeliveryCharge(rules, 300)
	assert.Nil(t, rule)
	assert.Equal(t, 0.0, charge)

	charge, rule = SelectDeliveryCharge(nil, 300)
	assert.Nil(t, rule)
	assert.Equal(t, 0.0, charge)
}

func TestSelectDeliveryChargeDeterministic(t *testing.T) {
	rules := []DeliveryCharge{
		{Name: "a", ChargeType: ChargeFixed, FixedAmount: 10, Priority: 3, IsActive: true},
		{Name: "b", ChargeType: ChargeFixed, FixedAmount: 20, Priority: 1, IsActive: true},
		{Name: "c", ChargeType: ChargeFixed, FixedAmount: 30, Priority: 2, IsActive: true},
	}

	first, firstRule := SelectDeliveryCharge(rules, 300)
	for i := 0; i < 5; i++ {
		charge, rule := SelectDeliveryCharge(rules, 300)
		assert.Equal(t, first, charge)
		assert.Equal(t, firstRule.Name, rule.Name)
	}
}
