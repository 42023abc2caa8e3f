package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubtotal(t *testing.T) {
	items := []OrderItem{
		{Qty: 2, Price: 100},
		{Qty: 1, Price: 49.5},
	}
	assert.Equal(t, 249.5, Subtotal(items))
	assert.Equal(t, 0.0, Subtotal(nil))
}

func TestHasProductDiscount(t *testing.T) {
	assert.False(t, HasProductDiscount(nil))

	// originalPrice unset means no discount was applied.
	assert.False(t, HasProductDiscount([]OrderItem{{Qty: 1, Price: 100}}))

	// originalPrice equal to price means no discount either.
	assert.False(t, HasProductDiscount([]OrderItem{{Qty: 1, Price: 100, OriginalPrice: 100}}))

	assert.True(t, HasProductDiscount([]OrderItem{
		{Qty: 1, Price: 100, OriginalPrice: 100},
		{Qty: 1, Price: 90, OriginalPrice: 120},
	}))
}
