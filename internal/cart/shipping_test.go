package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultShipping(t *testing.T) {
	tests := []struct {
		name      string
		subtotal  float64
		itemCount int
		expected  float64
	}{
		{
			name:      "Just under free shipping threshold",
			subtotal:  49.99,
			itemCount: 1,
			expected:  5.0,
		},
		{
			name:      "Exactly at free shipping threshold",
			subtotal:  50.00,
			itemCount: 1,
			expected:  0.0,
		},
		{
			name:      "Above threshold with many items",
			subtotal:  120.0,
			itemCount: 7,
			expected:  0.0,
		},
		{
			name:      "Three items under threshold",
			subtotal:  10.0,
			itemCount: 3,
			expected:  6.0,
		},
		{
			name:      "Empty cart",
			subtotal:  0.0,
			itemCount: 0,
			expected:  5.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee := DefaultShipping(tt.subtotal, tt.itemCount, nil)
			assert.InDelta(t, tt.expected, fee, 1e-9)
		})
	}
}
