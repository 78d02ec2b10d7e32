package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAfterTax(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"round hundred", "100", "97"},
		{"minimum withdrawal", "20", "19.4"},
		{"needs rounding", "33.33", "32.33"},
		{"small amount", "10", "9.7"},
		{"paise precision", "0.01", "0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AfterTax(decimal.RequireFromString(tt.amount))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"AfterTax(%s) = %s, want %s", tt.amount, got, tt.want)
		})
	}
}

func TestAfterTax_NeverExceedsAmount(t *testing.T) {
	for _, amount := range []string{"10", "20", "55.55", "999999.99"} {
		a := decimal.RequireFromString(amount)
		assert.True(t, AfterTax(a).LessThan(a))
	}
}
