package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name     string
		input    decimal.Decimal
		expected string
	}{
		{name: "given zero should return naira zero", input: decimal.Zero, expected: "₦0"},
		{name: "given hundreds should not group", input: decimal.NewFromInt(500), expected: "₦500"},
		{name: "given thousands should group", input: decimal.NewFromInt(46000), expected: "₦46,000"},
		{name: "given millions should group twice", input: decimal.NewFromInt(1234567), expected: "₦1,234,567"},
		{name: "given fraction should keep two digits", input: decimal.RequireFromString("1250.5"), expected: "₦1,250.50"},
		{name: "given negative should prefix sign", input: decimal.NewFromInt(-3000), expected: "-₦3,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPrice(tt.input))
		})
	}
}
