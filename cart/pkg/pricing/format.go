package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

const currencySymbol = "₦"

// FormatPrice renders an amount in naira with thousands separators, e.g.
// ₦46,000 or ₦1,250.50.
func FormatPrice(price decimal.Decimal) string {
	sign := ""
	if price.IsNegative() {
		sign = "-"
		price = price.Neg()
	}

	rounded := price.Round(2)
	integer := rounded.Truncate(0)
	fraction := rounded.Sub(integer)

	digits := integer.String()
	var b strings.Builder
	b.WriteString(sign)
	b.WriteString(currencySymbol)
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if !fraction.IsZero() {
		b.WriteString(strings.TrimPrefix(fraction.StringFixed(2), "0"))
	}
	return b.String()
}
