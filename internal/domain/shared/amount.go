package shared

import "github.com/shopspring/decimal"

// AmountScale is the number of decimal places stored for money and quantities
// (decimal(18,4) columns)
const AmountScale = 4

// FitsScale reports whether d is representable without rounding in an
// AmountScale column
func FitsScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(AmountScale))
}
