package types

import "github.com/shopspring/decimal"

// CentsToDecimal converts integer minor units into a decimal amount.
// All pricing math happens in cents; decimals exist only at the API boundary.
func CentsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// CentsToDecimalString renders integer minor units as a two-place decimal string.
func CentsToDecimalString(cents int64) string {
	return CentsToDecimal(cents).StringFixed(2)
}
