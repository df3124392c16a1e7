package types

import "github.com/shopspring/decimal"

// VND builds a decimal amount from whole Vietnamese dong. The upstream API
// deals exclusively in whole-dong amounts; decimals guard the arithmetic,
// not fractional currency.
func VND(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount)
}

// ClampNonNegative floors an amount at zero.
func ClampNonNegative(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}
