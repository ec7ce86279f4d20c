package model

import "github.com/shopspring/decimal"

// Round2 rounds a monetary amount to cents (half away from zero).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
