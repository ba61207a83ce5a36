package money

import "github.com/shopspring/decimal"

// Format renders an amount in minor units with two decimals, e.g. 4500 -> "45.00"
func Format(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}

// Multiply returns unit*qty in minor units
func Multiply(unit int64, qty int) int64 {
	return decimal.NewFromInt(unit).Mul(decimal.NewFromInt(int64(qty))).IntPart()
}
