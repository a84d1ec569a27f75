package entities

import "math"

// Money is an amount of currency in cents. The store keeps the same
// representation (BIGINT), so arithmetic here is exact.
type Money int64

func MoneyFromFloat(f float64) Money {
	return Money(math.Round(f * 100))
}

func (m Money) Float64() float64 {
	return float64(m) / 100
}
