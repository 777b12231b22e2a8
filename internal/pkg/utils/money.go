package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

// RoundMoney rounds to two decimal places, half away from zero.
func RoundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// RoundWhole rounds to whole currency units.
func RoundWhole(v float64) float64 {
	return decimal.NewFromFloat(v).Round(0).InexactFloat64()
}

func FormatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// IsFiniteAmount rejects NaN and infinities read back from storage.
func IsFiniteAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
