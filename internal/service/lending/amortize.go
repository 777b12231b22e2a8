package lending

import (
	"easyloan/internal/pkg/log_messages"
	custom "easyloan/internal/pkg/models"
	"easyloan/internal/pkg/utils"

	"github.com/shopspring/decimal"
)

const divisionPrecision = 16

var (
	monthsPerYear = decimal.NewFromInt(12)
	hundred       = decimal.NewFromInt(100)
)

// Amortize returns the fixed monthly payment and total repayable for a loan,
// both rounded to two decimals.
//
//	r = rate / 100 / 12
//	monthly = P*r / (1 - (1+r)^-n)
//
// A zero rate repays principal/n each month.
func Amortize(principal, annualRatePercent float64, termMonths int) (float64, float64, error) {
	if !utils.IsFiniteAmount(principal) || principal <= 0 {
		return 0, 0, custom.NewValidationError(log_messages.FieldInvalid, "amount")
	}
	if !utils.IsFiniteAmount(annualRatePercent) || annualRatePercent < 0 {
		return 0, 0, custom.NewValidationError(log_messages.FieldInvalid, "interestRate")
	}
	if termMonths <= 0 {
		return 0, 0, custom.NewValidationError(log_messages.FieldInvalid, "termMonths")
	}

	p := decimal.NewFromFloat(principal)
	n := decimal.NewFromInt(int64(termMonths))

	var monthly decimal.Decimal
	if annualRatePercent == 0 {
		monthly = p.DivRound(n, divisionPrecision)
	} else {
		r := decimal.NewFromFloat(annualRatePercent).DivRound(hundred, divisionPrecision).DivRound(monthsPerYear, divisionPrecision)
		growth := decimal.NewFromInt(1).Add(r).Pow(n)
		denominator := decimal.NewFromInt(1).Sub(decimal.NewFromInt(1).DivRound(growth, divisionPrecision))
		monthly = p.Mul(r).DivRound(denominator, divisionPrecision)
	}

	monthly = monthly.Round(2)
	total := monthly.Mul(n).Round(2)
	return monthly.InexactFloat64(), total.InexactFloat64(), nil
}
