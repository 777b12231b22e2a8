package utils

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"testing"

	"easyloan/internal/pkg/consts"
	"easyloan/internal/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", models.NewValidationError("bad"), http.StatusBadRequest},
		{"conflict maps to bad request", models.NewConflictError("Loan is already %s", "rejected"), http.StatusBadRequest},
		{"not found", models.NewNotFoundError("Loan not found"), http.StatusNotFound},
		{"forbidden", models.NewForbiddenError("no"), http.StatusForbidden},
		{"unauthorized", models.NewUnauthorizedError("no token"), http.StatusUnauthorized},
		{"integrity", models.NewIntegrityError("broken balance"), http.StatusInternalServerError},
		{"wrapped custom error", fmt.Errorf("ledger: %w", models.NewNotFoundError("x")), http.StatusNotFound},
		{"plain error", errors.New("socket closed"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFromError(tt.err))
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, consts.ErrCodeConflict, GetErrorCode(models.NewConflictError("x")))
	assert.Equal(t, consts.ErrCodeInternal, GetErrorCode(errors.New("boom")))
	assert.True(t, IsKind(models.NewForbiddenError("x"), models.KindForbidden))
	assert.False(t, IsKind(errors.New("x"), models.KindForbidden))
}

func TestValidateStruct(t *testing.T) {
	valid := models.ApplyLoanRequest{
		Amount:        50000,
		Duration:      12,
		LoanType:      consts.LoanTypeCar,
		InterestRate:  ptr(5.0),
		BankName:      "GTBank",
		AccountName:   "Ada Obi",
		AccountNumber: "0123456789",
		BVN:           "22233344455",
		Phone:         "08030000000",
		Email:         "ada@example.com",
	}

	t.Run("valid request passes", func(t *testing.T) {
		assert.NoError(t, ValidateStruct(valid))
	})

	t.Run("missing field reports its json name", func(t *testing.T) {
		req := valid
		req.BankName = ""
		err := ValidateStruct(req)
		require.Error(t, err)
		assert.Equal(t, "bankName is required", err.Error())
		assert.True(t, IsKind(err, models.KindValidation))
	})

	t.Run("nil interest rate is required", func(t *testing.T) {
		req := valid
		req.InterestRate = nil
		assert.EqualError(t, ValidateStruct(req), "interestRate is required")
	})

	t.Run("zero interest rate is allowed", func(t *testing.T) {
		req := valid
		req.InterestRate = ptr(0.0)
		assert.NoError(t, ValidateStruct(req))
	})

	t.Run("unknown loan type", func(t *testing.T) {
		req := valid
		req.LoanType = "payday"
		assert.EqualError(t, ValidateStruct(req), "loanType is invalid")
	})

	t.Run("payment method with a space", func(t *testing.T) {
		req := models.CreateRepaymentRequest{
			LoanID:        "abc",
			AmountPaid:    100,
			PaymentMethod: consts.PaymentMethodBankTransfer,
			DueDate:       "2025-01-01",
		}
		assert.NoError(t, ValidateStruct(req))

		req.PaymentMethod = "cheque"
		assert.EqualError(t, ValidateStruct(req), "paymentMethod is invalid")
	})

	t.Run("negative amount", func(t *testing.T) {
		req := models.CreateTransactionRequest{
			UserID: "u1",
			LoanID: "l1",
			Amount: -5,
			Type:   consts.TransactionTypeDisbursement,
			Method: consts.PaymentMethodBank,
		}
		assert.EqualError(t, ValidateStruct(req), "amount is invalid")
	})

	t.Run("term options dive", func(t *testing.T) {
		assert.Error(t, ValidateStruct(models.SettingsRequest{LoanTermOptions: []int{6, -1}}))
		assert.NoError(t, ValidateStruct(models.SettingsRequest{LoanTermOptions: []int{6, 12}}))
	})
}

func TestParseHelpers(t *testing.T) {
	t.Run("object id", func(t *testing.T) {
		_, err := ParseObjectID("not-an-id")
		assert.True(t, IsKind(err, models.KindValidation))

		oid, err := ParseObjectID("507f1f77bcf86cd799439011")
		require.NoError(t, err)
		assert.Equal(t, "507f1f77bcf86cd799439011", oid.Hex())
	})

	t.Run("dates", func(t *testing.T) {
		d, err := ParseDate("2025-03-01")
		require.NoError(t, err)
		assert.Equal(t, 2025, d.Year())

		_, err = ParseDate("2025-03-01T10:00:00Z")
		assert.NoError(t, err)

		_, err = ParseDate("March first")
		assert.True(t, IsKind(err, models.KindValidation))
	})
}

func TestMoneyHelpers(t *testing.T) {
	assert.Equal(t, 1.01, RoundMoney(1.005))
	assert.Equal(t, float64(1000), RoundWhole(999.5))
	assert.Equal(t, "10000.00", FormatMoney(10000))
	assert.False(t, IsFiniteAmount(math.NaN()))
	assert.False(t, IsFiniteAmount(math.Inf(1)))
	assert.True(t, IsFiniteAmount(0))
}

func TestNewReference(t *testing.T) {
	ref := NewReference(consts.LoanReferencePrefix)
	assert.True(t, strings.HasPrefix(ref, "LOAN-"))
	assert.Len(t, ref, len("LOAN-")+12)
	assert.NotEqual(t, ref, NewReference(consts.LoanReferencePrefix))
}
