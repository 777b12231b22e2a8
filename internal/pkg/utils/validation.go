package utils

import (
	"errors"
	"reflect"
	"slices"
	"strings"
	"time"

	"easyloan/internal/pkg/consts"
	"easyloan/internal/pkg/log_messages"
	"easyloan/internal/pkg/models"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = newValidator()

var paymentMethods = []string{
	consts.PaymentMethodBank,
	consts.PaymentMethodCard,
	consts.PaymentMethodMobileMoney,
	consts.PaymentMethodCash,
	consts.PaymentMethodBankTransfer,
}

var repaymentStatuses = []consts.RepaymentStatus{
	consts.RepaymentStatusPaid,
	consts.RepaymentStatusLate,
	consts.RepaymentStatusUpcoming,
	consts.RepaymentStatusRejected,
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return field.Name
	})
	_ = v.RegisterValidation("loantype", func(fl validator.FieldLevel) bool {
		return IsLoanType(fl.Field().String())
	})
	_ = v.RegisterValidation("loanstatus", func(fl validator.FieldLevel) bool {
		return consts.LoanStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("paymentmethod", func(fl validator.FieldLevel) bool {
		return slices.Contains(paymentMethods, fl.Field().String())
	})
	_ = v.RegisterValidation("repaymentstatus", func(fl validator.FieldLevel) bool {
		return slices.Contains(repaymentStatuses, consts.RepaymentStatus(fl.Field().String()))
	})
	return v
}

func IsLoanType(loanType string) bool {
	return slices.Contains(consts.LoanTypes, loanType)
}

// ValidateStruct runs the validate tags and reports the first failing field as a validation error.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return models.NewValidationError(log_messages.InvalidRequestBody)
	}
	first := fieldErrs[0]
	if first.Tag() == "required" {
		return models.NewValidationError(log_messages.FieldRequired, first.Field())
	}
	return models.NewValidationError(log_messages.FieldInvalid, first.Field())
}

// ParseObjectID converts a path or body id, failing as a validation error.
func ParseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, models.NewValidationError(log_messages.InvalidID, id)
	}
	return oid, nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// ParseDate accepts full timestamps as well as calendar dates.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, models.NewValidationError(log_messages.InvalidDueDate)
}
