package models

import (
	"fmt"

	"easyloan/internal/pkg/consts"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindForbidden
	KindUnauthorized
	KindConflict
	KindIntegrity
)

// CustomError is a business failure safe to show to the caller.
type CustomError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

func (e *CustomError) ErrorCode() string {
	return e.Code
}

func NewValidationError(format string, args ...any) *CustomError {
	return newCustomError(KindValidation, consts.ErrCodeValidation, format, args...)
}

func NewNotFoundError(format string, args ...any) *CustomError {
	return newCustomError(KindNotFound, consts.ErrCodeNotFound, format, args...)
}

func NewForbiddenError(format string, args ...any) *CustomError {
	return newCustomError(KindForbidden, consts.ErrCodeForbidden, format, args...)
}

func NewUnauthorizedError(format string, args ...any) *CustomError {
	return newCustomError(KindUnauthorized, consts.ErrCodeUnauthorized, format, args...)
}

func NewConflictError(format string, args ...any) *CustomError {
	return newCustomError(KindConflict, consts.ErrCodeConflict, format, args...)
}

// NewIntegrityError marks stored data that breaks an invariant. It surfaces as a server error.
func NewIntegrityError(format string, args ...any) *CustomError {
	return newCustomError(KindIntegrity, consts.ErrCodeIntegrity, format, args...)
}

func newCustomError(kind ErrorKind, code, format string, args ...any) *CustomError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &CustomError{Kind: kind, Code: code, Message: msg}
}
