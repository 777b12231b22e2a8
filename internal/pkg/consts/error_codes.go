package consts

const (
	ErrCodeValidation   = "EASYLOAN_VALIDATION_ERROR"
	ErrCodeNotFound     = "EASYLOAN_NOT_FOUND"
	ErrCodeForbidden    = "EASYLOAN_FORBIDDEN"
	ErrCodeUnauthorized = "EASYLOAN_UNAUTHORIZED"
	ErrCodeConflict     = "EASYLOAN_CONFLICT"
	ErrCodeIntegrity    = "EASYLOAN_INTEGRITY_ERROR"
	ErrCodeInternal     = "EASYLOAN_INTERNAL_ERROR"
)
