package utils

import (
	"errors"
	"net/http"

	"easyloan/internal/pkg/consts"
	"easyloan/internal/pkg/models"
)

func GetErrorCode(err error) string {
	var customErr *models.CustomError
	if errors.As(err, &customErr) {
		return customErr.ErrorCode()
	}
	return consts.ErrCodeInternal
}

// StatusFromError maps the error taxonomy onto HTTP. Conflicts are reported as 400.
func StatusFromError(err error) int {
	var customErr *models.CustomError
	if !errors.As(err, &customErr) {
		return http.StatusInternalServerError
	}
	switch customErr.Kind {
	case models.KindValidation, models.KindConflict:
		return http.StatusBadRequest
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindForbidden:
		return http.StatusForbidden
	case models.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func IsKind(err error, kind models.ErrorKind) bool {
	var customErr *models.CustomError
	return errors.As(err, &customErr) && customErr.Kind == kind
}
