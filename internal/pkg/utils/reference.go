package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewReference builds ids like LOAN-1F0C9A2B7D3E.
func NewReference(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + strings.ToUpper(id[:12])
}
