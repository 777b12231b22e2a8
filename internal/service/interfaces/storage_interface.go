package interfaces

import (
	"context"
	"time"
)

type LoanLockInterface interface {
	// Acquire returns a release func, or a conflict error while another request holds the loan.
	Acquire(ctx context.Context, loanID string, ttl time.Duration) (func(), error)
}
