package lock

import (
	"context"
	"fmt"
	"time"

	"easyloan/internal/pkg/log_messages"
	"easyloan/internal/pkg/logger"
	custom "easyloan/internal/pkg/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	keyFormat      = "easyloan:loan-lock:%s"
	releaseTimeout = 2 * time.Second
)

// Store is the part of repository.RedisStoreAdapter the lock needs.
type Store interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	DeleteIfValue(ctx context.Context, key string, value string) (bool, error)
}

// LoanLock serializes balance-changing requests per loan across service instances.
type LoanLock struct {
	store Store
}

func NewLoanLock(store Store) *LoanLock {
	return &LoanLock{store: store}
}

// Acquire takes the loan's lock for at most ttl. The returned release func is
// safe to call once the lock has expired or been taken by someone else.
func (l *LoanLock) Acquire(ctx context.Context, loanID string, ttl time.Duration) (func(), error) {
	key := fmt.Sprintf(keyFormat, loanID)
	token := uuid.NewString()

	ok, err := l.store.SetNX(ctx, key, token, ttl)
	if err != nil {
		logger.CtxError(ctx, "Error acquiring loan lock", err, zap.String("loan_id", loanID))
		return nil, err
	}
	if !ok {
		logger.CtxWarn(ctx, "Loan lock held by another request", zap.String("loan_id", loanID))
		return nil, custom.NewConflictError(log_messages.RepaymentInProgress)
	}

	release := func() {
		// The request ctx may already be cancelled.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()
		if _, err := l.store.DeleteIfValue(releaseCtx, key, token); err != nil {
			logger.CtxError(ctx, log_messages.ErrorReleasingLoanLock, err, zap.String("loan_id", loanID))
		}
	}
	return release, nil
}
