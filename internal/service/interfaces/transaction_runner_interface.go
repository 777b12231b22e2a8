package interfaces

import "context"

// TxRunnerInterface wraps several writes in one atomic unit. Writes inside fn
// must use the ctx passed to fn.
type TxRunnerInterface interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
