package mongo

import (
	"context"
	"fmt"

	"easyloan/internal/pkg/log_messages"
	"easyloan/internal/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.uber.org/zap"
)

// SessionStarter is the part of *mongo.Client used to open transactions.
type SessionStarter interface {
	StartSession(opts ...*options.SessionOptions) (mongo.Session, error)
}

// TxRunner runs fn inside a multi-document transaction. fn may be retried on
// transient errors, so it must only perform writes through the context it is given.
type TxRunner struct {
	client SessionStarter
}

func NewTxRunner(client SessionStarter) *TxRunner {
	return &TxRunner{client: client}
}

func (r *TxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start mongo session: %w", err)
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	}, txnOpts)
	if err != nil {
		logger.CtxWarn(ctx, log_messages.TransactionAborted, zap.Error(err))
		return err
	}
	return nil
}
