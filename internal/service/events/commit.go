package events

import (
	"context"
	"time"

	"easyloan/internal/pkg/otel"
	"easyloan/internal/pkg/store/models"
	"easyloan/internal/service/interfaces"

	"go.opentelemetry.io/otel/attribute"
)

// ForLoan builds an outbox event about loan. The loan's applicant, when set,
// receives the user notification.
func ForLoan(eventType string, loan *models.Loan, payload map[string]any) models.LoanEvent {
	return models.LoanEvent{
		EventType:   eventType,
		Loan:        loan.ID,
		User:        loan.User,
		ReferenceID: loan.LoanID,
		Payload:     payload,
		CreatedAt:   time.Now().UTC(),
	}
}

// Commit runs fn inside a transaction, records the events it returns in the
// same transaction, and dispatches them once the transaction has committed.
// fn may run more than once when the driver retries the transaction.
func Commit(
	ctx context.Context,
	tx interfaces.TxRunnerInterface,
	outbox interfaces.EventOutboxInterface,
	fn func(txCtx context.Context) ([]models.LoanEvent, error),
) (err error) {
	ctx, span := otel.StartSpan(ctx, "loan.commit")
	defer func() { otel.EndSpan(span, err) }()

	var recorded []models.LoanEvent
	err = tx.WithTransaction(ctx, func(txCtx context.Context) error {
		recorded = nil
		pending, err := fn(txCtx)
		if err != nil {
			return err
		}
		for i := range pending {
			if err := outbox.Record(txCtx, &pending[i]); err != nil {
				return err
			}
		}
		recorded = pending
		return nil
	})
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.Int("loan_event.count", len(recorded)))
	if len(recorded) > 0 {
		outbox.Dispatch(ctx, recorded...)
	}
	return nil
}
