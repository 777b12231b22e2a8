package events

import (
	"context"
	"time"

	"easyloan/internal/pkg/config"
	"easyloan/internal/pkg/log_messages"
	"easyloan/internal/pkg/logger"
	"easyloan/internal/pkg/models"
	storemodels "easyloan/internal/pkg/store/models"
	"easyloan/internal/service/interfaces"

	"go.uber.org/zap"
)

type eventPublisher interface {
	Publish(ctx context.Context, event storemodels.LoanEvent) error
}

// RetryService republishes events whose first dispatch failed or never ran.
type RetryService struct {
	repo       interfaces.LoanEventRepositoryInterface
	publisher  eventPublisher
	retryAfter time.Duration
	batchSize  int64
	now        func() time.Time
}

func NewRetryService(repo interfaces.LoanEventRepositoryInterface, publisher eventPublisher, cfg config.KafkaConfig) *RetryService {
	return &RetryService{
		repo:       repo,
		publisher:  publisher,
		retryAfter: time.Duration(cfg.RetryAfterSeconds) * time.Second,
		batchSize:  int64(cfg.RetryBatchSize),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// RetryPendingEvents publishes unpublished events older than the retry window.
// Fresh events are skipped because their first dispatch may still be in flight.
func (s *RetryService) RetryPendingEvents(ctx context.Context) (*models.EventRetryResponse, error) {
	response := &models.EventRetryResponse{SuccessIDs: []string{}, FailedIDs: []string{}}

	pending, err := s.repo.ListUnpublished(ctx, s.now().Add(-s.retryAfter), s.batchSize)
	if err != nil {
		logger.CtxError(ctx, "failed to list pending loan events", err)
		return response, err
	}
	if len(pending) == 0 {
		response.Message = log_messages.NoPendingEvents
		return response, nil
	}

	var lastErr error
	for _, event := range pending {
		if err := s.publisher.Publish(ctx, event); err != nil {
			response.FailedIDs = append(response.FailedIDs, event.ID.Hex())
			lastErr = err
			continue
		}
		response.SuccessIDs = append(response.SuccessIDs, event.ID.Hex())
	}

	logger.CtxInfo(ctx, "loan event retry finished",
		zap.Int("published", len(response.SuccessIDs)),
		zap.Int("failed", len(response.FailedIDs)))
	return response, lastErr
}
