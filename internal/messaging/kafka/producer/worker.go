package producer

import (
	"context"
	"time"

	"go-hrms/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	defaultPollInterval = 3 * time.Second
	drainBatchSize      = 50
)

// publishFunc delivers one staged event to the broker.
type publishFunc func(ctx context.Context, event kafka.OutboxEvent) error

// ProcessOutboxEvents drains staged leave lifecycle events into Kafka. The
// outbox is drained once immediately and then on every tick until the
// context is cancelled.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer *kafkago.Writer,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	log := logger.Named("outbox.worker")
	publish := func(ctx context.Context, event kafka.OutboxEvent) error {
		return publishEvent(ctx, writer, event)
	}

	log.Info("outbox worker started", zap.Duration("poll_interval", pollInterval))

	if err := drainOutbox(ctx, repo, publish, log); err != nil {
		log.Error("drain outbox failed", zap.Error(err))
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if err := drainOutbox(ctx, repo, publish, log); err != nil {
				log.Error("drain outbox failed", zap.Error(err))
			}
		}
	}
}

// drainOutbox publishes one batch of due events. Events that fail to
// publish are rescheduled through MarkFailed and never block the rest of
// the batch.
func drainOutbox(
	ctx context.Context,
	repo kafka.OutboxRepository,
	publish publishFunc,
	logger *zap.Logger,
) error {
	events, err := repo.ListPending(ctx, drainBatchSize)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	var sent, failed int
	for _, event := range events {
		if err := publish(ctx, event); err != nil {
			failed++
			logger.Error("publish leave event failed",
				zap.String("outbox_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.Int("retry_count", event.RetryCount),
				zap.Error(err),
			)
			_ = repo.MarkFailed(ctx, event.ID, err.Error())
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			logger.Error("mark outbox sent failed",
				zap.String("outbox_id", event.ID),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	logger.Info("outbox batch drained",
		zap.Int("sent", sent),
		zap.Int("failed", failed),
	)

	return nil
}
