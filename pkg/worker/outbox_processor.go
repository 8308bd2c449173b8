package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/model"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/repository"
	"github.com/dteti-sys-rsch/wafi-dental-care/pkg/messaging"
	"github.com/dteti-sys-rsch/wafi-dental-care/pkg/metrics"
)

// OutboxProcessor drains pending outbox events and publishes them to the
// message broker. Events that fail to publish are marked FAILED and left
// for inspection rather than retried forever.
type OutboxProcessor struct {
	repo         repository.OutboxRepository
	broker       messaging.Broker
	metrics      *metrics.Metrics
	batchSize    int
	pollInterval time.Duration
}

func NewOutboxProcessor(repo repository.OutboxRepository, broker messaging.Broker,
	m *metrics.Metrics, batchSize int, pollInterval time.Duration) *OutboxProcessor {
	if batchSize <= 0 {
		batchSize = 50
	}
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &OutboxProcessor{
		repo:         repo,
		broker:       broker,
		metrics:      m,
		batchSize:    batchSize,
		pollInterval: pollInterval,
	}
}

// Start polls until the context is cancelled.
func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	log.Info().
		Int("batch_size", p.batchSize).
		Dur("poll_interval", p.pollInterval).
		Msg("outbox processor started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("outbox processor stopped")
			return
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				log.Error().Err(err).Msg("failed to process outbox batch")
			}
		}
	}
}

func (p *OutboxProcessor) processBatch(ctx context.Context) error {
	events, err := p.repo.GetPending(ctx, p.batchSize)
	if err != nil {
		return err
	}

	for _, event := range events {
		p.process(ctx, event)
	}
	return nil
}

func (p *OutboxProcessor) process(ctx context.Context, event *model.OutboxEvent) {
	if err := p.broker.Publish(ctx, event.EventType, event.Payload); err != nil {
		log.Error().Err(err).
			Str("event_id", event.ID.String()).
			Str("event_type", event.EventType).
			Msg("failed to publish outbox event")

		if p.metrics != nil {
			p.metrics.OutboxEventsFailed.Inc()
		}
		if markErr := p.repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
			log.Error().Err(markErr).
				Str("event_id", event.ID.String()).
				Msg("failed to mark outbox event as failed")
		}
		return
	}

	if p.metrics != nil {
		p.metrics.OutboxEventsProcessed.Inc()
	}
	if err := p.repo.MarkProcessed(ctx, event.ID); err != nil {
		log.Error().Err(err).
			Str("event_id", event.ID.String()).
			Msg("failed to mark outbox event as processed")
	}
}
