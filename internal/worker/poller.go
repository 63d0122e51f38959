package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	domainEvent "github.com/dzmb1k/niaspo-kurs/internal/domain/event"
	"github.com/dzmb1k/niaspo-kurs/internal/infrastructure/kafka"
	"github.com/dzmb1k/niaspo-kurs/internal/infrastructure/postgres"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "citypass_worker_outbox_events_published_total",
		Help: "The total number of events published to Kafka",
	})
	publishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "citypass_worker_outbox_publish_errors_total",
		Help: "The total number of failed publish attempts",
	})
)

// OutboxPoller drains the outbox table into Kafka. Failed events are
// returned to 'new' and picked up again on a later tick.
type OutboxPoller struct {
	outboxRepo *postgres.OutboxRepository
	kafkaProd  *kafka.Producer
	interval   time.Duration
	batchSize  int
}

func NewOutboxPoller(outboxRepo *postgres.OutboxRepository, kafkaProd *kafka.Producer) *OutboxPoller {
	return &OutboxPoller{
		outboxRepo: outboxRepo,
		kafkaProd:  kafkaProd,
		interval:   2 * time.Second,
		batchSize:  10,
	}
}

func (p *OutboxPoller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	slog.Info("outbox poller started", "topic", p.kafkaProd.Topic())

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				slog.Error("failed to process batch", "error", err)
			}
		}
	}
}

func (p *OutboxPoller) processBatch(ctx context.Context) error {
	events, err := p.outboxRepo.FetchBatch(ctx, p.batchSize)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	var processedIDs []string
	var failedIDs []string

	for _, e := range events {
		key := []byte(e.CorrelationID)
		if len(key) == 0 {
			key = []byte(e.ID)
		}

		msg := domainEvent.Message{
			ID:            e.ID,
			Type:          e.EventType,
			CorrelationID: e.CorrelationID,
			Producer:      e.Producer,
			OccurredAt:    time.Now().UTC(),
			Payload:       e.Payload,
		}

		value, err := json.Marshal(msg)
		if err != nil {
			slog.Error("failed to marshal event", "event_id", e.ID, "error", err)
			publishErrors.Inc()
			failedIDs = append(failedIDs, e.ID)
			continue
		}

		sendCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = p.kafkaProd.SendMessage(sendCtx, key, value)
		cancel()

		if err != nil {
			slog.Error("failed to send event", "event_id", e.ID, "error", err)
			publishErrors.Inc()
			failedIDs = append(failedIDs, e.ID)
			continue
		}

		eventsPublished.Inc()
		processedIDs = append(processedIDs, e.ID)
	}

	if len(processedIDs) > 0 {
		if err := p.outboxRepo.MarkProcessed(ctx, processedIDs); err != nil {
			return err
		}
		slog.Info("published outbox events", "count", len(processedIDs))
	}

	if len(failedIDs) > 0 {
		if err := p.outboxRepo.MarkFailed(ctx, failedIDs); err != nil {
			slog.Error("failed to mark events as failed", "error", err)
		}
	}

	return nil
}
