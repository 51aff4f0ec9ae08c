package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dchgoh/SWE30003-ART-System/internal/clock"
	domainEvent "github.com/dchgoh/SWE30003-ART-System/internal/domain/event"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/outbox"
	"github.com/dchgoh/SWE30003-ART-System/internal/infrastructure/kafka"
)

var (
	eventsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "worker_outbox_events_published_total",
		Help: "The total number of outbox events published to Kafka",
	})
	publishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "worker_outbox_publish_errors_total",
		Help: "The total number of failed publish attempts",
	})
)

// OutboxSource is the slice of the outbox repository the poller needs.
type OutboxSource interface {
	FetchBatch(ctx context.Context, limit int) ([]outbox.Event, error)
	MarkPublished(ctx context.Context, ids []string, at time.Time) error
}

// OutboxPoller drains new outbox events to Kafka. Events that fail to
// publish stay in status new and are retried on the next tick, so publishes
// are at-least-once and consumers must dedupe on the event ID.
type OutboxPoller struct {
	source    OutboxSource
	kafkaProd *kafka.Producer
	clock     clock.Clock
	interval  time.Duration
	batchSize int
	log       *slog.Logger
}

func NewOutboxPoller(source OutboxSource, kafkaProd *kafka.Producer, clk clock.Clock, log *slog.Logger) *OutboxPoller {
	return &OutboxPoller{
		source:    source,
		kafkaProd: kafkaProd,
		clock:     clk,
		interval:  2 * time.Second,
		batchSize: 10,
		log:       log,
	}
}

func (p *OutboxPoller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.log.Info("outbox poller started", "topic", p.kafkaProd.Topic(), "interval", p.interval.String())

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				p.log.Error("failed to process outbox batch", "error", err)
			}
		}
	}
}

func (p *OutboxPoller) processBatch(ctx context.Context) error {
	events, err := p.source.FetchBatch(ctx, p.batchSize)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	var publishedIDs []string
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
			OccurredAt:    p.clock.Now(),
			Payload:       e.Payload,
		}
		value, err := json.Marshal(msg)
		if err != nil {
			p.log.Error("failed to marshal outbox event", "event_id", e.ID, "error", err)
			publishErrors.Inc()
			continue
		}

		sendCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = p.kafkaProd.Publish(sendCtx, key, value)
		cancel()
		if err != nil {
			p.log.Error("failed to publish outbox event", "event_id", e.ID, "error", err)
			publishErrors.Inc()
			continue
		}

		eventsPublished.Inc()
		publishedIDs = append(publishedIDs, e.ID)
	}

	if len(publishedIDs) > 0 {
		if err := p.source.MarkPublished(ctx, publishedIDs, p.clock.Now()); err != nil {
			return err
		}
		p.log.Info("published outbox events", "count", len(publishedIDs))
	}
	return nil
}
