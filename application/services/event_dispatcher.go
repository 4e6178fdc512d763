package services

import (
	"context"

	"agentxrp-backend/application/ports"
	"agentxrp-backend/domain/events"

	"go.uber.org/zap"
)

// EventDispatcher publishes domain events after their transaction commits.
// Publishing is best effort: failures are logged and counted, never returned.
type EventDispatcher struct {
	publisher ports.EventPublisher
	metrics   ports.LedgerMetrics
	logger    *zap.Logger
}

// NewEventDispatcher creates a dispatcher. A nil publisher drops events.
func NewEventDispatcher(publisher ports.EventPublisher, metrics ports.LedgerMetrics, logger *zap.Logger) *EventDispatcher {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &EventDispatcher{
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Dispatch publishes the events in order
func (d *EventDispatcher) Dispatch(ctx context.Context, evts ...events.DomainEvent) {
	if d == nil || d.publisher == nil || len(evts) == 0 {
		return
	}

	if err := d.publisher.PublishBatch(ctx, evts); err != nil {
		for _, e := range evts {
			d.metrics.EventPublishFailed(e.GetEventType())
		}
		d.logger.Warn("Failed to publish domain events",
			zap.Int("count", len(evts)),
			zap.String("firstType", evts[0].GetEventType()),
			zap.Error(err),
		)
	}
}
