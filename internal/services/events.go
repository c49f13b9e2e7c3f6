package services

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Routing keys of the events emitted after successful writes.
const (
	EventStoreApplied   = "store.applied"
	EventProductCreated = "product.created"
)

// EventPublisher sends domain events to a message broker.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// publishEvent is best effort: a broker outage must not fail a request whose
// records are already committed.
func publishEvent(ctx context.Context, logger *slog.Logger, publisher EventPublisher, routingKey string, payload any) {
	if publisher == nil {
		logger.DebugContext(ctx, "event publisher not configured, skipping", slog.String("event", routingKey))
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorContext(ctx, "failed to marshal event", slog.String("event", routingKey), slog.Any("error", err))
		return
	}
	if err := publisher.Publish(routingKey, body); err != nil {
		logger.WarnContext(ctx, "failed to publish event", slog.String("event", routingKey), slog.Any("error", err))
	}
}
