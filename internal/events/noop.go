package events

import (
	"context"
	"log/slog"
)

// NoopPublisher logs events without sending them to a broker. Useful for
// local dev before wiring RabbitMQ.
type NoopPublisher struct{}

// NewNoopPublisher returns a new no-op event publisher.
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (n *NoopPublisher) PublishOrderCreated(_ context.Context, orderID string) error {
	slog.Debug("event::order_created", "order_id", orderID)
	return nil
}

func (n *NoopPublisher) PublishOrderStatusChanged(_ context.Context, orderID string, status string) error {
	slog.Debug("event::order_status_changed", "order_id", orderID, "status", status)
	return nil
}
