package ports

import (
	"context"

	"github.com/99minutos/order-service/internal/core/domain"
)

// EventQueue accepts order events for asynchronous relay.
type EventQueue interface {
	Enqueue(ctx context.Context, event domain.OrderEvent) error
}

// EventPublisher delivers events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.OrderEvent) error
}

// EventRepository appends events to the audit trail.
type EventRepository interface {
	InsertEvent(ctx context.Context, event domain.OrderEvent) error
}

// EventRelay handles one dequeued event.
type EventRelay interface {
	Relay(ctx context.Context, event domain.OrderEvent) error
}
