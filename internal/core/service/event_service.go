package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/order-service/internal/core/domain"
	"github.com/99minutos/order-service/internal/core/ports"
)

type eventRelay struct {
	publisher ports.EventPublisher
	audit     ports.EventRepository
	log       zerolog.Logger
}

// NewEventRelay returns an EventRelay that publishes to the broker and
// appends to the audit trail. Either collaborator may be nil.
func NewEventRelay(publisher ports.EventPublisher, audit ports.EventRepository, log zerolog.Logger) ports.EventRelay {
	return &eventRelay{publisher: publisher, audit: audit, log: log}
}

// Relay delivers a single committed order event.
func (r *eventRelay) Relay(ctx context.Context, event domain.OrderEvent) error {
	// 1. Audit trail first (non-fatal on failure).
	if r.audit != nil {
		if err := r.audit.InsertEvent(ctx, event); err != nil {
			r.log.Warn().Err(err).Int64("order_id", event.OrderID).Msg("failed to insert audit event")
		}
	}

	// 2. Publish to the broker.
	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, event); err != nil {
			return fmt.Errorf("relay %s: %w", event.Type, err)
		}
	}

	r.log.Debug().
		Str("event_id", event.ID).
		Str("type", string(event.Type)).
		Int64("order_id", event.OrderID).
		Msg("event relayed")

	return nil
}
