package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/order-service/internal/core/domain"
	"github.com/99minutos/order-service/internal/core/ports"
)

var discardLogger = zerolog.Nop()

func registerInput(name, email, password string) ports.RegisterInput {
	return ports.RegisterInput{Name: name, Email: email, Password: password}
}

// recordingQueue captures enqueued events instead of relaying them.
type recordingQueue struct {
	mu     sync.Mutex
	events []domain.OrderEvent
	err    error
}

func (q *recordingQueue) Enqueue(_ context.Context, e domain.OrderEvent) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.events = append(q.events, e)
	return nil
}

func (q *recordingQueue) snapshot() []domain.OrderEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]domain.OrderEvent(nil), q.events...)
}
