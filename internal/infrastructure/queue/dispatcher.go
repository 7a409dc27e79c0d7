package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/order-service/internal/api/metrics"
	"github.com/99minutos/order-service/internal/core/domain"
	"github.com/99minutos/order-service/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// ErrDispatcherClosed is returned by Enqueue once Close has been called.
var ErrDispatcherClosed = errors.New("dispatcher closed")

// Dispatcher routes order events to a fixed set of workers using consistent
// hashing on the order id, guaranteeing per-order event ordering.
type Dispatcher struct {
	workers []chan domain.OrderEvent
	relay   ports.EventRelay
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, relay ports.EventRelay, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.OrderEvent, numWorkers),
		relay:   relay,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.OrderEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// or after Close has drained their channel.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its order. It blocks
// only while the worker channel is full, and gives up when ctx is done.
func (d *Dispatcher) Enqueue(ctx context.Context, event domain.OrderEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		metrics.EventsErrorsTotal.WithLabelValues("enqueue").Inc()
		return ErrDispatcherClosed
	}

	idx := d.shardIndex(event.OrderID)
	select {
	case d.workers[idx] <- event:
		metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	case <-ctx.Done():
		metrics.EventsErrorsTotal.WithLabelValues("enqueue").Inc()
		return ctx.Err()
	}
}

// Close stops accepting events and waits for the workers to drain what was
// already queued.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// shardIndex maps an order id deterministically to a worker index.
func (d *Dispatcher) shardIndex(orderID int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(orderID, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.OrderEvent) {
	defer d.wg.Done()
	workerID := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.EventsQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
			d.process(ctx, id, event)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, workerID int, event domain.OrderEvent) {
	start := time.Now()
	err := d.relay.Relay(ctx, event)
	metrics.EventRelayDuration.WithLabelValues(string(event.Type)).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.EventsErrorsTotal.WithLabelValues("publish").Inc()
		d.log.Error().Err(err).
			Str("event_id", event.ID).
			Int64("order_id", event.OrderID).
			Int("worker_id", workerID).
			Msg("event relay failed")
		return
	}
	metrics.EventsRelayedTotal.WithLabelValues(string(event.Type)).Inc()
}
