// Package metrics defines and registers all custom Prometheus metrics for the
// order service. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// init through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "orders"

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersCreatedTotal counts orders committed to the store.
var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of orders created.",
	},
)

// OrdersRejectedTotal counts order creations refused before any write.
// Label:
//   - reason: "empty_order", "unknown_product" or "validation"
var OrdersRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rejected_total",
		Help:      "Total number of order creations rejected by validation.",
	},
	[]string{"reason"},
)

// OrderStatusTransitionsTotal counts applied status changes by target status.
var OrderStatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of order status transitions, by target status.",
	},
	[]string{"to"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register/login attempts.
// Labels:
//   - operation: "register" or "login"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts.",
	},
	[]string{"operation", "result"},
)

// ── Event relay metrics ───────────────────────────────────────────────────────

// EventsRelayedTotal counts order events relayed without error.
var EventsRelayedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_relayed_total",
		Help:      "Total number of order events relayed successfully.",
	},
	[]string{"type"},
)

// EventsErrorsTotal counts order events that failed to relay or enqueue.
// Label:
//   - reason: "enqueue", "publish"
var EventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_errors_total",
		Help:      "Total number of order events that could not be relayed.",
	},
	[]string{"reason"},
)

// EventsQueueDepth tracks the number of events waiting in each worker channel.
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EventRelayDuration measures how long a single event takes to relay.
var EventRelayDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_relay_duration_seconds",
		Help:      "Duration of event relay from dequeue to broker acknowledgement.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"type"},
)
