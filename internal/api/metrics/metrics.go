// Package metrics defines the domain Prometheus metrics of the DogCollars API.
// HTTP request metrics come from the echoprometheus middleware; this package
// only holds counters for business events.
//
// All metrics are registered with the default Prometheus registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dogcollars"

// ── Dogs ──────────────────────────────────────────────────────────────────────

// DogsCreatedTotal counts newly registered dogs.
var DogsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dogs_created_total",
		Help:      "Total number of dogs created.",
	},
)

// DogsDeactivatedTotal counts soft-deleted dogs.
var DogsDeactivatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dogs_deactivated_total",
		Help:      "Total number of dogs deactivated.",
	},
)

// ── Tasks ─────────────────────────────────────────────────────────────────────

// TasksCreatedTotal counts newly opened tasks.
var TasksCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created.",
	},
)

// TaskCloseAttemptsTotal counts close attempts.
// Label:
//   - result: "closed", "out_of_range", "location_unknown", "not_found" or "error"
var TaskCloseAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_close_attempts_total",
		Help:      "Total number of task close attempts, by result.",
	},
	[]string{"result"},
)

// TasksCancelledTotal counts cancelled tasks.
// Label:
//   - reason: "cancel" for an explicit cancel, "dog_deleted" for the cascade
var TasksCancelledTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_cancelled_total",
		Help:      "Total number of tasks cancelled, by reason.",
	},
	[]string{"reason"},
)

// ── Requests ──────────────────────────────────────────────────────────────────

// ConflictsTotal counts uniqueness conflicts.
// Label:
//   - entity: "user" or "dog"
var ConflictsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "conflicts_total",
		Help:      "Total number of requests rejected for a uniqueness conflict.",
	},
	[]string{"entity"},
)

// LoginAttemptsTotal counts token requests.
// Label:
//   - result: "success", "invalid_credentials" or "rate_limited"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
