// Package metrics defines all custom Prometheus metrics for the MuseMind API.
// It is the single source of truth for metric names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "musemind"

// GenerationsTotal counts generation attempts.
// Labels:
//   - kind: "track" or "lyrics"
//   - outcome: "success", "invalid_request", "insufficient_credits",
//     "upstream_error", "storage_error", "refused"
var GenerationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generations_total",
		Help:      "Total number of generation requests, by kind and outcome.",
	},
	[]string{"kind", "outcome"},
)

// GenerationDuration measures the end-to-end latency of a generation request,
// including the upstream model call and the durable asset store.
var GenerationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "generation_duration_seconds",
		Help:      "Duration of generation requests from arrival to response.",
		Buckets:   []float64{.5, 1, 2.5, 5, 10, 20, 40, 80, 120},
	},
	[]string{"kind"},
)

// CreditsSpentTotal counts credits successfully charged.
var CreditsSpentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credits_spent_total",
		Help:      "Total number of credits charged.",
	},
)

// CreditsPurchasedTotal counts credits added through purchases.
var CreditsPurchasedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credits_purchased_total",
		Help:      "Total number of credits added through purchases.",
	},
)

// InsufficientCreditsTotal counts paid operations rejected on the balance
// precondition.
var InsufficientCreditsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "insufficient_credits_total",
		Help:      "Total number of paid operations rejected for lack of credits.",
	},
)
