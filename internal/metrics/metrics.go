package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts storefront requests by route pattern and status
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "http_requests_total",
			Help:      "The total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration time spent serving requests (summary with quantiles 0.5, 0.9, and 0.99)
	HTTPDuration = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace:  "storefront",
			Name:       "http_request_duration_seconds",
			Help:       "Time spent serving HTTP requests",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"method", "route"},
	)

	// CheckoutOutcomes counts checkout submissions by how they ended
	CheckoutOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "checkout_outcomes_total",
			Help:      "Checkout submissions by outcome",
		},
		[]string{"outcome"},
	)

	// CartMutations counts cart changes by operation
	CartMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "cart_mutations_total",
			Help:      "Cart changes by operation",
		},
		[]string{"op"},
	)
)

// Checkout outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeInvalid  = "invalid"
	OutcomeEmpty    = "empty_cart"
	OutcomeInFlight = "in_flight"
)
