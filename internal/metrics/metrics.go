package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	AuthFlowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_auth_flows_total",
			Help: "Total number of authentication flows by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	AuthFlowErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_auth_flow_errors_total",
			Help: "Total number of failed authentication flows by error kind",
		},
		[]string{"provider", "kind"},
	)

	AuthExchangeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    Namespace + "_auth_exchange_duration_seconds",
			Help:    "Time for the backend to exchange a proof for a token",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20},
		},
		[]string{"provider"},
	)

	AuthFlowsLoading = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: Namespace + "_auth_flows_loading",
			Help: "Current number of flows showing the loading state",
		},
		[]string{"provider"},
	)

	LedgerClaims = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_ledger_claims_total",
			Help: "Total number of authorization code claims",
		},
		[]string{"ledger", "result"},
	)

	LedgerClaimDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    Namespace + "_ledger_claim_duration_seconds",
			Help:    "Time to claim an authorization code",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"ledger"},
	)

	LedgerItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: Namespace + "_ledger_items_total",
			Help: "Current number of claimed codes held in the ledger",
		},
		[]string{"ledger"},
	)

	SessionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: Namespace + "_sessions_expired_total",
			Help: "Total number of sessions cleared after the backend rejected the token",
		})
)
