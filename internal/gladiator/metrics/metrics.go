// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "gladiator"
	subsystem = "api"
)

var (
	// WebhookRequestsTotal counts Stripe webhook requests by event type and status.
	WebhookRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "webhook_requests_total",
		Help:      "Total Stripe webhook requests by event type and HTTP status.",
	}, []string{"event_type", "status"})

	// WebhookDuration tracks Stripe webhook processing latency.
	WebhookDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "webhook_duration_seconds",
		Help:      "Stripe webhook processing duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"event_type"})

	// TokensIssuedTotal counts issued single-use tokens by kind.
	TokensIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "tokens_issued_total",
		Help:      "Single-use tokens issued by kind (invitation, onboarding, password_reset).",
	}, []string{"kind"})

	// TokenVerdictsTotal counts verify and consume outcomes by kind and verdict.
	TokenVerdictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "token_verdicts_total",
		Help:      "Token verification outcomes by kind and verdict.",
	}, []string{"kind", "verdict"})

	// EmailsSentTotal counts transactional email attempts by template and outcome.
	EmailsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "emails_sent_total",
		Help:      "Transactional email attempts by template and outcome.",
	}, []string{"template", "outcome"})

	// BreachLookupsTotal counts provider lookups by outcome.
	BreachLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "breach_lookups_total",
		Help:      "Breach provider lookups by outcome (hit, clean, error).",
	}, []string{"outcome"})

	// BreachLookupDuration tracks breach provider latency.
	BreachLookupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "breach_lookup_duration_seconds",
		Help:      "Breach provider lookup duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	// HousekeepingRemovedTotal counts rows expired or deleted by housekeeping.
	HousekeepingRemovedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "housekeeping_removed_total",
		Help:      "Rows expired or removed by housekeeping, by kind.",
	}, []string{"kind"})
)
