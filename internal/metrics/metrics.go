// Package metrics declares the portal's Prometheus metrics. Everything is
// registered on the default registry through promauto when the package is
// loaded, and served by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionTransitionsTotal counts session store mutations.
// Labels:
//   - event: "restore", "login", "logout", "expire" or "update"
//   - state: the state the session settled in ("authenticated", "anonymous")
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "transitions_total",
		Help:      "Session store mutations by event and resulting state.",
	},
	[]string{"event", "state"},
)

// ── Gateway metrics ───────────────────────────────────────────────────────────

// GatewayRequestsTotal counts backend calls made through the request gateway.
// Labels:
//   - method: HTTP method
//   - code: response status code, or "error" when the transport failed
var GatewayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "requests_total",
		Help:      "Backend requests sent through the authenticated gateway.",
	},
	[]string{"method", "code"},
)

// GatewayExpiredSessionsTotal counts 401 responses that forced a logout.
var GatewayExpiredSessionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "expired_sessions_total",
		Help:      "Sessions torn down because the backend answered 401.",
	},
)

// GatewayRequestDuration measures backend round trips.
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "request_duration_seconds",
		Help:      "Duration of backend round trips made by the gateway.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// FallbackAttemptsTotal counts candidate lookups tried by FirstSuccess.
// Label:
//   - outcome: "hit" or "miss"
var FallbackAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "fallback_attempts_total",
		Help:      "Candidate operations tried while resolving a related resource.",
	},
	[]string{"outcome"},
)
