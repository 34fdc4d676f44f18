// Package metrics defines and registers the custom Prometheus metrics of the
// event management API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry through promauto at
// package init; HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "events"

// ── Authentication ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "rate_limited" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRejectionsTotal counts bearer tokens refused by the auth middleware.
// Label:
//   - reason: "missing", "malformed_header", "invalid", "expired" or "unknown_identity"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_token_rejections_total",
		Help:      "Total number of requests rejected during token verification.",
	},
	[]string{"reason"},
)

// AuthorizationDenialsTotal counts requests rejected with 403.
// Label:
//   - route: the matched echo route path
var AuthorizationDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denials_total",
		Help:      "Total number of requests denied by the authorization policy.",
	},
	[]string{"route"},
)

// BootstrapAttemptsTotal counts first-admin bootstrap attempts.
// Label:
//   - result: "created", "invalid_token", "already_registered" or "error"
var BootstrapAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bootstrap_attempts_total",
		Help:      "Total number of first-admin bootstrap attempts, by result.",
	},
	[]string{"result"},
)

// ── Audit trail ──────────────────────────────────────────────────────────────

// AuditDroppedTotal counts audit records discarded because a worker queue was full.
var AuditDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit records dropped by the dispatcher.",
	},
	[]string{"action"},
)
