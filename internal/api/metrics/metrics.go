// Package metrics defines and registers all custom Prometheus metrics for the
// carbon management API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; the /metrics route exposes them together with the HTTP metrics
// collected by echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "carbon"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login outcomes.
// Labels:
//   - action:  "register" or "login"
//   - outcome: "success", "invalid", "conflict", "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register and login attempts, by outcome.",
	},
	[]string{"action", "outcome"},
)

// TokenRejectionsTotal counts requests stopped at the token gate.
// Label:
//   - reason: "missing", "malformed", "expired", "invalid_signature"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of requests rejected by the token gate.",
	},
	[]string{"reason"},
)

// AccessDeniedTotal counts requests stopped at the role gate.
// Labels:
//   - role:  caller role
//   - route: matched route path
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of authenticated requests denied by the role gate.",
	},
	[]string{"role", "route"},
)

// RateLimitedTotal counts requests rejected by the auth rate limiter.
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
	[]string{"route"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events by kind and result.
// Labels:
//   - kind:   audit kind (e.g. "login_failed")
//   - result: "written", "dropped", "failed"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events, labelled by kind and result.",
	},
	[]string{"kind", "result"},
)

// AuditQueueDepth tracks pending audit events in each dispatcher worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Domain metrics ────────────────────────────────────────────────────────────

// CarbonRecordsCreatedTotal counts newly created carbon records.
var CarbonRecordsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "carbon_records_created_total",
		Help:      "Total number of carbon records created.",
	},
)

// MaintenanceRecordsCreatedTotal counts maintenance records by type.
var MaintenanceRecordsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "maintenance_records_created_total",
		Help:      "Total number of maintenance records created, by type.",
	},
	[]string{"type"},
)
