package ports

import (
	"context"

	"github.com/greenops/carbon-management/internal/core/domain"
)

// AuditRepository appends events to the audit trail.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuditEvent) error
}

// AuditRecorder accepts audit events without blocking the caller.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// NopAuditRecorder discards every event.
type NopAuditRecorder struct{}

func (NopAuditRecorder) Record(domain.AuditEvent) {}
