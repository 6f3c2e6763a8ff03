package domain

import "time"

// AuditKind names a security-relevant outcome.
type AuditKind string

const (
	AuditRegister      AuditKind = "register"
	AuditLogin         AuditKind = "login"
	AuditLoginFailed   AuditKind = "login_failed"
	AuditTokenRejected AuditKind = "token_rejected"
	AuditAccessDenied  AuditKind = "access_denied"
	AuditRateLimited   AuditKind = "rate_limited"
)

// AuditEvent is one entry of the authentication audit trail.
type AuditEvent struct {
	ID         string
	Kind       AuditKind
	SubjectID  int64  // zero when the caller is not identified
	Email      string // optional
	Role       Role   // optional
	RemoteIP   string
	Path       string
	Detail     string
	OccurredAt time.Time
}

// ShardKey groups events of one caller so they stay ordered.
func (e AuditEvent) ShardKey() string {
	switch {
	case e.Email != "":
		return e.Email
	case e.RemoteIP != "":
		return e.RemoteIP
	}
	return string(e.Kind)
}
