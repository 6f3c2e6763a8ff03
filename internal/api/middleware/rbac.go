package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/greenops/carbon-management/internal/api/metrics"
	"github.com/greenops/carbon-management/internal/core/domain"
	"github.com/greenops/carbon-management/internal/core/ports"
)

// RBAC is the role gate. It must run after Auth and lets the request through
// only when the caller's role is a member of allowed.
func RBAC(allowed domain.RoleSet, audit ports.AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrUnauthenticated
			}
			if err := domain.Authorize(caller.Role, allowed); err != nil {
				metrics.AccessDeniedTotal.WithLabelValues(string(caller.Role), c.Path()).Inc()
				audit.Record(domain.AuditEvent{
					Kind:      domain.AuditAccessDenied,
					SubjectID: caller.SubjectID,
					Email:     caller.Email,
					Role:      caller.Role,
					RemoteIP:  c.RealIP(),
					Path:      c.Path(),
				})
				return err
			}
			return next(c)
		}
	}
}
