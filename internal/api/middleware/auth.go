package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/greenops/carbon-management/internal/api/metrics"
	"github.com/greenops/carbon-management/internal/core/domain"
	"github.com/greenops/carbon-management/internal/core/ports"
)

// identityKey is the echo context key holding the verified *domain.TokenPayload.
const identityKey = "identity"

// IdentityFrom returns the payload attached by Auth, if any.
func IdentityFrom(c echo.Context) (*domain.TokenPayload, bool) {
	p, ok := c.Get(identityKey).(*domain.TokenPayload)
	return p, ok && p != nil
}

// SetIdentity attaches a verified payload to the request context.
func SetIdentity(c echo.Context, p *domain.TokenPayload) {
	c.Set(identityKey, p)
}

// Auth is the token gate. It verifies the bearer token and attaches the
// payload to the request context; every failure is Unauthenticated.
func Auth(verifier ports.TokenVerifier, audit ports.AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err == nil {
				var payload *domain.TokenPayload
				payload, err = verifier.Verify(token)
				if err == nil {
					SetIdentity(c, payload)
					return next(c)
				}
			}

			reason := rejectionReason(err)
			metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
			audit.Record(domain.AuditEvent{
				Kind:     domain.AuditTokenRejected,
				RemoteIP: c.RealIP(),
				Path:     c.Path(),
				Detail:   reason,
			})
			return err
		}
	}
}

// bearerToken extracts <token> from "Bearer <token>".
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", domain.ErrTokenMissing
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", domain.ErrTokenMalformed
	}
	if token == "" {
		return "", domain.ErrTokenMissing
	}
	return token, nil
}

func rejectionReason(err error) string {
	var ae *domain.AuthError
	if errors.As(err, &ae) {
		return ae.Reason
	}
	return "unknown"
}
