package middleware

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/greenops/carbon-management/internal/api/metrics"
	"github.com/greenops/carbon-management/internal/core/domain"
	"github.com/greenops/carbon-management/internal/core/ports"
)

// WindowCounter counts hits per subject in a fixed window.
type WindowCounter interface {
	Hit(ctx context.Context, scope, subject string, window time.Duration) (count int64, ttl time.Duration, err error)
}

// RateLimitConfig bounds requests per client IP.
type RateLimitConfig struct {
	Scope  string
	Max    int64
	Window time.Duration
}

// RateLimit rejects callers that exceed cfg.Max requests per window.
// Counter failures let the request through.
func RateLimit(counter WindowCounter, cfg RateLimitConfig, audit ports.AuditRecorder, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			count, ttl, err := counter.Hit(c.Request().Context(), cfg.Scope, ip, cfg.Window)
			if err != nil {
				log.Warn().Err(err).Str("scope", cfg.Scope).Msg("rate limiter unavailable")
				return next(c)
			}

			remaining := cfg.Max - count
			if remaining < 0 {
				remaining = 0
			}
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.FormatInt(cfg.Max, 10))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > cfg.Max {
				secs := int(math.Ceil(ttl.Seconds()))
				if secs < 1 {
					secs = 1
				}
				h.Set("Retry-After", strconv.Itoa(secs))
				metrics.RateLimitedTotal.WithLabelValues(cfg.Scope).Inc()
				audit.Record(domain.AuditEvent{
					Kind:     domain.AuditRateLimited,
					RemoteIP: ip,
					Path:     c.Path(),
				})
				return domain.ErrRateLimited
			}
			return next(c)
		}
	}
}
