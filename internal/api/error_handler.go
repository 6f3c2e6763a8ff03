package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/greenops/carbon-management/internal/api/response"
	"github.com/greenops/carbon-management/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally.
//   - Renders the failure envelope; the diagnostic "error" field is only
//     filled outside production.
func NewHTTPErrorHandler(log zerolog.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg, data := resolveError(err, log, c)
		detail := ""
		if !production {
			detail = err.Error()
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = response.Failure(c, code, msg, data, detail)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, any) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, "Validation failed", ve.Issues
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrTokenMissing):
		return http.StatusUnauthorized, "Access token required", nil
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "Invalid or expired token", nil
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password", nil
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Insufficient permissions", nil
	case errors.Is(err, domain.ErrIdentityExists):
		return http.StatusBadRequest, "User with this email already exists", nil
	case errors.Is(err, domain.ErrIdentityNotFound):
		return http.StatusNotFound, "User not found", nil
	case errors.Is(err, domain.ErrCarbonNotFound):
		return http.StatusNotFound, "Carbon data not found", nil
	case errors.Is(err, domain.ErrDeviceNotFound):
		return http.StatusNotFound, "Device not found", nil
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "Too many requests, please try again later", nil
	}

	// Echo's own errors (unknown route, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), nil
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Internal server error", nil
}
