package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/greenops/carbon-management/internal/api/middleware"
	"github.com/greenops/carbon-management/internal/core/domain"
)

// callerIdentity returns the payload attached by the token gate. Its absence
// means the route was mounted without the gate, which is treated as an
// unauthenticated call.
func callerIdentity(c echo.Context) (*domain.TokenPayload, error) {
	p, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return p, nil
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(name, name+" must be a positive integer")
	}
	return id, nil
}
