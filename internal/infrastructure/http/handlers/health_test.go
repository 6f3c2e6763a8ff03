package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveness(t *testing.T) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/api/health", nil), rec)

	require.NoError(t, NewHealthHandler().Liveness(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body livenessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OK", body.Status)
	assert.NotEmpty(t, body.Timestamp)
}

func TestReadiness(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("dial tcp: refused") })

	cases := []struct {
		name string
		deps map[string]Pinger
		want int
	}{
		{"all up", map[string]Pinger{"postgres": ok, "mongodb": ok, "redis": ok}, http.StatusOK},
		{"redis down", map[string]Pinger{"postgres": ok, "mongodb": ok, "redis": down}, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/api/health/ready", nil), rec)

			require.NoError(t, NewHealthDependenciesHandler(tc.deps, false).Readiness(c))
			assert.Equal(t, tc.want, rec.Code)

			var body readinessResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Len(t, body.Dependencies, len(tc.deps))
		})
	}
}

func TestReadiness_ErrorDetailByEnvironment(t *testing.T) {
	deps := map[string]Pinger{
		"postgres": PingFunc(func(context.Context) error { return errors.New("dial tcp 10.0.0.5:5432: connect: refused") }),
	}

	for _, production := range []bool{false, true} {
		rec := httptest.NewRecorder()
		c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/api/health/ready", nil), rec)

		require.NoError(t, NewHealthDependenciesHandler(deps, production).Readiness(c))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body readinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "unhealthy", body.Dependencies["postgres"].Status)
		if production {
			assert.Empty(t, body.Dependencies["postgres"].Error)
			assert.NotContains(t, rec.Body.String(), "10.0.0.5")
		} else {
			assert.Contains(t, body.Dependencies["postgres"].Error, "connect: refused")
		}
	}
}
