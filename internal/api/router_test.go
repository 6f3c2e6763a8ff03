package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenops/carbon-management/internal/core/domain"
	"github.com/greenops/carbon-management/internal/core/ports"
	"github.com/greenops/carbon-management/internal/core/service"
	"github.com/greenops/carbon-management/internal/infrastructure/config"
	"github.com/greenops/carbon-management/internal/infrastructure/security"
)

// --- in-memory collaborators ---

type memoryIdentities struct {
	mu      sync.Mutex
	rows    []domain.Identity
	creates int
}

func (m *memoryIdentities) FindByEmail(_ context.Context, email string) (*domain.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Email == email {
			out := r
			return &out, nil
		}
	}
	return nil, domain.ErrIdentityNotFound
}

func (m *memoryIdentities) FindByID(_ context.Context, id int64) (*domain.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == id {
			out := r
			return &out, nil
		}
	}
	return nil, domain.ErrIdentityNotFound
}

func (m *memoryIdentities) Create(_ context.Context, id *domain.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	id.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, *id)
	return nil
}

func (m *memoryIdentities) List(context.Context) ([]domain.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Identity(nil), m.rows...), nil
}

// countingCarbon records every persistence call.
type countingCarbon struct {
	mu    sync.Mutex
	calls int
	rows  []domain.CarbonRecord
}

func (c *countingCarbon) touch() {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
}

func (c *countingCarbon) Create(_ context.Context, rec *domain.CarbonRecord) error {
	c.touch()
	c.mu.Lock()
	defer c.mu.Unlock()
	rec.ID = int64(len(c.rows) + 1)
	c.rows = append(c.rows, *rec)
	return nil
}

func (c *countingCarbon) FindByID(context.Context, int64) (*domain.CarbonRecord, error) {
	c.touch()
	return nil, domain.ErrCarbonNotFound
}

func (c *countingCarbon) List(context.Context, ports.CarbonFilter) ([]domain.CarbonRecord, int64, error) {
	c.touch()
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.CarbonRecord(nil), c.rows...), int64(len(c.rows)), nil
}

func (c *countingCarbon) UpdateOwned(context.Context, int64, int64, ports.CarbonPatch) (*domain.CarbonRecord, error) {
	c.touch()
	return nil, domain.ErrCarbonNotFound
}

func (c *countingCarbon) DeleteOwned(context.Context, int64, int64) error {
	c.touch()
	return domain.ErrCarbonNotFound
}

func (c *countingCarbon) Stats(context.Context) (*domain.CarbonStats, error) {
	c.touch()
	return &domain.CarbonStats{}, nil
}

func (c *countingCarbon) persistenceCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type noDevices struct{}

func (noDevices) List(context.Context) ([]domain.Device, error) { return nil, nil }
func (noDevices) Get(context.Context, int64) (*domain.Device, error) {
	return nil, domain.ErrDeviceNotFound
}
func (noDevices) MaintenanceHistory(context.Context, int64) ([]domain.MaintenanceRecord, error) {
	return nil, nil
}
func (noDevices) CreateMaintenance(context.Context, int64, ports.MaintenanceInput) (*domain.MaintenanceRecord, error) {
	return nil, domain.ErrDeviceNotFound
}
func (noDevices) UpdateStatus(context.Context, int64, ports.DeviceStatusInput) (*domain.Device, error) {
	return nil, domain.ErrDeviceNotFound
}
func (noDevices) MaintenanceStats(context.Context) (*domain.MaintenanceStats, error) {
	return &domain.MaintenanceStats{}, nil
}

type testServer struct {
	e          *echo.Echo
	tokens     *service.TokenService
	identities *memoryIdentities
	carbon     *countingCarbon
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithRoles(t, domain.UserTier)
}

func newTestServerWithRoles(t *testing.T, registrationRoles domain.RoleSet) *testServer {
	t.Helper()
	tokens, err := service.NewTokenService(service.TokenConfig{Secret: []byte("router-test-secret"), TTL: time.Hour})
	require.NoError(t, err)

	identities := &memoryIdentities{}
	carbon := &countingCarbon{}
	log := zerolog.Nop()
	authSvc := service.NewAuthService(identities, security.NewBcryptHasher(4), tokens, nil, log)

	e := NewRouter(Deps{
		Log:               log,
		Tokens:            tokens,
		Auth:              authSvc,
		Carbon:            service.NewCarbonService(carbon, log),
		Devices:           noDevices{},
		RegistrationRoles: registrationRoles,
		Registry:          prometheus.NewRegistry(),
	})
	return &testServer{e: e, tokens: tokens, identities: identities, carbon: carbon}
}

func (s *testServer) token(t *testing.T, id int64, role domain.Role) string {
	t.Helper()
	tok, err := s.tokens.Issue(domain.TokenPayload{SubjectID: id, Email: "x@example.com", DisplayName: "X", Role: role}, time.Hour)
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func issueFields(t *testing.T, env map[string]any) []string {
	t.Helper()
	issues, ok := env["data"].([]any)
	require.True(t, ok, "expected field issues, got %v", env["data"])
	var fields []string
	for _, is := range issues {
		fields = append(fields, is.(map[string]any)["field"].(string))
	}
	return fields
}

func TestRouter_ReviewerRouteWithUserToken(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/admin/all-carbon-data", s.token(t, 1, domain.RoleUser), "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, false, env["success"])
	assert.Zero(t, s.carbon.persistenceCalls(), "no persistence on a denied request")

	rec, _ = s.do(t, http.MethodGet, "/api/admin/all-carbon-data", s.token(t, 1, domain.RoleReviewer), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_AdminOnlyRoute(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/api/admin/users", s.token(t, 1, domain.RoleReviewer), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/admin/users", s.token(t, 1, domain.RoleAdmin), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_MissingHeaderBeforeValidation(t *testing.T) {
	s := newTestServer(t)

	// The body is invalid too; the token gate must answer first.
	rec, env := s.do(t, http.MethodPost, "/api/carbon", "", `{"fuelName":"","consumption":-1}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access token required", env["message"])
	assert.Nil(t, env["data"], "no field issues when the token gate rejects")
	assert.Zero(t, s.carbon.persistenceCalls())
}

func TestRouter_TamperedToken(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, 1, domain.RoleUser)

	rec, env := s.do(t, http.MethodGet, "/api/carbon/my-data", tok+"x", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", env["message"])
}

func TestRouter_DuplicateRegistration(t *testing.T) {
	s := newTestServer(t)
	body := `{"name":"Ana","email":"ana@example.com","password":"secret1"}`

	rec, env := s.do(t, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, env)
	data := env["data"].(map[string]any)
	assert.NotEmpty(t, data["token"])
	user := data["user"].(map[string]any)
	assert.Equal(t, "ana@example.com", user["mail"])
	assert.Equal(t, "user", user["role"])
	assert.NotContains(t, user, "password")

	rec, env = s.do(t, http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User with this email already exists", env["message"])
	assert.Equal(t, 1, s.identities.creates, "duplicate must not be inserted")
}

func TestRouter_LoginAndProfile(t *testing.T) {
	s := newTestServer(t)
	rec, _ := s.do(t, http.MethodPost, "/api/auth/register", "", `{"name":"Ana","email":"ana@example.com","password":"secret1","role":"reviewer"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := s.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"ana@example.com","password":"wrong-pw"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", env["message"])

	rec, env = s.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"ana@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	token := env["data"].(map[string]any)["token"].(string)

	rec, env = s.do(t, http.MethodGet, "/api/auth/profile", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	profile := env["data"].(map[string]any)
	assert.Equal(t, "reviewer", profile["role"])
	assert.Contains(t, profile, "createTime")
}

func TestRouter_CarbonValidation(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, 3, domain.RoleUser)

	rec, env := s.do(t, http.MethodPost, "/api/carbon", tok, `{"fuelName":"","consumption":5,"coefficient":2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"fuelName"}, issueFields(t, env))

	rec, env = s.do(t, http.MethodPost, "/api/carbon", tok, `{"fuelName":"diesel","consumption":-1,"coefficient":2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"consumption"}, issueFields(t, env))

	rec, env = s.do(t, http.MethodPost, "/api/carbon", tok, `{"fuelName":"diesel","consumption":"lots","coefficient":2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"consumption"}, issueFields(t, env))
	assert.Zero(t, s.carbon.persistenceCalls(), "invalid payloads never reach storage")

	rec, env = s.do(t, http.MethodPost, "/api/carbon", tok, `{"fuelName":"diesel","consumption":5,"coefficient":2}`)
	require.Equal(t, http.StatusCreated, rec.Code, env)
	rec0 := env["data"].(map[string]any)
	assert.Equal(t, "diesel", rec0["fuelName"])
	assert.Equal(t, float64(5), rec0["consumption"])
	assert.Equal(t, float64(3), rec0["userId"])
}

func TestRouter_RoleNotOpenForRegistration(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/auth/register", "", `{"name":"Ana","email":"ana@example.com","password":"secret1","role":"root"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"role"}, issueFields(t, env))
	assert.Zero(t, s.identities.creates)
}

func TestRouter_DefaultConfigRejectsSelfAssignedAdmin(t *testing.T) {
	cfg, err := config.LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "router-test-secret",
	}))
	require.NoError(t, err)
	s := newTestServerWithRoles(t, cfg.Roles())

	for _, role := range []string{"admin", "reviewer"} {
		rec, env := s.do(t, http.MethodPost, "/api/auth/register", "",
			`{"name":"Eve","email":"eve@example.com","password":"secret1","role":"`+role+`"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, role)
		assert.Equal(t, []string{"role"}, issueFields(t, env))
	}
	assert.Zero(t, s.identities.creates)

	rec, env := s.do(t, http.MethodPost, "/api/auth/register", "", `{"name":"Eve","email":"eve@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, env)
	token := env["data"].(map[string]any)["token"].(string)

	rec, _ = s.do(t, http.MethodGet, "/api/admin/users", token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_HealthAndUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(t, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", body["status"])

	rec, env := s.do(t, http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, env["success"])
}
