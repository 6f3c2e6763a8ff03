package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenops/carbon-management/internal/api/metrics"
	"github.com/greenops/carbon-management/internal/api/response"
	"github.com/greenops/carbon-management/internal/core/domain"
	"github.com/greenops/carbon-management/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	roles       domain.RoleSet
}

// NewAuthHandler builds the auth handler. registrationRoles is the set of
// roles a caller may request for themselves at registration.
func NewAuthHandler(authService ports.AuthService, registrationRoles domain.RoleSet) *AuthHandler {
	return &AuthHandler{authService: authService, roles: registrationRoles}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  response.Envelope{data=authResponse}
// @Failure      400   {object}  response.Envelope
// @Failure      429   {object}  response.Envelope
// @Failure      500   {object}  response.Envelope
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	role := domain.RoleUser
	if req.Role != "" {
		role = domain.Role(req.Role)
	}
	if !h.roles.Contains(role) {
		return domain.NewValidationError("role", "role is not open for registration")
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", authOutcome(err)).Inc()
		return err
	}
	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()

	return response.Success(c, http.StatusCreated, "User registered successfully", authResponse{
		User:  toUserResponse(res.Identity),
		Token: res.Token,
	})
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  response.Envelope{data=authResponse}
// @Failure      400   {object}  response.Envelope
// @Failure      401   {object}  response.Envelope
// @Failure      429   {object}  response.Envelope
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", authOutcome(err)).Inc()
		return err
	}
	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()

	return response.Success(c, http.StatusOK, "Login successful", authResponse{
		User:  toUserResponse(res.Identity),
		Token: res.Token,
	})
}

// Profile returns the caller's account.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=domain.Identity}
// @Failure      401  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	identity, err := h.authService.Profile(c.Request().Context(), caller.SubjectID)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Profile retrieved successfully", identity)
}

func authOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid"
	case errors.Is(err, domain.ErrIdentityExists):
		return "conflict"
	default:
		return "error"
	}
}
