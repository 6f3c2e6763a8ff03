package middleware

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/greenops/carbon-management/internal/core/domain"
)

func TestRBAC_Allows(t *testing.T) {
	c, rec := newContext("")
	c.Set(identityKey, &domain.TokenPayload{SubjectID: 1, Role: domain.RoleReviewer})

	called := false
	handler := RBAC(domain.ReviewerTier, &recordingAudit{})(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_Forbids(t *testing.T) {
	c, _ := newContext("")
	c.Set(identityKey, &domain.TokenPayload{SubjectID: 2, Email: "u@example.com", Role: domain.RoleUser})
	audit := &recordingAudit{}

	err := RBAC(domain.ReviewerTier, audit)(func(echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})(c)

	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(audit.events) != 1 || audit.events[0].Kind != domain.AuditAccessDenied || audit.events[0].SubjectID != 2 {
		t.Fatalf("unexpected audit: %+v", audit.events)
	}
}

func TestRBAC_NoHierarchy(t *testing.T) {
	c, _ := newContext("")
	c.Set(identityKey, &domain.TokenPayload{Role: domain.RoleAdmin})

	err := RBAC(domain.NewRoleSet(domain.RoleReviewer), &recordingAudit{})(func(echo.Context) error {
		t.Fatalf("admin is not implied by reviewer")
		return nil
	})(c)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRBAC_WithoutTokenGate(t *testing.T) {
	c, _ := newContext("")
	err := RBAC(domain.UserTier, &recordingAudit{})(func(echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})(c)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
