package domain

import (
	"errors"
	"testing"
)

func TestAuthorize_ExactSetMembership(t *testing.T) {
	all := []Role{RoleUser, RoleAdmin, RoleReviewer, Role("guest"), Role("")}
	sets := map[string]RoleSet{
		"user-tier":     UserTier,
		"reviewer-tier": ReviewerTier,
		"admin-tier":    AdminTier,
		"reviewer-only": NewRoleSet(RoleReviewer),
		"empty":         NewRoleSet(),
	}

	for name, set := range sets {
		for _, role := range all {
			err := Authorize(role, set)
			_, member := set[role]
			if member && err != nil {
				t.Fatalf("%s: %q should be allowed, got %v", name, role, err)
			}
			if !member && !errors.Is(err, ErrForbidden) {
				t.Fatalf("%s: %q should be denied, got %v", name, role, err)
			}
		}
	}
}

func TestAuthorize_Examples(t *testing.T) {
	if err := Authorize(RoleReviewer, NewRoleSet(RoleAdmin, RoleReviewer)); err != nil {
		t.Fatalf("reviewer should pass reviewer tier: %v", err)
	}
	if err := Authorize(RoleUser, NewRoleSet(RoleAdmin, RoleReviewer)); !errors.Is(err, ErrForbidden) {
		t.Fatalf("user should be denied reviewer tier, got %v", err)
	}
	// no hierarchy: admin is not implied by reviewer
	if err := Authorize(RoleAdmin, NewRoleSet(RoleReviewer)); !errors.Is(err, ErrForbidden) {
		t.Fatalf("admin must be listed explicitly, got %v", err)
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleAdmin, RoleReviewer} {
		if !r.Valid() {
			t.Fatalf("%q should be valid", r)
		}
	}
	if Role("root").Valid() {
		t.Fatalf("unknown role reported valid")
	}
}

func TestAuthError_MatchesUnauthenticated(t *testing.T) {
	for _, err := range []error{ErrTokenMissing, ErrTokenMalformed, ErrTokenExpired, ErrTokenInvalidSignature} {
		if !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("%v should match ErrUnauthenticated", err)
		}
	}
	if errors.Is(ErrTokenExpired, ErrTokenMalformed) {
		t.Fatalf("distinct reasons must not match each other")
	}
}

func TestValidationError(t *testing.T) {
	ve := &ValidationError{Issues: []FieldIssue{{Field: "fuelName", Message: "Fuel name is required"}}}
	if !ve.HasField("fuelName") || ve.HasField("consumption") {
		t.Fatalf("HasField mismatch")
	}
	if got := ve.Error(); got != "validation failed: fuelName: Fuel name is required" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestAuditEvent_ShardKey(t *testing.T) {
	if k := (AuditEvent{Email: "a@x.io", RemoteIP: "1.2.3.4"}).ShardKey(); k != "a@x.io" {
		t.Fatalf("email should win, got %q", k)
	}
	if k := (AuditEvent{RemoteIP: "1.2.3.4"}).ShardKey(); k != "1.2.3.4" {
		t.Fatalf("ip fallback, got %q", k)
	}
	if k := (AuditEvent{Kind: AuditLogin}).ShardKey(); k != "login" {
		t.Fatalf("kind fallback, got %q", k)
	}
}
