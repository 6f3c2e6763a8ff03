package domain

import (
	"errors"
	"strings"
)

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrIdentityExists     = errors.New("user with this email already exists")
	ErrIdentityNotFound   = errors.New("user not found")
	ErrCarbonNotFound     = errors.New("carbon data not found")
	ErrDeviceNotFound     = errors.New("device not found")
	ErrRateLimited        = errors.New("too many requests")
)

// AuthError describes why a bearer token was rejected. Every AuthError
// matches ErrUnauthenticated under errors.Is.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return "token rejected: " + e.Reason }

func (e *AuthError) Is(target error) bool { return target == ErrUnauthenticated }

var (
	ErrTokenMissing          = &AuthError{Reason: "missing"}
	ErrTokenMalformed        = &AuthError{Reason: "malformed"}
	ErrTokenExpired          = &AuthError{Reason: "expired"}
	ErrTokenInvalidSignature = &AuthError{Reason: "invalid_signature"}
)

// FieldIssue is a single field-level validation failure.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field issue found in one payload.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		msgs = append(msgs, is.Field+": "+is.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// NewValidationError is a shorthand for a single-issue ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Issues: []FieldIssue{{Field: field, Message: message}}}
}

// HasField reports whether the error contains an issue for field.
func (e *ValidationError) HasField(field string) bool {
	for _, is := range e.Issues {
		if is.Field == field {
			return true
		}
	}
	return false
}
