package ports

import (
	"context"
	"time"

	"github.com/greenops/carbon-management/internal/core/domain"
)

// RegisterInput is the validated registration payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// AuthResult is returned by registration and login.
type AuthResult struct {
	Identity *domain.Identity
	Token    string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Profile(ctx context.Context, id int64) (*domain.Identity, error)
	ListIdentities(ctx context.Context) ([]domain.Identity, error)
}

// TokenIssuer signs token payloads.
type TokenIssuer interface {
	Issue(payload domain.TokenPayload, ttl time.Duration) (string, error)
	TTL() time.Duration
}

// TokenVerifier checks a bearer token and returns its payload.
// Failures are *domain.AuthError values.
type TokenVerifier interface {
	Verify(token string) (*domain.TokenPayload, error)
}
