package ports

import (
	"context"

	"github.com/greenops/carbon-management/internal/core/domain"
)

// IdentityRepository defines the persistence contract for identities.
type IdentityRepository interface {
	// FindByEmail returns domain.ErrIdentityNotFound when no identity uses email.
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	// FindByID returns domain.ErrIdentityNotFound when id is unknown.
	FindByID(ctx context.Context, id int64) (*domain.Identity, error)
	// Create assigns ID and returns domain.ErrIdentityExists on a duplicate email.
	Create(ctx context.Context, identity *domain.Identity) error
	List(ctx context.Context) ([]domain.Identity, error)
}

// PasswordHasher is the credential store adapter.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}
