package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/greenops/carbon-management/internal/core/domain"
	"github.com/greenops/carbon-management/internal/core/ports"
)

// IdentityRepository implements ports.IdentityRepository on the users table.
type IdentityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

var _ ports.IdentityRepository = (*IdentityRepository)(nil)

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	var row userModel
	err := r.db.WithContext(ctx).Where("mail = ?", email).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find user by mail: %w", err)
	}
	id := row.toDomain()
	return &id, nil
}

func (r *IdentityRepository) FindByID(ctx context.Context, id int64) (*domain.Identity, error) {
	var row userModel
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	out := row.toDomain()
	return &out, nil
}

// Create inserts identity and assigns its ID. The unique index on mail turns
// a concurrent duplicate registration into domain.ErrIdentityExists.
func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	row := userModelFromDomain(identity)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrIdentityExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	identity.ID = row.ID
	return nil
}

func (r *IdentityRepository) List(ctx context.Context) ([]domain.Identity, error) {
	var rows []userModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domain.Identity, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
