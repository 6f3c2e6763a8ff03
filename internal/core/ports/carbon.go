package ports

import (
	"context"
	"time"

	"github.com/greenops/carbon-management/internal/core/domain"
)

// CarbonInput is a validated create payload.
type CarbonInput struct {
	FuelName    string
	Consumption float64
	Electricity *float64
	Coefficient float64
}

// CarbonPatch is a validated partial update. Nil fields are left unchanged.
type CarbonPatch struct {
	FuelName    *string
	Consumption *float64
	Electricity *float64
	Coefficient *float64
}

// Empty reports whether the patch changes nothing.
func (p CarbonPatch) Empty() bool {
	return p.FuelName == nil && p.Consumption == nil && p.Electricity == nil && p.Coefficient == nil
}

// CarbonQuery filters and paginates a caller's records.
type CarbonQuery struct {
	Page      int
	Limit     int
	StartDate time.Time // zero = unbounded
	EndDate   time.Time // zero = unbounded
}

// CarbonPage is one page of records plus the unpaginated total.
type CarbonPage struct {
	Items []domain.CarbonRecord `json:"items"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// CarbonFilter is the repository-level query.
type CarbonFilter struct {
	UserID    int64 // zero = every owner
	StartDate time.Time
	EndDate   time.Time
	Offset    int
	Limit     int // zero = no limit
}

// CarbonRepository persists carbon records. Owner-scoped mutations return
// domain.ErrCarbonNotFound when the record is absent or owned by someone else.
type CarbonRepository interface {
	Create(ctx context.Context, rec *domain.CarbonRecord) error
	FindByID(ctx context.Context, id int64) (*domain.CarbonRecord, error)
	List(ctx context.Context, filter CarbonFilter) ([]domain.CarbonRecord, int64, error)
	UpdateOwned(ctx context.Context, id, ownerID int64, patch CarbonPatch) (*domain.CarbonRecord, error)
	DeleteOwned(ctx context.Context, id, ownerID int64) error
	Stats(ctx context.Context) (*domain.CarbonStats, error)
}

type CarbonService interface {
	Create(ctx context.Context, ownerID int64, in CarbonInput) (*domain.CarbonRecord, error)
	Get(ctx context.Context, ownerID, id int64) (*domain.CarbonRecord, error)
	ListMine(ctx context.Context, ownerID int64, q CarbonQuery) (*CarbonPage, error)
	Update(ctx context.Context, ownerID, id int64, patch CarbonPatch) (*domain.CarbonRecord, error)
	Delete(ctx context.Context, ownerID, id int64) error
	ListAll(ctx context.Context) ([]domain.CarbonRecord, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.CarbonRecord, error)
	Stats(ctx context.Context) (*domain.CarbonStats, error)
}
