package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/greenops/carbon-management/internal/core/domain"
	"github.com/greenops/carbon-management/internal/core/ports"
)

// CarbonRepository implements ports.CarbonRepository on the carbon table.
type CarbonRepository struct {
	db *gorm.DB
}

func NewCarbonRepository(db *gorm.DB) *CarbonRepository {
	return &CarbonRepository{db: db}
}

var _ ports.CarbonRepository = (*CarbonRepository)(nil)

func (r *CarbonRepository) Create(ctx context.Context, rec *domain.CarbonRecord) error {
	row := carbonModel{
		UserID:      rec.UserID,
		FuelName:    rec.FuelName,
		Consumption: rec.Consumption,
		Electricity: rec.Electricity,
		Coefficient: rec.Coefficient,
		CreatedAt:   rec.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create carbon record: %w", err)
	}
	rec.ID = row.ID
	return nil
}

func (r *CarbonRepository) FindByID(ctx context.Context, id int64) (*domain.CarbonRecord, error) {
	var row carbonModel
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCarbonNotFound
		}
		return nil, fmt.Errorf("find carbon record: %w", err)
	}
	out := row.toDomain()
	return &out, nil
}

// List returns records newest first plus the count before pagination.
func (r *CarbonRepository) List(ctx context.Context, f ports.CarbonFilter) ([]domain.CarbonRecord, int64, error) {
	q := r.db.WithContext(ctx).Model(&carbonModel{})
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if !f.StartDate.IsZero() {
		q = q.Where("created_at >= ?", f.StartDate)
	}
	if !f.EndDate.IsZero() {
		q = q.Where("created_at <= ?", f.EndDate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count carbon records: %w", err)
	}

	q = q.Order("created_at DESC").Order("id DESC")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}

	var rows []carbonModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list carbon records: %w", err)
	}
	out := make([]domain.CarbonRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, total, nil
}

func (r *CarbonRepository) UpdateOwned(ctx context.Context, id, ownerID int64, patch ports.CarbonPatch) (*domain.CarbonRecord, error) {
	updates := map[string]any{}
	if patch.FuelName != nil {
		updates["fuel_name"] = *patch.FuelName
	}
	if patch.Consumption != nil {
		updates["consumption"] = *patch.Consumption
	}
	if patch.Electricity != nil {
		updates["electricity"] = *patch.Electricity
	}
	if patch.Coefficient != nil {
		updates["coefficient"] = *patch.Coefficient
	}

	var row carbonModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, ownerID).Take(&row).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&row).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Take(&row).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCarbonNotFound
		}
		return nil, fmt.Errorf("update carbon record: %w", err)
	}
	out := row.toDomain()
	return &out, nil
}

func (r *CarbonRepository) DeleteOwned(ctx context.Context, id, ownerID int64) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).Delete(&carbonModel{})
	if res.Error != nil {
		return fmt.Errorf("delete carbon record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrCarbonNotFound
	}
	return nil
}

func (r *CarbonRepository) Stats(ctx context.Context) (*domain.CarbonStats, error) {
	var stats domain.CarbonStats
	err := r.db.WithContext(ctx).Model(&carbonModel{}).
		Select(`COUNT(*) AS total_records,
			COALESCE(SUM(consumption), 0) AS total_consumption,
			COALESCE(SUM(electricity), 0) AS total_electricity,
			COALESCE(SUM(consumption * coefficient), 0) AS total_emission`).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("carbon stats: %w", err)
	}
	return &stats, nil
}
