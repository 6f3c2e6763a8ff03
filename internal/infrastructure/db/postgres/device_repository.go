package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/greenops/carbon-management/internal/core/domain"
	"github.com/greenops/carbon-management/internal/core/ports"
)

// DeviceRepository implements ports.DeviceRepository on the devices and
// maintenance_records tables.
type DeviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

var _ ports.DeviceRepository = (*DeviceRepository)(nil)

func (r *DeviceRepository) List(ctx context.Context) ([]domain.Device, error) {
	var rows []deviceModel
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	out := make([]domain.Device, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *DeviceRepository) FindByID(ctx context.Context, id int64) (*domain.Device, error) {
	var row deviceModel
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDeviceNotFound
		}
		return nil, fmt.Errorf("find device: %w", err)
	}
	out := row.toDomain()
	return &out, nil
}

// UpdateStatus sets the status and, when given, the runtime hours. Moving a
// device into active resets its boot time to at.
func (r *DeviceRepository) UpdateStatus(ctx context.Context, id int64, in ports.DeviceStatusInput, at time.Time) (*domain.Device, error) {
	var row deviceModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).Take(&row).Error; err != nil {
			return err
		}
		updates := map[string]any{
			"status":     string(in.Status),
			"updated_at": at,
		}
		if in.RuntimeHours != nil {
			updates["runtime"] = *in.RuntimeHours
		}
		if in.Status == domain.DeviceActive && row.Status != string(domain.DeviceActive) {
			updates["boot_time"] = at
		}
		if err := tx.Model(&row).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Take(&row).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDeviceNotFound
		}
		return nil, fmt.Errorf("update device status: %w", err)
	}
	out := row.toDomain()
	return &out, nil
}

func (r *DeviceRepository) CreateMaintenance(ctx context.Context, rec *domain.MaintenanceRecord) error {
	row := maintenanceModel{
		DeviceID:        rec.DeviceID,
		UserID:          rec.UserID,
		Type:            string(rec.Type),
		Description:     rec.Description,
		MaintenanceTime: rec.MaintenanceTime,
		CreatedAt:       rec.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create maintenance record: %w", err)
	}
	rec.ID = row.ID
	return nil
}

func (r *DeviceRepository) MaintenanceByDevice(ctx context.Context, deviceID int64) ([]domain.MaintenanceRecord, error) {
	var rows []maintenanceModel
	err := r.db.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list maintenance records: %w", err)
	}
	out := make([]domain.MaintenanceRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *DeviceRepository) MaintenanceStats(ctx context.Context) (*domain.MaintenanceStats, error) {
	var stats domain.MaintenanceStats
	err := r.db.WithContext(ctx).Model(&maintenanceModel{}).
		Select(`COUNT(*) AS total_maintenance,
			COUNT(*) FILTER (WHERE type = ?) AS routine_maintenance,
			COUNT(*) FILTER (WHERE type = ?) AS repair_maintenance,
			COUNT(*) FILTER (WHERE type = ?) AS inspection_maintenance`,
			domain.MaintenanceRoutine, domain.MaintenanceRepair, domain.MaintenanceInspection).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("maintenance stats: %w", err)
	}
	return &stats, nil
}
