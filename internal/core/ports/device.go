package ports

import (
	"context"
	"time"

	"github.com/greenops/carbon-management/internal/core/domain"
)

// MaintenanceInput is a validated maintenance-record payload.
type MaintenanceInput struct {
	DeviceID        int64
	Type            domain.MaintenanceType
	Description     string
	MaintenanceTime time.Time
}

// DeviceStatusInput is a validated status update.
type DeviceStatusInput struct {
	Status       domain.DeviceStatus
	RuntimeHours *float64 // nil keeps the current value
}

// DeviceRepository persists devices and their maintenance history.
type DeviceRepository interface {
	List(ctx context.Context) ([]domain.Device, error)
	FindByID(ctx context.Context, id int64) (*domain.Device, error)
	UpdateStatus(ctx context.Context, id int64, in DeviceStatusInput, at time.Time) (*domain.Device, error)
	CreateMaintenance(ctx context.Context, rec *domain.MaintenanceRecord) error
	MaintenanceByDevice(ctx context.Context, deviceID int64) ([]domain.MaintenanceRecord, error)
	MaintenanceStats(ctx context.Context) (*domain.MaintenanceStats, error)
}

type DeviceService interface {
	List(ctx context.Context) ([]domain.Device, error)
	Get(ctx context.Context, id int64) (*domain.Device, error)
	MaintenanceHistory(ctx context.Context, deviceID int64) ([]domain.MaintenanceRecord, error)
	CreateMaintenance(ctx context.Context, userID int64, in MaintenanceInput) (*domain.MaintenanceRecord, error)
	UpdateStatus(ctx context.Context, id int64, in DeviceStatusInput) (*domain.Device, error)
	MaintenanceStats(ctx context.Context) (*domain.MaintenanceStats, error)
}
