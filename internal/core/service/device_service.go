package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/greenops/carbon-management/internal/core/domain"
	"github.com/greenops/carbon-management/internal/core/ports"
)

type DeviceService struct {
	repo   ports.DeviceRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewDeviceService(repo ports.DeviceRepository, logger zerolog.Logger) *DeviceService {
	return &DeviceService{repo: repo, logger: logger, now: time.Now}
}

func (s *DeviceService) List(ctx context.Context) ([]domain.Device, error) {
	items, err := s.repo.List(ctx)
	return nonNil(items), err
}

func (s *DeviceService) Get(ctx context.Context, id int64) (*domain.Device, error) {
	return s.repo.FindByID(ctx, id)
}

// MaintenanceHistory returns ErrDeviceNotFound for unknown devices rather
// than an empty history.
func (s *DeviceService) MaintenanceHistory(ctx context.Context, deviceID int64) ([]domain.MaintenanceRecord, error) {
	if _, err := s.repo.FindByID(ctx, deviceID); err != nil {
		return nil, err
	}
	items, err := s.repo.MaintenanceByDevice(ctx, deviceID)
	return nonNil(items), err
}

// CreateMaintenance rejects records for unknown devices before inserting.
func (s *DeviceService) CreateMaintenance(ctx context.Context, userID int64, in ports.MaintenanceInput) (*domain.MaintenanceRecord, error) {
	if _, err := s.repo.FindByID(ctx, in.DeviceID); err != nil {
		return nil, err
	}

	rec := &domain.MaintenanceRecord{
		DeviceID:        in.DeviceID,
		UserID:          userID,
		Type:            in.Type,
		Description:     in.Description,
		MaintenanceTime: in.MaintenanceTime.UTC(),
		CreatedAt:       s.now().UTC(),
	}
	if err := s.repo.CreateMaintenance(ctx, rec); err != nil {
		s.logger.Error().Err(err).Int64("device_id", in.DeviceID).Msg("failed to create maintenance record")
		return nil, err
	}

	s.logger.Info().
		Int64("device_id", in.DeviceID).
		Str("type", string(in.Type)).
		Int64("user_id", userID).
		Msg("maintenance recorded")
	return rec, nil
}

func (s *DeviceService) UpdateStatus(ctx context.Context, id int64, in ports.DeviceStatusInput) (*domain.Device, error) {
	dev, err := s.repo.UpdateStatus(ctx, id, in, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("device_id", id).Str("status", string(in.Status)).Msg("device status updated")
	return dev, nil
}

func (s *DeviceService) MaintenanceStats(ctx context.Context) (*domain.MaintenanceStats, error) {
	return s.repo.MaintenanceStats(ctx)
}
