package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/greenops/carbon-management/internal/core/domain"
	"github.com/greenops/carbon-management/internal/core/ports"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	maxPage          = 100000
)

type CarbonService struct {
	repo   ports.CarbonRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewCarbonService(repo ports.CarbonRepository, logger zerolog.Logger) *CarbonService {
	return &CarbonService{repo: repo, logger: logger, now: time.Now}
}

func (s *CarbonService) Create(ctx context.Context, ownerID int64, in ports.CarbonInput) (*domain.CarbonRecord, error) {
	rec := &domain.CarbonRecord{
		UserID:      ownerID,
		FuelName:    in.FuelName,
		Consumption: in.Consumption,
		Electricity: in.Electricity,
		Coefficient: in.Coefficient,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		s.logger.Error().Err(err).Int64("user_id", ownerID).Msg("failed to create carbon record")
		return nil, err
	}

	s.logger.Info().Int64("id", rec.ID).Int64("user_id", ownerID).Msg("carbon record created")
	return rec, nil
}

// Get returns the record only when ownerID owns it.
func (s *CarbonService) Get(ctx context.Context, ownerID, id int64) (*domain.CarbonRecord, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.UserID != ownerID {
		return nil, domain.ErrCarbonNotFound
	}
	return rec, nil
}

func (s *CarbonService) ListMine(ctx context.Context, ownerID int64, q ports.CarbonQuery) (*ports.CarbonPage, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, total, err := s.repo.List(ctx, ports.CarbonFilter{
		UserID:    ownerID,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Offset:    (page - 1) * limit,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.CarbonRecord{}
	}
	return &ports.CarbonPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *CarbonService) Update(ctx context.Context, ownerID, id int64, patch ports.CarbonPatch) (*domain.CarbonRecord, error) {
	if patch.Empty() {
		return s.Get(ctx, ownerID, id)
	}
	rec, err := s.repo.UpdateOwned(ctx, id, ownerID, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("id", id).Int64("user_id", ownerID).Msg("carbon record updated")
	return rec, nil
}

func (s *CarbonService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.repo.DeleteOwned(ctx, id, ownerID); err != nil {
		return err
	}
	s.logger.Info().Int64("id", id).Int64("user_id", ownerID).Msg("carbon record deleted")
	return nil
}

func (s *CarbonService) ListAll(ctx context.Context) ([]domain.CarbonRecord, error) {
	items, _, err := s.repo.List(ctx, ports.CarbonFilter{})
	return nonNil(items), err
}

func (s *CarbonService) ListByUser(ctx context.Context, userID int64) ([]domain.CarbonRecord, error) {
	items, _, err := s.repo.List(ctx, ports.CarbonFilter{UserID: userID})
	return nonNil(items), err
}

func (s *CarbonService) Stats(ctx context.Context) (*domain.CarbonStats, error) {
	return s.repo.Stats(ctx)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
