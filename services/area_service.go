package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/upb/spaces-control-plane/models"
	"github.com/upb/spaces-control-plane/repositories"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// normalizePage clamps pagination parameters to sane bounds
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// AreaService manages areas
type AreaService struct {
	areas  repositories.AreaRepository
	logger *zap.Logger
}

// NewAreaService creates a new AreaService
func NewAreaService(areas repositories.AreaRepository, logger *zap.Logger) *AreaService {
	return &AreaService{areas: areas, logger: logger}
}

// Create creates an area
func (s *AreaService) Create(ctx context.Context, name, description string) (*models.Area, error) {
	area := models.NewArea(name, description)
	if err := s.areas.Create(ctx, area); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateArea.Wrap(err)
		}
		return nil, WrapInternal("failed to create area", err)
	}

	s.logger.Info("area created", zap.String("area_id", area.ID.String()))
	return area, nil
}

// Get returns an area by id
func (s *AreaService) Get(ctx context.Context, id uuid.UUID) (*models.Area, error) {
	area, err := s.areas.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAreaNotFound
		}
		return nil, WrapInternal("failed to get area", err)
	}
	return area, nil
}

// List returns a page of areas
func (s *AreaService) List(ctx context.Context, limit, offset int) ([]*models.Area, error) {
	limit, offset = normalizePage(limit, offset)
	areas, err := s.areas.List(ctx, limit, offset)
	if err != nil {
		return nil, WrapInternal("failed to list areas", err)
	}
	return areas, nil
}

// Delete removes an area and its rooms
func (s *AreaService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.areas.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAreaNotFound
		}
		return WrapInternal("failed to delete area", err)
	}

	s.logger.Info("area deleted", zap.String("area_id", id.String()))
	return nil
}
