// Package location provides the location management service.
package location

import (
	"context"
	"errors"
	"fmt"

	"netreq/internal/domain/location"
	apperrors "netreq/internal/shared/errors"
	"netreq/internal/shared/logger"
)

// LocationDTO is the read model of a location.
type LocationDTO struct {
	ID               uint   `json:"id"`
	AreaName         string `json:"area_name"`
	NetworkAvailable bool   `json:"network_available"`
}

// CreateLocationCommand represents the input for creating a location.
type CreateLocationCommand struct {
	AreaName         string
	NetworkAvailable bool
}

// UpdateLocationCommand represents the input for updating a location. Nil
// fields are left unchanged.
type UpdateLocationCommand struct {
	AreaName         *string
	NetworkAvailable *bool
}

type Service struct {
	repo   location.Repository
	logger logger.Interface
}

func NewService(repo location.Repository, logger logger.Interface) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, cmd CreateLocationCommand) (*LocationDTO, error) {
	loc, err := location.NewLocation(cmd.AreaName, cmd.NetworkAvailable)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.repo.Create(ctx, loc); err != nil {
		s.logger.Errorw("failed to create location", "area_name", cmd.AreaName, "error", err)
		return nil, fmt.Errorf("failed to create location: %w", err)
	}

	s.logger.Infow("location created", "location_id", loc.ID(), "area_name", loc.AreaName())
	return toDTO(loc), nil
}

func (s *Service) Get(ctx context.Context, id uint) (*LocationDTO, error) {
	loc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, location.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("location not found", fmt.Sprintf("%d", id))
		}
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	return toDTO(loc), nil
}

func (s *Service) Update(ctx context.Context, id uint, cmd UpdateLocationCommand) (*LocationDTO, error) {
	loc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, location.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("location not found", fmt.Sprintf("%d", id))
		}
		return nil, fmt.Errorf("failed to get location: %w", err)
	}

	if cmd.AreaName != nil {
		if err := loc.Rename(*cmd.AreaName); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}
	if cmd.NetworkAvailable != nil {
		loc.SetNetworkAvailable(*cmd.NetworkAvailable)
	}

	if err := s.repo.Update(ctx, loc); err != nil {
		if errors.Is(err, location.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("location not found", fmt.Sprintf("%d", id))
		}
		s.logger.Errorw("failed to update location", "location_id", id, "error", err)
		return nil, fmt.Errorf("failed to update location: %w", err)
	}

	s.logger.Infow("location updated", "location_id", id)
	return toDTO(loc), nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, location.ErrNotFound) {
			return apperrors.NewNotFoundError("location not found", fmt.Sprintf("%d", id))
		}
		s.logger.Errorw("failed to delete location", "location_id", id, "error", err)
		return fmt.Errorf("failed to delete location: %w", err)
	}
	s.logger.Infow("location deleted", "location_id", id)
	return nil
}

func (s *Service) List(ctx context.Context, available *bool) ([]*LocationDTO, error) {
	locations, err := s.repo.List(ctx, available)
	if err != nil {
		s.logger.Errorw("failed to list locations", "error", err)
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	dtos := make([]*LocationDTO, 0, len(locations))
	for _, loc := range locations {
		dtos = append(dtos, toDTO(loc))
	}
	return dtos, nil
}

func toDTO(loc *location.Location) *LocationDTO {
	return &LocationDTO{
		ID:               loc.ID(),
		AreaName:         loc.AreaName(),
		NetworkAvailable: loc.IsNetworkAvailable(),
	}
}
