// Package resource provides the resource pool management service. It edits
// pool definitions only; reservation and release go through the request use
// cases and the ledger.
package resource

import (
	"context"
	"errors"
	"fmt"

	"netreq/internal/domain/resource"
	apperrors "netreq/internal/shared/errors"
	"netreq/internal/shared/logger"
)

// ResourceDTO is the read model of a resource pool.
type ResourceDTO struct {
	ID                uint   `json:"id"`
	Name              string `json:"name"`
	QuantityTotal     int    `json:"quantity_total"`
	QuantityAvailable int    `json:"quantity_available"`
}

// CreateResourceCommand represents the input for creating a resource pool.
// A negative QuantityAvailable means "fully available".
type CreateResourceCommand struct {
	Name              string
	QuantityTotal     int
	QuantityAvailable int
}

// UpdateResourceCommand represents the input for updating a pool definition.
// Nil fields are left unchanged.
type UpdateResourceCommand struct {
	Name              *string
	QuantityTotal     *int
	QuantityAvailable *int
}

type Service struct {
	repo   resource.Repository
	logger logger.Interface
}

func NewService(repo resource.Repository, logger logger.Interface) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, cmd CreateResourceCommand) (*ResourceDTO, error) {
	res, err := resource.NewResource(cmd.Name, cmd.QuantityTotal, cmd.QuantityAvailable)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.repo.Create(ctx, res); err != nil {
		s.logger.Errorw("failed to create resource", "name", cmd.Name, "error", err)
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	s.logger.Infow("resource created", "resource_id", res.ID(), "name", res.Name())
	return toDTO(res), nil
}

func (s *Service) Get(ctx context.Context, id uint) (*ResourceDTO, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("resource not found", fmt.Sprintf("%d", id))
		}
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}
	return toDTO(res), nil
}

// Update edits the pool definition. Changing the total shifts the available
// quantity by the same delta so outstanding reservations stay reserved;
// explicit available overrides are clamped to the total.
func (s *Service) Update(ctx context.Context, id uint, cmd UpdateResourceCommand) (*ResourceDTO, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("resource not found", fmt.Sprintf("%d", id))
		}
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}

	if cmd.Name != nil {
		if err := res.Rename(*cmd.Name); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}
	if cmd.QuantityTotal != nil {
		if err := res.AdjustTotal(*cmd.QuantityTotal); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}
	if cmd.QuantityAvailable != nil {
		if err := res.SetAvailable(*cmd.QuantityAvailable); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}

	if err := s.repo.Update(ctx, res); err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("resource not found", fmt.Sprintf("%d", id))
		}
		s.logger.Errorw("failed to update resource", "resource_id", id, "error", err)
		return nil, fmt.Errorf("failed to update resource: %w", err)
	}

	s.logger.Infow("resource updated", "resource_id", id)
	return toDTO(res), nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return apperrors.NewNotFoundError("resource not found", fmt.Sprintf("%d", id))
		}
		s.logger.Errorw("failed to delete resource", "resource_id", id, "error", err)
		return fmt.Errorf("failed to delete resource: %w", err)
	}
	s.logger.Infow("resource deleted", "resource_id", id)
	return nil
}

func (s *Service) List(ctx context.Context, filter resource.ListFilter) ([]*ResourceDTO, error) {
	resources, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Errorw("failed to list resources", "error", err)
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}

	dtos := make([]*ResourceDTO, 0, len(resources))
	for _, res := range resources {
		dtos = append(dtos, toDTO(res))
	}
	return dtos, nil
}

func toDTO(res *resource.Resource) *ResourceDTO {
	return &ResourceDTO{
		ID:                res.ID(),
		Name:              res.Name(),
		QuantityTotal:     res.QuantityTotal(),
		QuantityAvailable: res.QuantityAvailable(),
	}
}
