package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"netreq/internal/domain/location"
	"netreq/internal/infrastructure/persistence/models"
	"netreq/internal/shared/db"
)

type LocationRepositoryImpl struct {
	db *gorm.DB
}

func NewLocationRepository(gdb *gorm.DB) location.Repository {
	return &LocationRepositoryImpl{db: gdb}
}

func (r *LocationRepositoryImpl) Create(ctx context.Context, loc *location.Location) error {
	model := &models.LocationModel{
		AreaName:         loc.AreaName(),
		NetworkAvailable: loc.IsNetworkAvailable(),
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}

	return loc.SetID(model.ID)
}

func (r *LocationRepositoryImpl) GetByID(ctx context.Context, id uint) (*location.Location, error) {
	var model models.LocationModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, location.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get location by ID: %w", err)
	}

	return toLocationEntity(&model)
}

func (r *LocationRepositoryImpl) Update(ctx context.Context, loc *location.Location) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.LocationModel{}).
		Where("id = ?", loc.ID()).
		Updates(map[string]interface{}{
			"area_name":         loc.AreaName(),
			"network_available": loc.IsNetworkAvailable(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update location: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return location.ErrNotFound
	}
	return nil
}

func (r *LocationRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).Delete(&models.LocationModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete location: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return location.ErrNotFound
	}
	return nil
}

func (r *LocationRepositoryImpl) List(ctx context.Context, available *bool) ([]*location.Location, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.LocationModel{})
	if available != nil {
		query = query.Where("network_available = ?", *available)
	}

	var modelList []*models.LocationModel
	if err := query.Order("area_name ASC").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	entities := make([]*location.Location, 0, len(modelList))
	for _, model := range modelList {
		entity, err := toLocationEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

func toLocationEntity(model *models.LocationModel) (*location.Location, error) {
	entity, err := location.ReconstructLocation(model.ID, model.AreaName, model.NetworkAvailable)
	if err != nil {
		return nil, fmt.Errorf("failed to map location model to entity: %w", err)
	}
	return entity, nil
}
