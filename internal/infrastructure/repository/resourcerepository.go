package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"netreq/internal/domain/resource"
	"netreq/internal/infrastructure/persistence/models"
	"netreq/internal/shared/db"
)

// ResourceRepositoryImpl persists resources and implements the inventory
// ledger. Reserve and release are single guarded UPDATE statements so that
// concurrent callers contending for the same row are serialized by the
// database row lock; the quantity invariant can never be violated by an
// interleaving.
type ResourceRepositoryImpl struct {
	db *gorm.DB
}

func NewResourceRepository(gdb *gorm.DB) resource.Repository {
	return &ResourceRepositoryImpl{db: gdb}
}

func (r *ResourceRepositoryImpl) Create(ctx context.Context, res *resource.Resource) error {
	model := &models.ResourceModel{
		ResourceName:      res.Name(),
		QuantityTotal:     res.QuantityTotal(),
		QuantityAvailable: res.QuantityAvailable(),
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	return res.SetID(model.ID)
}

func (r *ResourceRepositoryImpl) GetByID(ctx context.Context, id uint) (*resource.Resource, error) {
	var model models.ResourceModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, resource.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get resource by ID: %w", err)
	}

	return toResourceEntity(&model)
}

func (r *ResourceRepositoryImpl) Update(ctx context.Context, res *resource.Resource) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.ResourceModel{}).
		Where("id = ?", res.ID()).
		Updates(map[string]interface{}{
			"resource_name":      res.Name(),
			"quantity_total":     res.QuantityTotal(),
			"quantity_available": res.QuantityAvailable(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update resource: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return resource.ErrNotFound
	}
	return nil
}

func (r *ResourceRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).Delete(&models.ResourceModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete resource: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return resource.ErrNotFound
	}
	return nil
}

func (r *ResourceRepositoryImpl) List(ctx context.Context, filter resource.ListFilter) ([]*resource.Resource, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.ResourceModel{})

	if filter.Name != "" {
		query = query.Where("resource_name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.AvailableOnly {
		query = query.Where("quantity_available > 0")
	}

	var modelList []*models.ResourceModel
	if err := query.Order("resource_name ASC").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}

	entities := make([]*resource.Resource, 0, len(modelList))
	for _, model := range modelList {
		entity, err := toResourceEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// Reserve atomically claims qty units. The availability guard is part of the
// UPDATE itself: two transactions racing for the last units cannot both pass
// it, which is what makes concurrent over-allocation impossible.
func (r *ResourceRepositoryImpl) Reserve(ctx context.Context, resourceID uint, qty int) error {
	if qty < 1 {
		return fmt.Errorf("reserve quantity must be at least 1")
	}

	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.ResourceModel{}).
		Where("id = ? AND quantity_available >= ?", resourceID, qty).
		UpdateColumn("quantity_available", gorm.Expr("quantity_available - ?", qty))
	if result.Error != nil {
		return fmt.Errorf("failed to reserve resource quantity: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		exists, err := r.exists(tx, resourceID)
		if err != nil {
			return err
		}
		if !exists {
			return resource.ErrNotFound
		}
		return resource.ErrInsufficientQuantity
	}

	return nil
}

// Release returns qty units to the pool, clamped at quantity_total so a
// double release can never push availability past the pool size.
func (r *ResourceRepositoryImpl) Release(ctx context.Context, resourceID uint, qty int) error {
	if qty < 1 {
		return fmt.Errorf("release quantity must be at least 1")
	}

	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.ResourceModel{}).
		Where("id = ?", resourceID).
		UpdateColumn("quantity_available", gorm.Expr(
			"CASE WHEN quantity_available + ? > quantity_total THEN quantity_total ELSE quantity_available + ? END",
			qty, qty,
		))
	if result.Error != nil {
		return fmt.Errorf("failed to release resource quantity: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		exists, err := r.exists(tx, resourceID)
		if err != nil {
			return err
		}
		if !exists {
			return resource.ErrNotFound
		}
		// Row exists but the clamp produced no change; the release is a no-op.
	}

	return nil
}

func (r *ResourceRepositoryImpl) exists(tx *gorm.DB, resourceID uint) (bool, error) {
	var count int64
	if err := tx.Model(&models.ResourceModel{}).Where("id = ?", resourceID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check resource existence: %w", err)
	}
	return count > 0, nil
}

func toResourceEntity(model *models.ResourceModel) (*resource.Resource, error) {
	entity, err := resource.ReconstructResource(model.ID, model.ResourceName, model.QuantityTotal, model.QuantityAvailable)
	if err != nil {
		return nil, fmt.Errorf("failed to map resource model to entity: %w", err)
	}
	return entity, nil
}
