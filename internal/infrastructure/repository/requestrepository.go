package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"netreq/internal/domain/request"
	"netreq/internal/infrastructure/persistence/models"
	"netreq/internal/shared/constants"
	"netreq/internal/shared/db"
)

type RequestRepositoryImpl struct {
	db *gorm.DB
}

func NewRequestRepository(gdb *gorm.DB) request.Repository {
	return &RequestRepositoryImpl{db: gdb}
}

func (r *RequestRepositoryImpl) Create(ctx context.Context, req *request.Request) error {
	tx := db.GetTxFromContext(ctx, r.db)

	model := &models.RequestModel{
		UserID:         req.UserID(),
		LocationID:     req.LocationID(),
		ConnectionType: req.ConnectionType(),
		Status:         req.Status().String(),
		CreatedAt:      req.CreatedAt(),
	}

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for _, alloc := range req.Allocations() {
		allocModel := &models.AllocationModel{
			RequestID:    model.ID,
			ResourceID:   alloc.ResourceID(),
			QuantityUsed: alloc.QuantityUsed(),
		}
		if err := tx.Create(allocModel).Error; err != nil {
			return fmt.Errorf("failed to create allocation: %w", err)
		}
	}

	return req.SetID(model.ID)
}

func (r *RequestRepositoryImpl) GetByID(ctx context.Context, id uint) (*request.Request, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.RequestModel
	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, request.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get request by ID: %w", err)
	}

	allocations, err := r.loadAllocations(tx, []uint{model.ID})
	if err != nil {
		return nil, err
	}

	return toRequestEntity(&model, allocations[model.ID])
}

func (r *RequestRepositoryImpl) UpdateStatus(ctx context.Context, id uint, status request.Status) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.RequestModel{}).
		Where("id = ?", id).
		UpdateColumn("status", status.String())
	if result.Error != nil {
		return fmt.Errorf("failed to update request status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return request.ErrNotFound
	}
	return nil
}

// MarkCancelled finalizes a cancellation: the status flips to Cancelled and
// the allocation rows disappear in the same statement sequence. Callers run
// this inside the transaction that also releases the ledger quantities.
// The status flip is a compare-and-swap on Pending: a concurrent transaction
// that moved the request out of Pending makes this return ErrNotPending,
// aborting the caller's transaction before any release commits.
func (r *RequestRepositoryImpl) MarkCancelled(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.RequestModel{}).
		Where("id = ? AND status = ?", id, request.StatusPending.String()).
		UpdateColumn("status", request.StatusCancelled.String())
	if result.Error != nil {
		return fmt.Errorf("failed to mark request cancelled: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.RequestModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check request existence: %w", err)
		}
		if count == 0 {
			return request.ErrNotFound
		}
		return request.ErrNotPending
	}

	if err := tx.Where("request_id = ?", id).Delete(&models.AllocationModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete allocations: %w", err)
	}

	return nil
}

func (r *RequestRepositoryImpl) List(ctx context.Context, filter request.ListFilter, limit, offset int) ([]*request.Request, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	query := tx.Model(&models.RequestModel{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count requests: %w", err)
	}

	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var modelList []*models.RequestModel
	if err := query.Find(&modelList).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list requests: %w", err)
	}

	ids := make([]uint, 0, len(modelList))
	for _, model := range modelList {
		ids = append(ids, model.ID)
	}

	allocations, err := r.loadAllocations(tx, ids)
	if err != nil {
		return nil, 0, err
	}

	entities := make([]*request.Request, 0, len(modelList))
	for _, model := range modelList {
		entity, err := toRequestEntity(model, allocations[model.ID])
		if err != nil {
			return nil, 0, err
		}
		entities = append(entities, entity)
	}

	return entities, total, nil
}

// allocationRow carries an allocation joined with its resource name.
type allocationRow struct {
	ID           uint
	RequestID    uint
	ResourceID   uint
	ResourceName string
	QuantityUsed int
}

func (r *RequestRepositoryImpl) loadAllocations(tx *gorm.DB, requestIDs []uint) (map[uint][]*request.Allocation, error) {
	result := make(map[uint][]*request.Allocation)
	if len(requestIDs) == 0 {
		return result, nil
	}

	var rows []allocationRow
	err := tx.Table(constants.TableAllocations+" AS a").
		Select("a.id, a.request_id, a.resource_id, a.quantity_used, r.resource_name").
		Joins(fmt.Sprintf("LEFT JOIN %s AS r ON r.id = a.resource_id", constants.TableResources)).
		Where("a.request_id IN ?", requestIDs).
		Order("a.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load allocations: %w", err)
	}

	for _, row := range rows {
		alloc := request.ReconstructAllocation(row.ID, row.RequestID, row.ResourceID, row.ResourceName, row.QuantityUsed)
		result[row.RequestID] = append(result[row.RequestID], alloc)
	}

	return result, nil
}

func toRequestEntity(model *models.RequestModel, allocations []*request.Allocation) (*request.Request, error) {
	entity, err := request.ReconstructRequest(
		model.ID,
		model.UserID,
		model.LocationID,
		model.ConnectionType,
		request.Status(model.Status),
		allocations,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to map request model to entity: %w", err)
	}
	return entity, nil
}
