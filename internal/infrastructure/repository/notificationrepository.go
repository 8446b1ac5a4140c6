package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"netreq/internal/domain/notification"
	"netreq/internal/infrastructure/persistence/models"
	"netreq/internal/shared/db"
)

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(gdb *gorm.DB) notification.Repository {
	return &NotificationRepositoryImpl{db: gdb}
}

// Create joins the ambient transaction when one is present, which is what
// ties notification emission to the durability of the triggering mutation.
func (r *NotificationRepositoryImpl) Create(ctx context.Context, notif *notification.Notification) error {
	model := &models.NotificationModel{
		UserID:    notif.UserID(),
		Message:   notif.Message(),
		Seen:      notif.Seen(),
		CreatedAt: notif.CreatedAt(),
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return notif.SetID(model.ID)
}

func (r *NotificationRepositoryImpl) ListByUserID(ctx context.Context, userID uint, limit, offset int) ([]*notification.Notification, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).
		Model(&models.NotificationModel{}).
		Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var modelList []*models.NotificationModel
	if err := query.Find(&modelList).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	entities := make([]*notification.Notification, 0, len(modelList))
	for _, model := range modelList {
		entity, err := notification.ReconstructNotification(model.ID, model.UserID, model.Message, model.Seen, model.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to map notification model to entity: %w", err)
		}
		entities = append(entities, entity)
	}

	return entities, total, nil
}

func (r *NotificationRepositoryImpl) CountUnseen(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.NotificationModel{}).
		Where("user_id = ? AND seen = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unseen notifications: %w", err)
	}
	return count, nil
}

func (r *NotificationRepositoryImpl) MarkSeen(ctx context.Context, id, userID uint) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.NotificationModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		UpdateColumn("seen", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification seen: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing row from an already-seen one.
		var count int64
		if err := tx.Model(&models.NotificationModel{}).
			Where("id = ? AND user_id = ?", id, userID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check notification existence: %w", err)
		}
		if count == 0 {
			return notification.ErrNotFound
		}
	}
	return nil
}
