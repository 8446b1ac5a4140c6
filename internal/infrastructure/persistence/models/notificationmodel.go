package models

import (
	"time"

	"netreq/internal/shared/constants"
)

type NotificationModel struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index:idx_notifications_user_seen"`
	Message   string `gorm:"type:text;not null"`
	Seen      bool   `gorm:"not null;default:false;index:idx_notifications_user_seen"`
	CreatedAt time.Time
}

func (NotificationModel) TableName() string {
	return constants.TableNotifications
}
