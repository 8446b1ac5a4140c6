package models

import (
	"time"

	"netreq/internal/shared/constants"
)

type RequestModel struct {
	ID             uint   `gorm:"primaryKey"`
	UserID         uint   `gorm:"not null;index:idx_requests_user"`
	LocationID     uint   `gorm:"not null"`
	ConnectionType string `gorm:"size:50;not null"`
	Status         string `gorm:"size:50;not null;default:'Pending';index:idx_requests_status"`
	CreatedAt      time.Time `gorm:"index:idx_requests_created"`

	Allocations []AllocationModel `gorm:"foreignKey:RequestID"`
}

func (RequestModel) TableName() string {
	return constants.TableRequests
}
