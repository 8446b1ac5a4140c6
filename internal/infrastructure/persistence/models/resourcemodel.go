package models

import (
	"netreq/internal/shared/constants"
)

type ResourceModel struct {
	ID                uint   `gorm:"primaryKey"`
	ResourceName      string `gorm:"size:100;not null;index:idx_resources_name"`
	QuantityTotal     int    `gorm:"not null"`
	QuantityAvailable int    `gorm:"not null"`
}

func (ResourceModel) TableName() string {
	return constants.TableResources
}
