package models

import (
	"netreq/internal/shared/constants"
)

type LocationModel struct {
	ID               uint   `gorm:"primaryKey"`
	AreaName         string `gorm:"size:100;not null"`
	NetworkAvailable bool   `gorm:"not null;default:false"`
}

func (LocationModel) TableName() string {
	return constants.TableLocations
}
