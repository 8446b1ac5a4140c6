package models

import (
	"netreq/internal/shared/constants"
)

type AllocationModel struct {
	ID           uint `gorm:"primaryKey"`
	RequestID    uint `gorm:"not null;index:idx_allocations_req_res"`
	ResourceID   uint `gorm:"not null;index:idx_allocations_req_res"`
	QuantityUsed int  `gorm:"not null"`
}

func (AllocationModel) TableName() string {
	return constants.TableAllocations
}
