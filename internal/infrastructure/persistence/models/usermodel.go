package models

import (
	"time"

	"netreq/internal/shared/constants"
)

type UserModel struct {
	ID           uint   `gorm:"primaryKey"`
	FullName     string `gorm:"size:100;not null"`
	Email        string `gorm:"size:100;not null;uniqueIndex:idx_users_email"`
	PasswordHash string `gorm:"size:255;not null"`
	Phone        string `gorm:"size:20"`
	Role         string `gorm:"size:20;not null;default:'user'"`
	CreatedAt    time.Time
}

func (UserModel) TableName() string {
	return constants.TableUsers
}
