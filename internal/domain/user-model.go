package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Email             string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash      string         `gorm:"not null" json:"-"`
	Name              string         `gorm:"not null" json:"name"`
	Role              string         `gorm:"type:varchar(20);not null;default:USER" json:"role"`
	EmailVerified     bool           `gorm:"not null;default:false" json:"emailVerified"`
	VerificationToken *string        `gorm:"uniqueIndex" json:"-"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}
