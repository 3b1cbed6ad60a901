package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// Collaborator is a staff member and also the authenticated account.
type Collaborator struct {
	ID           uint64         `gorm:"primaryKey" json:"id"`
	SalonID      uint64         `gorm:"index;not null" json:"salon_id"`
	Name         string         `gorm:"size:100;not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Phone        string         `gorm:"size:20" json:"phone"`
	Role         Role           `gorm:"size:20;default:'staff'" json:"role"`
	FCMToken     string         `gorm:"size:255" json:"-"`
	Active       bool           `gorm:"not null" json:"active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

type RegisterInput struct {
	SalonID  uint64 `json:"salon_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Role     Role   `json:"role" binding:"omitempty,oneof=manager staff"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
