package models

import "time"

// Service is a bookable catalog entry. DurationMinutes feeds the scheduling
// interval math; Price and CommissionRate are snapshotted onto order items at
// materialization time, so later edits never rewrite history.
type Service struct {
	ID              uint64    `gorm:"primaryKey" json:"id"`
	SalonID         uint64    `gorm:"index;not null" json:"salon_id"`
	Name            string    `gorm:"size:100;not null" json:"name"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	Price           float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	CommissionRate  float64   `gorm:"type:decimal(5,2);default:0" json:"commission_rate"`
	Active          bool      `gorm:"not null" json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Product struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	SalonID        uint64    `gorm:"index;not null" json:"salon_id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Price          float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	CommissionRate float64   `gorm:"type:decimal(5,2);default:0" json:"commission_rate"`
	Active         bool      `gorm:"not null" json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CreateServiceInput struct {
	Name            string  `json:"name" binding:"required"`
	DurationMinutes int     `json:"duration_minutes" binding:"required,min=1"`
	Price           float64 `json:"price" binding:"required,min=0"`
	CommissionRate  float64 `json:"commission_rate" binding:"min=0,max=100"`
}

type CreateProductInput struct {
	Name           string  `json:"name" binding:"required"`
	Price          float64 `json:"price" binding:"required,min=0"`
	CommissionRate float64 `json:"commission_rate" binding:"min=0,max=100"`
}
