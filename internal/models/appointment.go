package models

import "time"

type AppointmentStatus string

const (
	AppointmentPending    AppointmentStatus = "pending"
	AppointmentInProgress AppointmentStatus = "in_progress"
	AppointmentCompleted  AppointmentStatus = "completed"
	AppointmentNotPaid    AppointmentStatus = "not_paid"
	AppointmentCanceled   AppointmentStatus = "canceled"
	AppointmentNoShow     AppointmentStatus = "no_show"
)

// Appointment reserves a collaborator's time slot. End is always derived from
// the booked services, never taken as input. Appointments are canceled, never
// hard-deleted.
type Appointment struct {
	ID             uint64            `gorm:"primaryKey" json:"id"`
	SalonID        uint64            `gorm:"index;not null" json:"salon_id"`
	ClientID       uint64            `gorm:"not null" json:"client_id"`
	CollaboratorID uint64            `gorm:"index;not null" json:"collaborator_id"`
	StartAt        time.Time         `gorm:"index;not null" json:"start_at"`
	EndAt          time.Time         `gorm:"not null" json:"end_at"`
	Status         AppointmentStatus `gorm:"size:20;default:'pending'" json:"status"`
	Origin         string            `gorm:"size:30" json:"origin"` // booking channel: app, phone, walk_in
	Notes          string            `gorm:"type:text" json:"notes"`
	OrderID        *uint64           `gorm:"index" json:"order_id,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`

	Client       Client       `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Collaborator Collaborator `gorm:"foreignKey:CollaboratorID" json:"collaborator,omitempty"`
	Services     []Service    `gorm:"many2many:appointment_services" json:"services,omitempty"`
}

type CreateAppointmentInput struct {
	ClientID       uint64   `json:"client_id" binding:"required"`
	CollaboratorID uint64   `json:"collaborator_id" binding:"required"`
	ServiceIDs     []uint64 `json:"service_ids"`
	StartAt        string   `json:"start_at" binding:"required"` // RFC 3339
	Origin         string   `json:"origin"`
	Notes          string   `json:"notes"`
}

// EditAppointmentInput is a partial update: nil means "leave unchanged".
// A nil ServiceIDs slice keeps the booked services; an empty one is rejected.
type EditAppointmentInput struct {
	ClientID       *uint64  `json:"client_id"`
	CollaboratorID *uint64  `json:"collaborator_id"`
	ServiceIDs     []uint64 `json:"service_ids"`
	StartAt        *string  `json:"start_at"`
	Notes          *string  `json:"notes"`
}

type TransitionInput struct {
	Status AppointmentStatus `json:"status" binding:"required"`
}
