package models

import "time"

// CommissionRecord is one ledger entry: money owed to a collaborator for one
// sold item. Derived when the parent order closes. Once Paid is set the amount
// and period are immutable; a record belongs to exactly one payment batch.
type CommissionRecord struct {
	ID             uint64     `gorm:"primaryKey" json:"id"`
	SalonID        uint64     `gorm:"index;not null" json:"salon_id"`
	CollaboratorID uint64     `gorm:"index;not null" json:"collaborator_id"`
	OrderID        uint64     `gorm:"not null" json:"order_id"`
	OrderItemID    uint64     `gorm:"not null" json:"order_item_id"`
	Amount         float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Paid           bool       `gorm:"default:false;index" json:"paid"`
	PaymentID      *uint64    `gorm:"index" json:"payment_id,omitempty"`
	PeriodStart    *time.Time `json:"period_start,omitempty"`
	PeriodEnd      *time.Time `json:"period_end,omitempty"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// CommissionPayment is a payout batch covering one collaborator's selected
// unpaid records.
type CommissionPayment struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	ReferenceNo    string    `gorm:"unique;size:50" json:"reference_no"`
	SalonID        uint64    `gorm:"index;not null" json:"salon_id"`
	CollaboratorID uint64    `gorm:"index;not null" json:"collaborator_id"`
	Amount         float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	PeriodStart    time.Time `json:"period_start"`
	PeriodEnd      time.Time `json:"period_end"`
	PaidAt         time.Time `json:"paid_at"`
	CreatedAt      time.Time `json:"created_at"`

	Records []CommissionRecord `gorm:"foreignKey:PaymentID" json:"records,omitempty"`
}

type PayCommissionsInput struct {
	CollaboratorID uint64   `json:"collaborator_id" binding:"required"`
	RecordIDs      []uint64 `json:"record_ids"`
	PeriodStart    *string  `json:"period_start"` // RFC 3339, defaults to oldest record
	PeriodEnd      *string  `json:"period_end"`   // RFC 3339, defaults to now
}
