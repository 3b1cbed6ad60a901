package models

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderOpen   OrderStatus = "open"
	OrderClosed OrderStatus = "closed"
	OrderPaid   OrderStatus = "paid"
)

type OrderItemKind string

const (
	ItemService OrderItemKind = "service"
	ItemProduct OrderItemKind = "product"
)

// Order is the billable side of a visit. FinalValue is always recomputed from
// the non-deleted items, never hand-set. An order moves open -> closed -> paid
// only.
type Order struct {
	ID          uint64      `gorm:"primaryKey" json:"id"`
	OrderNo     string      `gorm:"unique;size:50" json:"order_no"`
	SalonID     uint64      `gorm:"index;not null" json:"salon_id"`
	ClientID    uint64      `gorm:"index;not null" json:"client_id"`
	Status      OrderStatus `gorm:"size:20;default:'open'" json:"status"`
	FinalValue  float64     `gorm:"type:decimal(10,2);default:0" json:"final_value"`
	ClosedAt    *time.Time  `json:"closed_at,omitempty"`
	PaidAt      *time.Time  `json:"paid_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	Client      Client       `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Items       []OrderItem  `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Appointment *Appointment `gorm:"foreignKey:OrderID" json:"appointment,omitempty"`
}

// OrderItem is one billable line. Price and Commission are snapshots captured
// at creation time. Removal is a soft delete: the row keeps its values for
// audit but is excluded from total recomputation.
type OrderItem struct {
	ID             uint64         `gorm:"primaryKey" json:"id"`
	SalonID        uint64         `gorm:"index;not null" json:"salon_id"`
	OrderID        uint64         `gorm:"index;not null" json:"order_id"`
	Kind           OrderItemKind  `gorm:"size:20;not null" json:"kind"`
	ServiceID      *uint64        `json:"service_id,omitempty"`
	ProductID      *uint64        `json:"product_id,omitempty"`
	CollaboratorID *uint64        `json:"collaborator_id,omitempty"`
	Quantity       int            `gorm:"default:1" json:"quantity"`
	Price          float64        `gorm:"type:decimal(10,2);not null" json:"price"`
	Commission     float64        `gorm:"type:decimal(10,2);default:0" json:"commission"`
	CreatedAt      time.Time      `json:"created_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

type AddOrderItemInput struct {
	Kind           OrderItemKind `json:"kind" binding:"required,oneof=service product"`
	ServiceID      *uint64       `json:"service_id"`
	ProductID      *uint64       `json:"product_id"`
	CollaboratorID *uint64       `json:"collaborator_id"`
	Quantity       int           `json:"quantity" binding:"omitempty,min=1"`
}
