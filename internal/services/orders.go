package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"salonflow-backend/internal/models"
)

// OrderService owns orders and their line items. All total mutations go
// through recomputeTotal inside the same transaction that touched the items,
// so an order's FinalValue can never be observed out of sync.
type OrderService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewOrderService(db *gorm.DB, log *zap.Logger) *OrderService {
	return &OrderService{db: db, log: log}
}

func newOrderNo() string {
	return fmt.Sprintf("ORD-%s", uuid.NewString()[:8])
}

// EnsureOrderForAppointment attaches a transactional order to the appointment
// and materializes one line item per booked service. Idempotent: re-invoking
// it returns the same order and never duplicates items, which is what callers
// rely on when retrying after a partial failure.
func (s *OrderService) EnsureOrderForAppointment(ctx context.Context, salonID, appointmentID uint64) (*models.Order, error) {
	var orderID uint64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var appt models.Appointment
		if err := tx.Preload("Services").Where("salon_id = ?", salonID).First(&appt, appointmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAppointmentNotFound
			}
			return err
		}

		order, err := resolveOrder(tx, &appt)
		if err != nil {
			return err
		}

		// Back-link the appointment if it is not already pointing here.
		if appt.OrderID == nil || *appt.OrderID != order.ID {
			if err := tx.Model(&appt).Update("order_id", order.ID).Error; err != nil {
				return err
			}
		}

		for _, svc := range appt.Services {
			if err := materializeServiceItem(tx, order, svc, appt.CollaboratorID); err != nil {
				return err
			}
		}

		if err := recomputeTotal(tx, order); err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, salonID, orderID)
}

// resolveOrder picks which order to attach, in priority order: the order
// already linked to the appointment, the one named by its order reference,
// any open order of the same client with no appointment yet (merging a
// walk-in tab with a later-booked appointment), else a fresh open order.
func resolveOrder(tx *gorm.DB, appt *models.Appointment) (*models.Order, error) {
	var order models.Order

	err := tx.Joins("JOIN appointments ON appointments.order_id = orders.id").
		Where("appointments.id = ? AND orders.salon_id = ?", appt.ID, appt.SalonID).
		First(&order).Error
	if err == nil {
		return &order, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if appt.OrderID != nil {
		err = tx.Where("salon_id = ?", appt.SalonID).First(&order, *appt.OrderID).Error
		if err == nil {
			return &order, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	err = tx.Where("salon_id = ? AND client_id = ? AND status = ?", appt.SalonID, appt.ClientID, models.OrderOpen).
		Where("id NOT IN (SELECT order_id FROM appointments WHERE order_id IS NOT NULL)").
		Order("id asc").
		First(&order).Error
	if err == nil {
		return &order, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	order = models.Order{
		OrderNo:    newOrderNo(),
		SalonID:    appt.SalonID,
		ClientID:   appt.ClientID,
		Status:     models.OrderOpen,
		FinalValue: 0,
	}
	if err := tx.Create(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// materializeServiceItem creates the (service, collaborator) line once.
// An existing non-deleted item makes this a no-op.
func materializeServiceItem(tx *gorm.DB, order *models.Order, svc models.Service, collaboratorID uint64) error {
	var count int64
	err := tx.Model(&models.OrderItem{}).
		Where("order_id = ? AND kind = ? AND service_id = ? AND collaborator_id = ?",
			order.ID, models.ItemService, svc.ID, collaboratorID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	item := models.OrderItem{
		SalonID:        order.SalonID,
		OrderID:        order.ID,
		Kind:           models.ItemService,
		ServiceID:      &svc.ID,
		CollaboratorID: &collaboratorID,
		Quantity:       1,
		Price:          svc.Price,
		Commission:     svc.Price * svc.CommissionRate / 100,
	}
	return tx.Create(&item).Error
}

// recomputeTotal rewrites FinalValue as the sum of price x quantity over the
// order's non-deleted items. Soft-deleted rows are excluded by gorm.
func recomputeTotal(tx *gorm.DB, order *models.Order) error {
	var items []models.OrderItem
	if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
		return err
	}
	total := 0.0
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	order.FinalValue = total
	return tx.Model(order).Update("final_value", total).Error
}

// AddItem appends an ad-hoc product or extra service line to an open order,
// snapshotting the current catalog price, then recomputes the total.
func (s *OrderService) AddItem(ctx context.Context, salonID, orderID uint64, in models.AddOrderItemInput) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockedOpenOrder(tx, salonID, orderID)
		if err != nil {
			return err
		}

		qty := in.Quantity
		if qty < 1 {
			qty = 1
		}
		item := models.OrderItem{
			SalonID:        salonID,
			OrderID:        order.ID,
			Kind:           in.Kind,
			CollaboratorID: in.CollaboratorID,
			Quantity:       qty,
		}

		switch in.Kind {
		case models.ItemService:
			if in.ServiceID == nil {
				return ErrItemRefMissing
			}
			var svc models.Service
			if err := tx.Where("salon_id = ? AND active = ?", salonID, true).First(&svc, *in.ServiceID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrUnknownService
				}
				return err
			}
			item.ServiceID = &svc.ID
			item.Price = svc.Price
			item.Commission = svc.Price * float64(qty) * svc.CommissionRate / 100
		case models.ItemProduct:
			if in.ProductID == nil {
				return ErrItemRefMissing
			}
			var prod models.Product
			if err := tx.Where("salon_id = ? AND active = ?", salonID, true).First(&prod, *in.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrItemNotFound
				}
				return err
			}
			item.ProductID = &prod.ID
			item.Price = prod.Price
			item.Commission = prod.Price * float64(qty) * prod.CommissionRate / 100
		default:
			return ErrItemRefMissing
		}

		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return recomputeTotal(tx, order)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, salonID, orderID)
}

// RemoveItem soft-deletes a line and recomputes the total. The row stays
// behind for audit, permanently excluded from the sum.
func (s *OrderService) RemoveItem(ctx context.Context, salonID, orderID, itemID uint64) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockedOpenOrder(tx, salonID, orderID)
		if err != nil {
			return err
		}

		var item models.OrderItem
		if err := tx.Where("order_id = ?", order.ID).First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		return recomputeTotal(tx, order)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, salonID, orderID)
}

// CloseOrder moves an open order to closed and derives the commission ledger
// rows from its non-deleted items, all in one transaction.
func (s *OrderService) CloseOrder(ctx context.Context, salonID, orderID uint64) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockedOpenOrder(tx, salonID, orderID)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(order).Updates(map[string]interface{}{
			"status":    models.OrderClosed,
			"closed_at": now,
		}).Error; err != nil {
			return err
		}

		var items []models.OrderItem
		if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
			return err
		}
		for _, item := range items {
			if item.CollaboratorID == nil || item.Commission <= 0 {
				continue
			}
			record := models.CommissionRecord{
				SalonID:        salonID,
				CollaboratorID: *item.CollaboratorID,
				OrderID:        order.ID,
				OrderItemID:    item.ID,
				Amount:         item.Commission,
				PeriodStart:    &now,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, salonID, orderID)
}

// PayOrder marks a closed order as paid. One-way, like closing.
func (s *OrderService) PayOrder(ctx context.Context, salonID, orderID uint64) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Where("salon_id = ?", salonID).First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Status != models.OrderClosed {
			return ErrOrderNotClosed
		}
		return tx.Model(&order).Updates(map[string]interface{}{
			"status":  models.OrderPaid,
			"paid_at": time.Now(),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, salonID, orderID)
}

func (s *OrderService) Get(ctx context.Context, salonID, orderID uint64) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").Preload("Client").Preload("Appointment").
		Where("salon_id = ?", salonID).First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo looks an order up by its external reference, used by the
// payment gateway webhook.
func (s *OrderService) GetByOrderNo(ctx context.Context, orderNo string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Where("order_no = ?", orderNo).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) ListByClient(ctx context.Context, salonID, clientID uint64) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("salon_id = ? AND client_id = ?", salonID, clientID).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

// lockedOpenOrder loads the order and rejects mutation unless it is open.
// On MySQL the row is locked FOR UPDATE so concurrent item mutations
// serialize; the SQLite test driver has a single writer and rejects the
// clause.
func lockedOpenOrder(tx *gorm.DB, salonID, orderID uint64) (*models.Order, error) {
	q := tx.Where("salon_id = ?", salonID)
	if tx.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var order models.Order
	if err := q.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.Status != models.OrderOpen {
		return nil, ErrOrderNotOpen
	}
	return &order, nil
}
