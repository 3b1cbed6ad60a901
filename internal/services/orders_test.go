package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"salonflow-backend/internal/models"
)

func TestEnsureOrderIsIdempotent(t *testing.T) {
	f := newFixture(t)
	svc := f.orders(t)
	ctx := context.Background()

	appt := f.book(t, f.staff.ID, tomorrowAt(14, 0), f.haircut.ID, f.color.ID)

	first, err := svc.EnsureOrderForAppointment(ctx, f.salon.ID, appt.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderOpen, first.Status)
	require.Len(t, first.Items, 2)
	require.Equal(t, 200.0, first.FinalValue) // 80 + 120

	second, err := svc.EnsureOrderForAppointment(ctx, f.salon.ID, appt.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Len(t, second.Items, 2)
	require.Equal(t, 200.0, second.FinalValue)

	// The appointment is back-linked to the order.
	var reloaded models.Appointment
	require.NoError(t, f.db.First(&reloaded, appt.ID).Error)
	require.NotNil(t, reloaded.OrderID)
	require.Equal(t, first.ID, *reloaded.OrderID)
}

func TestEnsureOrderSnapshotsPriceAndCommission(t *testing.T) {
	f := newFixture(t)
	svc := f.orders(t)
	ctx := context.Background()

	appt := f.book(t, f.staff.ID, tomorrowAt(14, 0), f.haircut.ID)
	order, err := svc.EnsureOrderForAppointment(ctx, f.salon.ID, appt.ID)
	require.NoError(t, err)

	item := order.Items[0]
	require.Equal(t, models.ItemService, item.Kind)
	require.Equal(t, 80.0, item.Price)
	require.Equal(t, 8.0, item.Commission) // 10% of 80
	require.Equal(t, f.staff.ID, *item.CollaboratorID)

	// Raising the catalog price later must not move the snapshot.
	require.NoError(t, f.db.Model(&models.Service{}).Where("id = ?", f.haircut.ID).Update("price", 999).Error)
	again, err := svc.EnsureOrderForAppointment(ctx, f.salon.ID, appt.ID)
	require.NoError(t, err)
	require.Equal(t, 80.0, again.Items[0].Price)
	require.Equal(t, 80.0, again.FinalValue)
}

func TestEnsureOrderMergesOpenClientOrder(t *testing.T) {
	f := newFixture(t)
	svc := f.orders(t)
	ctx := context.Background()

	// Walk-in tab opened before the appointment existed.
	tab := models.Order{OrderNo: "ORD-walkin", SalonID: f.salon.ID, ClientID: f.client.ID, Status: models.OrderOpen}
	require.NoError(t, f.db.Create(&tab).Error)

	appt := f.book(t, f.staff.ID, tomorrowAt(14, 0), f.haircut.ID)
	order, err := svc.EnsureOrderForAppointment(ctx, f.salon.ID, appt.ID)
	require.NoError(t, err)
	require.Equal(t, tab.ID, order.ID)
	require.Len(t, order.Items, 1)
}

func TestEnsureOrderSkipsClosedAndForeignOrders(t *testing.T) {
	f := newFixture(t)
	svc := f.orders(t)
	ctx := context.Background()

	closed := models.Order{OrderNo: "ORD-closed", SalonID: f.salon.ID, ClientID: f.client.ID, Status: models.OrderClosed}
	require.NoError(t, f.db.Create(&closed).Error)

	appt := f.book(t, f.staff.ID, tomorrowAt(14, 0), f.haircut.ID)
	order, err := svc.EnsureOrderForAppointment(ctx, f.salon.ID, appt.ID)
	require.NoError(t, err)
	require.NotEqual(t, closed.ID, order.ID)
	require.Equal(t, models.OrderOpen, order.Status)
}

func TestEnsureOrderFollowsAppointmentOrderReference(t *testing.T) {
	f := newFixture(t)
	svc := f.orders(t)
	ctx := context.Background()

	existing := models.Order{OrderNo: "ORD-ref", SalonID: f.salon.ID, ClientID: f.client.ID, Status: models.OrderOpen}
	require.NoError(t, f.db.Create(&existing).Error)

	appt := f.book(t, f.staff.ID, tomorrowAt(14, 0), f.haircut.ID)
	require.NoError(t, f.db.Model(&models.Appointment{}).Where("id = ?", appt.ID).Update("order_id", existing.ID).Error)

	order, err := svc.EnsureOrderForAppointment(ctx, f.salon.ID, appt.ID)
	require.NoError(t, err)
	require.Equal(t, existing.ID, order.ID)
}

func TestRunningTotalScenario(t *testing.T) {
	f := newFixture(t)
	svc := f.orders(t)
	ctx := context.Background()

	appt := f.book(t, f.staff.ID, tomorrowAt(14, 0), f.haircut.ID)
	order, err := svc.EnsureOrderForAppointment(ctx, f.salon.ID, appt.ID)
	require.NoError(t, err)
	require.Equal(t, 80.0, order.FinalValue)
	serviceItemID := order.Items[0].ID

	// Product at 35 x 2 brings the tab to 150.
	order, err = svc.AddItem(ctx, f.salon.ID, order.ID, models.AddOrderItemInput{
		Kind:      models.ItemProduct,
		ProductID: &f.shampoo.ID,
		Quantity:  2,
	})
	require.NoError(t, err)
	require.Equal(t, 150.0, order.FinalValue)
	require.Len(t, order.Items, 2)

	// Soft-deleting the service line leaves 70 and keeps the row for audit.
	order, err = svc.RemoveItem(ctx, f.salon.ID, order.ID, serviceItemID)
	require.NoError(t, err)
	require.Equal(t, 70.0, order.FinalValue)
	require.Len(t, order.Items, 1)

	var audited models.OrderItem
	require.NoError(t, f.db.Unscoped().First(&audited, serviceItemID).Error)
	require.True(t, audited.DeletedAt.Valid)
	require.Equal(t, 80.0, audited.Price)

	// Re-running reconciliation sees no non-deleted line for the (service,
	// staff) pair anymore and materializes a fresh one; the deleted row
	// stays excluded from the sum.
	order, err = svc.EnsureOrderForAppointment(ctx, f.salon.ID, appt.ID)
	require.NoError(t, err)
	require.Equal(t, 150.0, order.FinalValue) // 70 + fresh 80
	require.Len(t, order.Items, 2)
}

func TestAddItemValidation(t *testing.T) {
	f := newFixture(t)
	svc := f.orders(t)
	ctx := context.Background()

	appt := f.book(t, f.staff.ID, tomorrowAt(14, 0), f.haircut.ID)
	order, err := svc.EnsureOrderForAppointment(ctx, f.salon.ID, appt.ID)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, f.salon.ID, order.ID, models.AddOrderItemInput{Kind: models.ItemProduct})
	require.ErrorIs(t, err, ErrItemRefMissing)

	_, err = svc.AddItem(ctx, f.salon.ID, 9999, models.AddOrderItemInput{Kind: models.ItemProduct, ProductID: &f.shampoo.ID})
	require.ErrorIs(t, err, ErrOrderNotFound)

	_, err = svc.RemoveItem(ctx, f.salon.ID, order.ID, 9999)
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestCloseAndPayAreOneWay(t *testing.T) {
	f := newFixture(t)
	svc := f.orders(t)
	ctx := context.Background()

	appt := f.book(t, f.staff.ID, tomorrowAt(14, 0), f.haircut.ID)
	order, err := svc.EnsureOrderForAppointment(ctx, f.salon.ID, appt.ID)
	require.NoError(t, err)

	_, err = svc.PayOrder(ctx, f.salon.ID, order.ID)
	require.ErrorIs(t, err, ErrOrderNotClosed)

	closed, err := svc.CloseOrder(ctx, f.salon.ID, order.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)

	_, err = svc.CloseOrder(ctx, f.salon.ID, order.ID)
	require.ErrorIs(t, err, ErrOrderNotOpen)

	// A closed order no longer accepts item mutations.
	_, err = svc.AddItem(ctx, f.salon.ID, order.ID, models.AddOrderItemInput{Kind: models.ItemProduct, ProductID: &f.shampoo.ID})
	require.ErrorIs(t, err, ErrOrderNotOpen)
	_, err = svc.RemoveItem(ctx, f.salon.ID, order.ID, closed.Items[0].ID)
	require.ErrorIs(t, err, ErrOrderNotOpen)

	paid, err := svc.PayOrder(ctx, f.salon.ID, order.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)

	_, err = svc.PayOrder(ctx, f.salon.ID, order.ID)
	require.ErrorIs(t, err, ErrOrderNotClosed)
}

func TestCloseDerivesCommissionRecords(t *testing.T) {
	f := newFixture(t)
	svc := f.orders(t)
	ctx := context.Background()

	appt := f.book(t, f.staff.ID, tomorrowAt(14, 0), f.haircut.ID, f.color.ID)
	order, err := svc.EnsureOrderForAppointment(ctx, f.salon.ID, appt.ID)
	require.NoError(t, err)

	// A product sold by Blake rides along on the same tab.
	order, err = svc.AddItem(ctx, f.salon.ID, order.ID, models.AddOrderItemInput{
		Kind:           models.ItemProduct,
		ProductID:      &f.shampoo.ID,
		CollaboratorID: &f.staffB.ID,
	})
	require.NoError(t, err)

	_, err = svc.CloseOrder(ctx, f.salon.ID, order.ID)
	require.NoError(t, err)

	var records []models.CommissionRecord
	require.NoError(t, f.db.Where("order_id = ?", order.ID).Order("amount desc").Find(&records).Error)
	require.Len(t, records, 3)
	require.Equal(t, 12.0, records[0].Amount) // 10% of 120
	require.Equal(t, 8.0, records[1].Amount)  // 10% of 80
	require.Equal(t, 1.75, records[2].Amount) // 5% of 35
	for _, rec := range records {
		require.False(t, rec.Paid)
		require.NotNil(t, rec.PeriodStart)
	}
	require.Equal(t, f.staffB.ID, records[2].CollaboratorID)
}

func TestOrderTenantScoping(t *testing.T) {
	f := newFixture(t)
	svc := f.orders(t)
	ctx := context.Background()

	appt := f.book(t, f.staff.ID, tomorrowAt(14, 0), f.haircut.ID)
	order, err := svc.EnsureOrderForAppointment(ctx, f.salon.ID, appt.ID)
	require.NoError(t, err)

	_, err = svc.Get(ctx, f.other.ID, order.ID)
	require.ErrorIs(t, err, ErrOrderNotFound)
	_, err = svc.CloseOrder(ctx, f.other.ID, order.ID)
	require.ErrorIs(t, err, ErrOrderNotFound)
	_, err = svc.EnsureOrderForAppointment(ctx, f.other.ID, appt.ID)
	require.ErrorIs(t, err, ErrAppointmentNotFound)
}
