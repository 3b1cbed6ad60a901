package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"salonflow-backend/internal/models"
)

// seedRecord inserts an unpaid ledger row directly.
func seedRecord(t *testing.T, f *fixture, staffID uint64, amount float64, createdAt time.Time) models.CommissionRecord {
	t.Helper()
	period := createdAt
	rec := models.CommissionRecord{
		SalonID:        f.salon.ID,
		CollaboratorID: staffID,
		OrderID:        1,
		OrderItemID:    1,
		Amount:         amount,
		PeriodStart:    &period,
	}
	require.NoError(t, f.db.Create(&rec).Error)
	require.NoError(t, f.db.Model(&rec).Update("created_at", createdAt).Error)
	return rec
}

func TestPendingGroupsByCollaboratorSortedByTotal(t *testing.T) {
	f := newFixture(t)
	svc := f.commissions(t)
	ctx := context.Background()

	now := time.Now()
	seedRecord(t, f, f.staff.ID, 8, now.Add(-48*time.Hour))
	seedRecord(t, f, f.staff.ID, 12, now.Add(-24*time.Hour))
	seedRecord(t, f, f.staffB.ID, 30, now.Add(-24*time.Hour))

	groups, err := svc.PendingByCollaborator(ctx, f.salon.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	require.Equal(t, f.staffB.ID, groups[0].CollaboratorID)
	require.Equal(t, 30.0, groups[0].TotalAmount)
	require.Equal(t, "Blake", groups[0].CollaboratorName)

	require.Equal(t, f.staff.ID, groups[1].CollaboratorID)
	require.Equal(t, 20.0, groups[1].TotalAmount)
	require.Len(t, groups[1].Records, 2)
}

func TestPendingRespectsDateRange(t *testing.T) {
	f := newFixture(t)
	svc := f.commissions(t)
	ctx := context.Background()

	now := time.Now()
	seedRecord(t, f, f.staff.ID, 8, now.Add(-72*time.Hour))
	seedRecord(t, f, f.staff.ID, 12, now.Add(-1*time.Hour))

	from := now.Add(-24 * time.Hour)
	groups, err := svc.PendingByCollaborator(ctx, f.salon.ID, &from, nil)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Equal(t, 12.0, groups[0].TotalAmount)
	require.Len(t, groups[0].Records, 1)
}

func TestPendingExcludesPaidRecords(t *testing.T) {
	f := newFixture(t)
	svc := f.commissions(t)
	ctx := context.Background()

	seedRecord(t, f, f.staff.ID, 8, time.Now())
	_, err := svc.Pay(ctx, f.salon.ID, f.staff.ID, nil, nil, nil)
	require.NoError(t, err)

	groups, err := svc.PendingByCollaborator(ctx, f.salon.ID, nil, nil)
	require.NoError(t, err)
	require.Empty(t, groups)
}

func TestPayAllUnpaidRecords(t *testing.T) {
	f := newFixture(t)
	svc := f.commissions(t)
	ctx := context.Background()

	now := time.Now()
	oldest := now.Add(-72 * time.Hour)
	seedRecord(t, f, f.staff.ID, 8, oldest)
	seedRecord(t, f, f.staff.ID, 12, now.Add(-24*time.Hour))
	other := seedRecord(t, f, f.staffB.ID, 30, now.Add(-24*time.Hour))

	payment, err := svc.Pay(ctx, f.salon.ID, f.staff.ID, nil, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 20.0, payment.Amount)
	require.NotEmpty(t, payment.ReferenceNo)
	// Default period: oldest record's period start through now.
	require.WithinDuration(t, oldest, payment.PeriodStart, time.Second)
	require.WithinDuration(t, now, payment.PeriodEnd, 5*time.Second)

	var records []models.CommissionRecord
	require.NoError(t, f.db.Where("collaborator_id = ?", f.staff.ID).Find(&records).Error)
	for _, rec := range records {
		require.True(t, rec.Paid)
		require.NotNil(t, rec.PaymentID)
		require.Equal(t, payment.ID, *rec.PaymentID)
		require.NotNil(t, rec.PaidAt)
	}

	// Blake's record is untouched.
	var blake models.CommissionRecord
	require.NoError(t, f.db.First(&blake, other.ID).Error)
	require.False(t, blake.Paid)
}

func TestPaySelectedRecordsOnly(t *testing.T) {
	f := newFixture(t)
	svc := f.commissions(t)
	ctx := context.Background()

	first := seedRecord(t, f, f.staff.ID, 8, time.Now().Add(-48*time.Hour))
	second := seedRecord(t, f, f.staff.ID, 12, time.Now().Add(-24*time.Hour))

	payment, err := svc.Pay(ctx, f.salon.ID, f.staff.ID, []uint64{first.ID}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 8.0, payment.Amount)

	var remaining models.CommissionRecord
	require.NoError(t, f.db.First(&remaining, second.ID).Error)
	require.False(t, remaining.Paid)
}

func TestPayExplicitPeriod(t *testing.T) {
	f := newFixture(t)
	svc := f.commissions(t)
	ctx := context.Background()

	seedRecord(t, f, f.staff.ID, 8, time.Now())

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)
	payment, err := svc.Pay(ctx, f.salon.ID, f.staff.ID, nil, &start, &end)
	require.NoError(t, err)
	require.True(t, payment.PeriodStart.Equal(start))
	require.True(t, payment.PeriodEnd.Equal(end))
}

func TestPayFailsWithoutPendingRecords(t *testing.T) {
	f := newFixture(t)
	svc := f.commissions(t)
	ctx := context.Background()

	_, err := svc.Pay(ctx, f.salon.ID, f.staff.ID, nil, nil, nil)
	require.ErrorIs(t, err, ErrNoPendingCommissions)

	// Paid records never enter a second batch.
	seedRecord(t, f, f.staff.ID, 8, time.Now())
	_, err = svc.Pay(ctx, f.salon.ID, f.staff.ID, nil, nil, nil)
	require.NoError(t, err)
	_, err = svc.Pay(ctx, f.salon.ID, f.staff.ID, nil, nil, nil)
	require.ErrorIs(t, err, ErrNoPendingCommissions)
}

func TestPaidAmountIsImmutable(t *testing.T) {
	f := newFixture(t)
	svc := f.commissions(t)
	ctx := context.Background()

	rec := seedRecord(t, f, f.staff.ID, 8, time.Now())
	payment, err := svc.Pay(ctx, f.salon.ID, f.staff.ID, nil, nil, nil)
	require.NoError(t, err)

	// Selecting an already-paid record again matches nothing.
	_, err = svc.Pay(ctx, f.salon.ID, f.staff.ID, []uint64{rec.ID}, nil, nil)
	require.ErrorIs(t, err, ErrNoPendingCommissions)

	var reloaded models.CommissionRecord
	require.NoError(t, f.db.First(&reloaded, rec.ID).Error)
	require.Equal(t, 8.0, reloaded.Amount)
	require.Equal(t, payment.ID, *reloaded.PaymentID)
}

func TestHistoryListsBatches(t *testing.T) {
	f := newFixture(t)
	svc := f.commissions(t)
	ctx := context.Background()

	seedRecord(t, f, f.staff.ID, 8, time.Now())
	_, err := svc.Pay(ctx, f.salon.ID, f.staff.ID, nil, nil, nil)
	require.NoError(t, err)

	history, err := svc.History(ctx, f.salon.ID, f.staff.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, 8.0, history[0].Amount)
	require.Len(t, history[0].Records, 1)
}
