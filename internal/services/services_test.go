package services

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"salonflow-backend/internal/config"
	"salonflow-backend/internal/models"
)

// newTestDB opens an in-memory SQLite database pinned to one connection so
// every transaction sees the same store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))
	return db
}

// fixture seeds one salon with a client, two collaborators and a small
// catalog: haircut (30 min, 80, 10% commission), coloring (45 min, 120, 10%)
// and a retail product (35, 5%).
type fixture struct {
	db      *gorm.DB
	salon   models.Salon
	other   models.Salon
	client  models.Client
	staff   models.Collaborator
	staffB  models.Collaborator
	haircut models.Service
	color   models.Service
	beard   models.Service
	shampoo models.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{db: newTestDB(t)}

	f.salon = models.Salon{Name: "Studio One"}
	require.NoError(t, f.db.Create(&f.salon).Error)
	f.other = models.Salon{Name: "Studio Two"}
	require.NoError(t, f.db.Create(&f.other).Error)

	f.client = models.Client{SalonID: f.salon.ID, Name: "Dana", Phone: "555-0101", Email: "dana@example.com"}
	require.NoError(t, f.db.Create(&f.client).Error)

	f.staff = models.Collaborator{SalonID: f.salon.ID, Name: "Alex", Email: "alex@example.com", PasswordHash: "x", Role: models.RoleStaff, Active: true}
	require.NoError(t, f.db.Create(&f.staff).Error)
	f.staffB = models.Collaborator{SalonID: f.salon.ID, Name: "Blake", Email: "blake@example.com", PasswordHash: "x", Role: models.RoleStaff, Active: true}
	require.NoError(t, f.db.Create(&f.staffB).Error)

	f.haircut = models.Service{SalonID: f.salon.ID, Name: "Haircut", DurationMinutes: 30, Price: 80, CommissionRate: 10, Active: true}
	require.NoError(t, f.db.Create(&f.haircut).Error)
	f.color = models.Service{SalonID: f.salon.ID, Name: "Coloring", DurationMinutes: 45, Price: 120, CommissionRate: 10, Active: true}
	require.NoError(t, f.db.Create(&f.color).Error)
	f.beard = models.Service{SalonID: f.salon.ID, Name: "Beard Trim", DurationMinutes: 30, Price: 40, CommissionRate: 10, Active: true}
	require.NoError(t, f.db.Create(&f.beard).Error)

	f.shampoo = models.Product{SalonID: f.salon.ID, Name: "Shampoo", Price: 35, CommissionRate: 5, Active: true}
	require.NoError(t, f.db.Create(&f.shampoo).Error)

	return f
}

func (f *fixture) appointments(t *testing.T) *AppointmentService {
	t.Helper()
	return NewAppointmentService(f.db, zap.NewNop(), nil)
}

func (f *fixture) orders(t *testing.T) *OrderService {
	t.Helper()
	return NewOrderService(f.db, zap.NewNop())
}

func (f *fixture) commissions(t *testing.T) *CommissionService {
	t.Helper()
	return NewCommissionService(f.db, zap.NewNop())
}

// tomorrowAt returns tomorrow at the given wall-clock time, always in the
// future relative to the resolver's now-check.
func tomorrowAt(hour, minute int) time.Time {
	next := time.Now().UTC().Add(24 * time.Hour)
	return time.Date(next.Year(), next.Month(), next.Day(), hour, minute, 0, 0, time.UTC)
}

// book creates a pending appointment for the fixture's client.
func (f *fixture) book(t *testing.T, staffID uint64, start time.Time, serviceIDs ...uint64) *models.Appointment {
	t.Helper()
	appt, err := f.appointments(t).Create(context.Background(), f.salon.ID, models.CreateAppointmentInput{
		ClientID:       f.client.ID,
		CollaboratorID: staffID,
		ServiceIDs:     serviceIDs,
		StartAt:        start.Format(time.RFC3339),
		Origin:         "app",
	})
	require.NoError(t, err)
	return appt
}
