package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"salonflow-backend/internal/models"
	"salonflow-backend/internal/notify"
)

// AppointmentService owns the appointment lifecycle: slot validation, overlap
// checking, creation, pending-only edits and status transitions. All writes
// to appointment rows go through here.
type AppointmentService struct {
	db       *gorm.DB
	log      *zap.Logger
	notifier notify.Dispatcher
}

func NewAppointmentService(db *gorm.DB, log *zap.Logger, notifier notify.Dispatcher) *AppointmentService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &AppointmentService{db: db, log: log, notifier: notifier}
}

// resolveInterval validates the requested services and start instant and
// derives the candidate [start, end) slot. Pure read + arithmetic.
func resolveInterval(tx *gorm.DB, salonID uint64, serviceIDs []uint64, startRaw string) (time.Time, time.Time, []models.Service, error) {
	var zero time.Time
	if len(serviceIDs) == 0 {
		return zero, zero, nil, ErrNoServices
	}
	start, err := time.Parse(time.RFC3339, startRaw)
	if err != nil {
		return zero, zero, nil, ErrInvalidStart
	}
	if !start.After(time.Now()) {
		return zero, zero, nil, ErrStartInPast
	}

	var services []models.Service
	if err := tx.Where("salon_id = ? AND active = ? AND id IN ?", salonID, true, serviceIDs).
		Find(&services).Error; err != nil {
		return zero, zero, nil, err
	}
	// Any missing, inactive or cross-tenant id shows up as a count mismatch.
	if len(services) != len(serviceIDs) {
		return zero, zero, nil, ErrUnknownService
	}

	total := 0
	for _, svc := range services {
		total += svc.DurationMinutes
	}
	end := start.Add(time.Duration(total) * time.Minute)
	return start, end, services, nil
}

// hasConflict reports whether a blocking appointment of the same collaborator
// overlaps the half-open candidate interval. excludeID skips the appointment
// being edited. On MySQL the matched rows are locked FOR UPDATE so two
// concurrent bookings cannot both pass the check for the same slot; the
// SQLite test driver serializes writers on its own and rejects the clause.
func hasConflict(tx *gorm.DB, salonID, collaboratorID uint64, start, end time.Time, excludeID uint64) (bool, error) {
	q := tx.Model(&models.Appointment{}).
		Where("salon_id = ? AND collaborator_id = ?", salonID, collaboratorID).
		Where("status IN ?", blockingStatuses).
		Where("start_at < ? AND end_at > ?", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if tx.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *AppointmentService) Create(ctx context.Context, salonID uint64, in models.CreateAppointmentInput) (*models.Appointment, error) {
	var appt models.Appointment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.Where("salon_id = ?", salonID).First(&client, in.ClientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClientNotFound
			}
			return err
		}
		var staff models.Collaborator
		if err := tx.Where("salon_id = ? AND active = ?", salonID, true).First(&staff, in.CollaboratorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStaffNotFound
			}
			return err
		}

		start, end, services, err := resolveInterval(tx, salonID, in.ServiceIDs, in.StartAt)
		if err != nil {
			return err
		}

		conflict, err := hasConflict(tx, salonID, in.CollaboratorID, start, end, 0)
		if err != nil {
			return err
		}
		if conflict {
			return ErrOverlap
		}

		appt = models.Appointment{
			SalonID:        salonID,
			ClientID:       in.ClientID,
			CollaboratorID: in.CollaboratorID,
			StartAt:        start,
			EndAt:          end,
			Status:         models.AppointmentPending,
			Origin:         in.Origin,
			Notes:          in.Notes,
			Services:       services,
		}
		if err := tx.Create(&appt).Error; err != nil {
			return err
		}
		appt.Client = client
		appt.Collaborator = staff
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Post-commit hook: delivery failures are logged, never propagated.
	s.dispatchAsync(notify.Event{Type: notify.EventAppointmentCreated, Appointment: appt})

	return &appt, nil
}

// Edit applies a partial update to a pending appointment. Interval and
// overlap are re-validated even when only the staff or services change,
// excluding the appointment's own slot from the conflict check.
func (s *AppointmentService) Edit(ctx context.Context, salonID, id uint64, in models.EditAppointmentInput) (*models.Appointment, error) {
	var appt models.Appointment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Services").Where("salon_id = ?", salonID).First(&appt, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAppointmentNotFound
			}
			return err
		}
		if appt.Status != models.AppointmentPending {
			return ErrNotEditable
		}

		if in.ClientID != nil {
			var client models.Client
			if err := tx.Where("salon_id = ?", salonID).First(&client, *in.ClientID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrClientNotFound
				}
				return err
			}
			appt.ClientID = *in.ClientID
		}
		if in.CollaboratorID != nil {
			var staff models.Collaborator
			if err := tx.Where("salon_id = ? AND active = ?", salonID, true).First(&staff, *in.CollaboratorID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrStaffNotFound
				}
				return err
			}
			appt.CollaboratorID = *in.CollaboratorID
		}
		if in.Notes != nil {
			appt.Notes = *in.Notes
		}

		serviceIDs := make([]uint64, 0, len(appt.Services))
		for _, svc := range appt.Services {
			serviceIDs = append(serviceIDs, svc.ID)
		}
		if in.ServiceIDs != nil {
			serviceIDs = in.ServiceIDs
		}

		// When no new start is given the existing one is kept; otherwise the
		// new instant goes through the full resolver validation.
		if in.StartAt != nil {
			start, end, services, err := resolveInterval(tx, salonID, serviceIDs, *in.StartAt)
			if err != nil {
				return err
			}
			appt.StartAt, appt.EndAt = start, end
			appt.Services = services
		} else {
			if len(serviceIDs) == 0 {
				return ErrNoServices
			}
			var services []models.Service
			if err := tx.Where("salon_id = ? AND active = ? AND id IN ?", salonID, true, serviceIDs).
				Find(&services).Error; err != nil {
				return err
			}
			if len(services) != len(serviceIDs) {
				return ErrUnknownService
			}
			total := 0
			for _, svc := range services {
				total += svc.DurationMinutes
			}
			appt.EndAt = appt.StartAt.Add(time.Duration(total) * time.Minute)
			appt.Services = services
		}

		conflict, err := hasConflict(tx, salonID, appt.CollaboratorID, appt.StartAt, appt.EndAt, appt.ID)
		if err != nil {
			return err
		}
		if conflict {
			return ErrOverlap
		}

		if err := tx.Model(&appt).Association("Services").Replace(appt.Services); err != nil {
			return err
		}
		return tx.Model(&appt).Updates(map[string]interface{}{
			"client_id":       appt.ClientID,
			"collaborator_id": appt.CollaboratorID,
			"start_at":        appt.StartAt,
			"end_at":          appt.EndAt,
			"notes":           appt.Notes,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

// Transition moves the appointment to targetStatus when the state machine
// allows it. A single atomic status update; overlap is not re-validated
// (enforced only at creation/edit time).
func (s *AppointmentService) Transition(ctx context.Context, salonID, id uint64, target models.AppointmentStatus) (*models.Appointment, error) {
	var appt models.Appointment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("salon_id = ?", salonID).First(&appt, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAppointmentNotFound
			}
			return err
		}
		if !isValidStatus(target) || !canTransition(appt.Status, target) {
			return ErrIllegalStatus
		}
		appt.Status = target
		return tx.Model(&appt).Update("status", target).Error
	})
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (s *AppointmentService) Get(ctx context.Context, salonID, id uint64) (*models.Appointment, error) {
	var appt models.Appointment
	err := s.db.WithContext(ctx).
		Preload("Services").Preload("Client").Preload("Collaborator").
		Where("salon_id = ?", salonID).First(&appt, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return &appt, nil
}

// ListByDay returns the salon's appointments whose interval touches the given
// day, newest first.
func (s *AppointmentService) ListByDay(ctx context.Context, salonID uint64, day time.Time) ([]models.Appointment, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.Add(24 * time.Hour)

	var appts []models.Appointment
	err := s.db.WithContext(ctx).
		Preload("Services").Preload("Client").Preload("Collaborator").
		Where("salon_id = ? AND start_at < ? AND end_at > ?", salonID, to, from).
		Order("start_at asc").
		Find(&appts).Error
	return appts, err
}

// NextAvailableCollaborator picks the active collaborator with the fewest
// appointments created today. Round-robin heuristic for walk-in assignment,
// not a load-balance guarantee.
func (s *AppointmentService) NextAvailableCollaborator(ctx context.Context, salonID uint64) (*models.Collaborator, error) {
	var staff []models.Collaborator
	if err := s.db.WithContext(ctx).
		Where("salon_id = ? AND active = ?", salonID, true).
		Order("id asc").
		Find(&staff).Error; err != nil {
		return nil, err
	}
	if len(staff) == 0 {
		return nil, ErrStaffNotFound
	}

	dayStart := time.Now().Truncate(24 * time.Hour)
	type row struct {
		CollaboratorID uint64
		Total          int64
	}
	var rows []row
	if err := s.db.WithContext(ctx).Model(&models.Appointment{}).
		Select("collaborator_id, count(*) as total").
		Where("salon_id = ? AND created_at >= ?", salonID, dayStart).
		Group("collaborator_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[uint64]int64, len(rows))
	for _, r := range rows {
		counts[r.CollaboratorID] = r.Total
	}

	best := staff[0]
	for _, c := range staff[1:] {
		if counts[c.ID] < counts[best.ID] {
			best = c
		}
	}
	return &best, nil
}

// ResendNotification re-dispatches the created event synchronously so the
// handler can surface a delivery failure as a secondary warning.
func (s *AppointmentService) ResendNotification(ctx context.Context, salonID, id uint64) error {
	appt, err := s.Get(ctx, salonID, id)
	if err != nil {
		return err
	}
	return s.notifier.Dispatch(ctx, notify.Event{Type: notify.EventAppointmentResend, Appointment: *appt})
}

func (s *AppointmentService) dispatchAsync(event notify.Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.Dispatch(ctx, event); err != nil {
			s.log.Warn("appointment notification failed",
				zap.Uint64("appointment_id", event.Appointment.ID),
				zap.String("event", event.Type),
				zap.Error(err))
		}
	}()
}
