package notify

import (
	"context"

	"salonflow-backend/internal/models"
)

const (
	EventAppointmentCreated = "appointment.created"
	EventAppointmentResend  = "appointment.resend"
)

// Event is emitted by the booking flow after its transaction commits. The
// dispatcher runs outside any transaction; a delivery failure never rolls
// back or fails the booking.
type Event struct {
	Type        string
	Appointment models.Appointment
}

type Dispatcher interface {
	Dispatch(ctx context.Context, event Event) error
}

// Nop is used when no push credentials are configured (local dev, tests).
type Nop struct{}

func (Nop) Dispatch(ctx context.Context, event Event) error { return nil }
