package services

import "errors"

// Closed error set for the scheduling and billing operations. Handlers map
// these 1:1 to wire codes with errors.Is instead of string matching.
var (
	ErrNoServices     = errors.New("appointment: at least one service required")
	ErrInvalidStart   = errors.New("appointment: invalid start date")
	ErrStartInPast    = errors.New("appointment: start must be in the future")
	ErrUnknownService = errors.New("appointment: invalid service ids")
	ErrClientNotFound = errors.New("appointment: client not found")
	ErrStaffNotFound  = errors.New("appointment: collaborator not found")
	ErrOverlap        = errors.New("appointment: overlapping appointment")
	ErrNotEditable    = errors.New("appointment: only pending appointments can be edited")
	ErrIllegalStatus  = errors.New("appointment: illegal status transition")

	ErrAppointmentNotFound = errors.New("appointment: not found")

	ErrOrderNotFound  = errors.New("order: not found")
	ErrOrderNotOpen   = errors.New("order: not open")
	ErrOrderNotClosed = errors.New("order: not closed")
	ErrItemNotFound   = errors.New("order: item not found")
	ErrItemRefMissing = errors.New("order: item reference missing for kind")

	ErrNoPendingCommissions = errors.New("commission: no pending commissions")
)

// ErrorCode returns the caller-visible code for a service error, or "" when
// the error is not part of the closed set.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNoServices):
		return "AT_LEAST_ONE_SERVICE_REQUIRED"
	case errors.Is(err, ErrInvalidStart):
		return "INVALID_START_DATE"
	case errors.Is(err, ErrStartInPast):
		return "START_MUST_BE_IN_FUTURE"
	case errors.Is(err, ErrUnknownService):
		return "INVALID_SERVICE_IDS"
	case errors.Is(err, ErrClientNotFound):
		return "CLIENT_NOT_FOUND"
	case errors.Is(err, ErrStaffNotFound):
		return "COLLABORATOR_NOT_FOUND"
	case errors.Is(err, ErrOverlap):
		return "OVERLAPPING_APPOINTMENT"
	case errors.Is(err, ErrNotEditable):
		return "NOT_EDITABLE"
	case errors.Is(err, ErrIllegalStatus):
		return "ILLEGAL_TRANSITION"
	case errors.Is(err, ErrAppointmentNotFound):
		return "APPOINTMENT_NOT_FOUND"
	case errors.Is(err, ErrOrderNotFound):
		return "ORDER_NOT_FOUND"
	case errors.Is(err, ErrOrderNotOpen):
		return "ORDER_NOT_OPEN"
	case errors.Is(err, ErrOrderNotClosed):
		return "ORDER_NOT_CLOSED"
	case errors.Is(err, ErrItemNotFound):
		return "ITEM_NOT_FOUND"
	case errors.Is(err, ErrItemRefMissing):
		return "ITEM_REFERENCE_MISSING"
	case errors.Is(err, ErrNoPendingCommissions):
		return "NO_PENDING_COMMISSIONS"
	}
	return ""
}
