package services

import "salonflow-backend/internal/models"

// appointmentTransitions is the full lifecycle. canceled, no_show and
// not_paid are terminal.
var appointmentTransitions = map[models.AppointmentStatus][]models.AppointmentStatus{
	models.AppointmentPending:    {models.AppointmentInProgress, models.AppointmentCanceled, models.AppointmentNoShow},
	models.AppointmentInProgress: {models.AppointmentCompleted, models.AppointmentNotPaid},
	models.AppointmentCompleted:  {models.AppointmentNotPaid},
	models.AppointmentCanceled:   {},
	models.AppointmentNoShow:     {},
	models.AppointmentNotPaid:    {},
}

func canTransition(from, to models.AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func isValidStatus(s models.AppointmentStatus) bool {
	_, ok := appointmentTransitions[s]
	return ok
}

// blockingStatuses reserve the collaborator's time and take part in overlap
// checks. Everything except canceled and no_show blocks.
var blockingStatuses = []models.AppointmentStatus{
	models.AppointmentPending,
	models.AppointmentInProgress,
	models.AppointmentCompleted,
	models.AppointmentNotPaid,
}
