package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"salonflow-backend/internal/services"
	"salonflow-backend/pkg/utils"
)

// respondServiceError maps a service error onto the wire: validation errors
// are 400, not-found 404, conflicts 409, anything outside the closed set 500.
func respondServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNoServices),
		errors.Is(err, services.ErrInvalidStart),
		errors.Is(err, services.ErrStartInPast),
		errors.Is(err, services.ErrUnknownService),
		errors.Is(err, services.ErrItemRefMissing),
		errors.Is(err, services.ErrNoPendingCommissions):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrClientNotFound),
		errors.Is(err, services.ErrStaffNotFound),
		errors.Is(err, services.ErrAppointmentNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrOverlap),
		errors.Is(err, services.ErrNotEditable),
		errors.Is(err, services.ErrIllegalStatus),
		errors.Is(err, services.ErrOrderNotOpen),
		errors.Is(err, services.ErrOrderNotClosed):
		status = http.StatusConflict
	}

	code := services.ErrorCode(err)
	if code == "" {
		code = "INTERNAL"
		utils.APIError(c, status, code, "Something went wrong")
		return
	}
	utils.APIError(c, status, code, err.Error())
}
