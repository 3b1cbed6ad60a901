package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"salonflow-backend/internal/middleware"
	"salonflow-backend/internal/models"
	"salonflow-backend/internal/services"
	"salonflow-backend/pkg/utils"
)

type AppointmentHandler struct {
	svc *services.AppointmentService
}

func NewAppointmentHandler(svc *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var input models.CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	if input.Origin == "" {
		input.Origin = "app"
	}

	appt, err := h.svc.Create(c.Request.Context(), middleware.SalonID(c), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.APIResponse(c, http.StatusCreated, true, "Appointment booked", appt)
}

func (h *AppointmentHandler) Edit(c *gin.Context) {
	var input models.EditAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	appt, err := h.svc.Edit(c.Request.Context(), middleware.SalonID(c), utils.StringToUint64(c.Param("id")), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Appointment updated", appt)
}

func (h *AppointmentHandler) Transition(c *gin.Context) {
	var input models.TransitionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	appt, err := h.svc.Transition(c.Request.Context(), middleware.SalonID(c), utils.StringToUint64(c.Param("id")), input.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Status updated", appt)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	appt, err := h.svc.Get(c.Request.Context(), middleware.SalonID(c), utils.StringToUint64(c.Param("id")))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Appointment", appt)
}

// ListByDay returns the agenda for ?date=2006-01-02, today when absent.
func (h *AppointmentHandler) ListByDay(c *gin.Context) {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.APIError(c, http.StatusBadRequest, "INVALID_INPUT", "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	appts, err := h.svc.ListByDay(c.Request.Context(), middleware.SalonID(c), day)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Agenda", appts)
}

// ResendNotification re-pushes the booking notification. A dispatch failure
// is a secondary warning, never the operation's failure.
func (h *AppointmentHandler) ResendNotification(c *gin.Context) {
	err := h.svc.ResendNotification(c.Request.Context(), middleware.SalonID(c), utils.StringToUint64(c.Param("id")))
	if err != nil {
		if services.ErrorCode(err) != "" {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, utils.Response{
			Success: true,
			Message: "Notification not delivered",
			Warning: "notification dispatch failed: " + err.Error(),
		})
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Notification sent", nil)
}

// NextAvailable suggests the least-loaded collaborator for a walk-in.
func (h *AppointmentHandler) NextAvailable(c *gin.Context) {
	staff, err := h.svc.NextAvailableCollaborator(c.Request.Context(), middleware.SalonID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Next available collaborator", staff)
}
