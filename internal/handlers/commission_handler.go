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

type CommissionHandler struct {
	svc *services.CommissionService
}

func NewCommissionHandler(svc *services.CommissionService) *CommissionHandler {
	return &CommissionHandler{svc: svc}
}

// Pending lists unpaid commissions grouped per collaborator. Optional
// ?from=/&to= RFC 3339 bounds.
func (h *CommissionHandler) Pending(c *gin.Context) {
	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.APIError(c, http.StatusBadRequest, "INVALID_INPUT", "from must be RFC 3339")
			return
		}
		from = &parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.APIError(c, http.StatusBadRequest, "INVALID_INPUT", "to must be RFC 3339")
			return
		}
		to = &parsed
	}

	groups, err := h.svc.PendingByCollaborator(c.Request.Context(), middleware.SalonID(c), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Pending commissions", groups)
}

func (h *CommissionHandler) Pay(c *gin.Context) {
	var input models.PayCommissionsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	var periodStart, periodEnd *time.Time
	if input.PeriodStart != nil {
		parsed, err := time.Parse(time.RFC3339, *input.PeriodStart)
		if err != nil {
			utils.APIError(c, http.StatusBadRequest, "INVALID_INPUT", "period_start must be RFC 3339")
			return
		}
		periodStart = &parsed
	}
	if input.PeriodEnd != nil {
		parsed, err := time.Parse(time.RFC3339, *input.PeriodEnd)
		if err != nil {
			utils.APIError(c, http.StatusBadRequest, "INVALID_INPUT", "period_end must be RFC 3339")
			return
		}
		periodEnd = &parsed
	}

	payment, err := h.svc.Pay(c.Request.Context(), middleware.SalonID(c),
		input.CollaboratorID, input.RecordIDs, periodStart, periodEnd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.APIResponse(c, http.StatusCreated, true, "Commissions paid", payment)
}

func (h *CommissionHandler) History(c *gin.Context) {
	payments, err := h.svc.History(c.Request.Context(), middleware.SalonID(c), utils.StringToUint64(c.Param("id")))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Payment history", payments)
}
