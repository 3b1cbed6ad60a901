package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"salonflow-backend/internal/middleware"
	"salonflow-backend/internal/models"
	"salonflow-backend/pkg/utils"
)

type CollaboratorHandler struct {
	db *gorm.DB
}

func NewCollaboratorHandler(db *gorm.DB) *CollaboratorHandler {
	return &CollaboratorHandler{db: db}
}

func (h *CollaboratorHandler) List(c *gin.Context) {
	var staff []models.Collaborator
	if err := h.db.Where("salon_id = ? AND active = ?", middleware.SalonID(c), true).
		Order("name asc").Find(&staff).Error; err != nil {
		utils.APIError(c, http.StatusInternalServerError, "INTERNAL", "Could not list collaborators")
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Collaborators", staff)
}

// ToggleActive flips availability. Inactive collaborators cannot take new
// bookings; existing appointments are untouched.
func (h *CollaboratorHandler) ToggleActive(c *gin.Context) {
	var collaborator models.Collaborator
	if err := h.db.Where("salon_id = ?", middleware.SalonID(c)).
		First(&collaborator, utils.StringToUint64(c.Param("id"))).Error; err != nil {
		utils.APIError(c, http.StatusNotFound, "COLLABORATOR_NOT_FOUND", "Collaborator not found")
		return
	}

	collaborator.Active = !collaborator.Active
	if err := h.db.Save(&collaborator).Error; err != nil {
		utils.APIError(c, http.StatusInternalServerError, "INTERNAL", "Could not update collaborator")
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Collaborator updated", collaborator)
}
