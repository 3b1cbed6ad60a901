package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"salonflow-backend/internal/middleware"
	"salonflow-backend/internal/models"
	"salonflow-backend/pkg/utils"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

func (h *ClientHandler) Create(c *gin.Context) {
	var input models.CreateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	client := models.Client{
		SalonID: middleware.SalonID(c),
		Name:    input.Name,
		Phone:   input.Phone,
		Email:   input.Email,
		Notes:   input.Notes,
	}
	if err := h.db.Create(&client).Error; err != nil {
		utils.APIError(c, http.StatusInternalServerError, "INTERNAL", "Could not save client")
		return
	}
	utils.APIResponse(c, http.StatusCreated, true, "Client created", client)
}

func (h *ClientHandler) List(c *gin.Context) {
	var clients []models.Client
	q := h.db.Where("salon_id = ?", middleware.SalonID(c)).Order("name asc")
	if search := c.Query("q"); search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}
	if err := q.Find(&clients).Error; err != nil {
		utils.APIError(c, http.StatusInternalServerError, "INTERNAL", "Could not list clients")
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Clients", clients)
}

func (h *ClientHandler) Get(c *gin.Context) {
	var client models.Client
	if err := h.db.Where("salon_id = ?", middleware.SalonID(c)).
		First(&client, utils.StringToUint64(c.Param("id"))).Error; err != nil {
		utils.APIError(c, http.StatusNotFound, "CLIENT_NOT_FOUND", "Client not found")
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Client", client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	var client models.Client
	if err := h.db.Where("salon_id = ?", middleware.SalonID(c)).
		First(&client, utils.StringToUint64(c.Param("id"))).Error; err != nil {
		utils.APIError(c, http.StatusNotFound, "CLIENT_NOT_FOUND", "Client not found")
		return
	}

	var input models.CreateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	client.Name = input.Name
	client.Phone = input.Phone
	client.Email = input.Email
	client.Notes = input.Notes
	if err := h.db.Save(&client).Error; err != nil {
		utils.APIError(c, http.StatusInternalServerError, "INTERNAL", "Could not update client")
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Client updated", client)
}
