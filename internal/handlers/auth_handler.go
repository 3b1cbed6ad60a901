package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"salonflow-backend/internal/middleware"
	"salonflow-backend/internal/models"
	"salonflow-backend/pkg/utils"
)

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.APIError(c, http.StatusInternalServerError, "INTERNAL", "Could not hash password")
		return
	}

	role := input.Role
	if role == "" {
		role = models.RoleStaff
	}
	collaborator := models.Collaborator{
		SalonID:      input.SalonID,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Phone:        input.Phone,
		Role:         role,
		Active:       true,
	}
	if err := h.db.Create(&collaborator).Error; err != nil {
		utils.APIError(c, http.StatusConflict, "EMAIL_TAKEN", "Email already registered")
		return
	}

	utils.APIResponse(c, http.StatusCreated, true, "Registered", collaborator)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	var collaborator models.Collaborator
	if err := h.db.Where("email = ?", input.Email).First(&collaborator).Error; err != nil {
		utils.APIError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Wrong email or password")
		return
	}
	if !utils.CheckPassword(input.Password, collaborator.PasswordHash) {
		utils.APIError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Wrong email or password")
		return
	}

	token, err := utils.GenerateToken(collaborator.ID, collaborator.SalonID, string(collaborator.Role))
	if err != nil {
		utils.APIError(c, http.StatusInternalServerError, "INTERNAL", "Could not generate token")
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Logged in", gin.H{
		"token":        token,
		"collaborator": collaborator,
	})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	var collaborator models.Collaborator
	if err := h.db.Where("salon_id = ?", middleware.SalonID(c)).
		First(&collaborator, middleware.CollaboratorID(c)).Error; err != nil {
		utils.APIError(c, http.StatusNotFound, "COLLABORATOR_NOT_FOUND", "Profile not found")
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Profile", collaborator)
}

// UpdateFCMToken stores the device token used by the notification dispatcher.
func (h *AuthHandler) UpdateFCMToken(c *gin.Context) {
	var input struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	err := h.db.Model(&models.Collaborator{}).
		Where("salon_id = ? AND id = ?", middleware.SalonID(c), middleware.CollaboratorID(c)).
		Update("fcm_token", input.Token).Error
	if err != nil {
		utils.APIError(c, http.StatusInternalServerError, "INTERNAL", "Could not update token")
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Token updated", nil)
}
