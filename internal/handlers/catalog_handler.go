package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"salonflow-backend/internal/middleware"
	"salonflow-backend/internal/models"
	"salonflow-backend/pkg/utils"
)

// CatalogHandler is the thin CRUD around services and products. Deactivation
// is gated by the permission check in the route table.
type CatalogHandler struct {
	db *gorm.DB
}

func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	var input models.CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	svc := models.Service{
		SalonID:         middleware.SalonID(c),
		Name:            input.Name,
		DurationMinutes: input.DurationMinutes,
		Price:           input.Price,
		CommissionRate:  input.CommissionRate,
		Active:          true,
	}
	if err := h.db.Create(&svc).Error; err != nil {
		utils.APIError(c, http.StatusInternalServerError, "INTERNAL", "Could not save service")
		return
	}
	utils.APIResponse(c, http.StatusCreated, true, "Service created", svc)
}

func (h *CatalogHandler) ListServices(c *gin.Context) {
	var services []models.Service
	if err := h.db.Where("salon_id = ? AND active = ?", middleware.SalonID(c), true).
		Order("name asc").Find(&services).Error; err != nil {
		utils.APIError(c, http.StatusInternalServerError, "INTERNAL", "Could not list services")
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Services", services)
}

func (h *CatalogHandler) UpdateService(c *gin.Context) {
	var svc models.Service
	if err := h.db.Where("salon_id = ?", middleware.SalonID(c)).
		First(&svc, utils.StringToUint64(c.Param("id"))).Error; err != nil {
		utils.APIError(c, http.StatusNotFound, "SERVICE_NOT_FOUND", "Service not found")
		return
	}

	var input models.CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	svc.Name = input.Name
	svc.DurationMinutes = input.DurationMinutes
	svc.Price = input.Price
	svc.CommissionRate = input.CommissionRate
	if err := h.db.Save(&svc).Error; err != nil {
		utils.APIError(c, http.StatusInternalServerError, "INTERNAL", "Could not update service")
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Service updated", svc)
}

// DeactivateService flips the active flag off; booked history keeps its
// price snapshots, so nothing else moves.
func (h *CatalogHandler) DeactivateService(c *gin.Context) {
	result := h.db.Model(&models.Service{}).
		Where("salon_id = ? AND id = ?", middleware.SalonID(c), utils.StringToUint64(c.Param("id"))).
		Update("active", false)
	if result.Error != nil {
		utils.APIError(c, http.StatusInternalServerError, "INTERNAL", "Could not deactivate service")
		return
	}
	if result.RowsAffected == 0 {
		utils.APIError(c, http.StatusNotFound, "SERVICE_NOT_FOUND", "Service not found")
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Service deactivated", nil)
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var input models.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	prod := models.Product{
		SalonID:        middleware.SalonID(c),
		Name:           input.Name,
		Price:          input.Price,
		CommissionRate: input.CommissionRate,
		Active:         true,
	}
	if err := h.db.Create(&prod).Error; err != nil {
		utils.APIError(c, http.StatusInternalServerError, "INTERNAL", "Could not save product")
		return
	}
	utils.APIResponse(c, http.StatusCreated, true, "Product created", prod)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var products []models.Product
	if err := h.db.Where("salon_id = ? AND active = ?", middleware.SalonID(c), true).
		Order("name asc").Find(&products).Error; err != nil {
		utils.APIError(c, http.StatusInternalServerError, "INTERNAL", "Could not list products")
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Products", products)
}

func (h *CatalogHandler) DeactivateProduct(c *gin.Context) {
	result := h.db.Model(&models.Product{}).
		Where("salon_id = ? AND id = ?", middleware.SalonID(c), utils.StringToUint64(c.Param("id"))).
		Update("active", false)
	if result.Error != nil {
		utils.APIError(c, http.StatusInternalServerError, "INTERNAL", "Could not deactivate product")
		return
	}
	if result.RowsAffected == 0 {
		utils.APIError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Product deactivated", nil)
}
