package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salonflow-backend/internal/middleware"
	"salonflow-backend/internal/models"
	"salonflow-backend/internal/payments"
	"salonflow-backend/internal/services"
	"salonflow-backend/pkg/utils"
)

type OrderHandler struct {
	svc     *services.OrderService
	gateway payments.Gateway
	log     *zap.Logger
}

func NewOrderHandler(svc *services.OrderService, gateway payments.Gateway, log *zap.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, gateway: gateway, log: log}
}

// EnsureOrder attaches (or creates) the billable order for an appointment.
// Safe to call repeatedly.
func (h *OrderHandler) EnsureOrder(c *gin.Context) {
	order, err := h.svc.EnsureOrderForAppointment(c.Request.Context(), middleware.SalonID(c), utils.StringToUint64(c.Param("id")))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Order", order)
}

func (h *OrderHandler) AddItem(c *gin.Context) {
	var input models.AddOrderItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	order, err := h.svc.AddItem(c.Request.Context(), middleware.SalonID(c), utils.StringToUint64(c.Param("id")), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Item added", order)
}

func (h *OrderHandler) RemoveItem(c *gin.Context) {
	order, err := h.svc.RemoveItem(c.Request.Context(), middleware.SalonID(c),
		utils.StringToUint64(c.Param("id")), utils.StringToUint64(c.Param("itemId")))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Item removed", order)
}

// Close finalizes the order and, when a payment gateway is configured, hands
// back a checkout link. A gateway failure degrades to a warning; the close
// itself already committed.
func (h *OrderHandler) Close(c *gin.Context) {
	order, err := h.svc.CloseOrder(c.Request.Context(), middleware.SalonID(c), utils.StringToUint64(c.Param("id")))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if h.gateway == nil {
		utils.APIResponse(c, http.StatusOK, true, "Order closed", order)
		return
	}

	checkout, err := h.gateway.CreateCheckout(order, &order.Client)
	if err != nil {
		h.log.Warn("checkout creation failed",
			zap.Uint64("order_id", order.ID),
			zap.Error(err))
		c.JSON(http.StatusOK, utils.Response{
			Success: true,
			Message: "Order closed",
			Warning: "could not create payment link",
			Data:    order,
		})
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Order closed", gin.H{
		"order":    order,
		"checkout": checkout,
	})
}

func (h *OrderHandler) Pay(c *gin.Context) {
	order, err := h.svc.PayOrder(c.Request.Context(), middleware.SalonID(c), utils.StringToUint64(c.Param("id")))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Order paid", order)
}

func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.svc.Get(c.Request.Context(), middleware.SalonID(c), utils.StringToUint64(c.Param("id")))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Order", order)
}

func (h *OrderHandler) ListByClient(c *gin.Context) {
	orders, err := h.svc.ListByClient(c.Request.Context(), middleware.SalonID(c), utils.StringToUint64(c.Param("id")))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Orders", orders)
}
