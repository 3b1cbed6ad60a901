package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salonflow-backend/internal/payments"
	"salonflow-backend/internal/services"
	"salonflow-backend/pkg/utils"
)

// PaymentHandler receives the gateway's server-to-server notification and
// maps a settled payment onto the closed -> paid transition.
type PaymentHandler struct {
	orders *services.OrderService
	log    *zap.Logger
}

func NewPaymentHandler(orders *services.OrderService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{orders: orders, log: log}
}

func (h *PaymentHandler) HandleNotification(c *gin.Context) {
	var notification payments.Notification
	if err := c.ShouldBindJSON(&notification); err != nil {
		utils.APIError(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid JSON")
		return
	}

	h.log.Info("payment notification received",
		zap.String("order_no", notification.OrderID),
		zap.String("transaction_status", notification.TransactionStatus),
		zap.String("fraud_status", notification.FraudStatus))

	order, err := h.orders.GetByOrderNo(c.Request.Context(), notification.OrderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if !notification.Settled() {
		// Pending, denied or expired: nothing to transition; the order stays
		// closed until the client retries.
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	if _, err := h.orders.PayOrder(c.Request.Context(), order.SalonID, order.ID); err != nil {
		// A repeated settlement webhook hits ErrOrderNotClosed on an already
		// paid order; acknowledge so the gateway stops retrying.
		h.log.Warn("webhook pay transition skipped",
			zap.String("order_no", notification.OrderID),
			zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
