package routes

import (
	"github.com/gin-gonic/gin"

	"salonflow-backend/internal/handlers"
	"salonflow-backend/internal/middleware"
)

// Handlers bundles everything the route table needs.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Client       *handlers.ClientHandler
	Collaborator *handlers.CollaboratorHandler
	Catalog      *handlers.CatalogHandler
	Appointment  *handlers.AppointmentHandler
	Order        *handlers.OrderHandler
	Commission   *handlers.CommissionHandler
	Payment      *handlers.PaymentHandler
}

func SetupRoutes(r *gin.Engine, h Handlers) {
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RateLimitMiddleware())

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}

		// Gateway webhook is unauthenticated; the gateway signs its own calls.
		api.POST("/payment/notification", h.Payment.HandleNotification)

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/profile", h.Auth.Profile)
			protected.PUT("/profile/fcm-token", h.Auth.UpdateFCMToken)

			protected.POST("/clients", h.Client.Create)
			protected.GET("/clients", h.Client.List)
			protected.GET("/clients/:id", h.Client.Get)
			protected.PUT("/clients/:id", h.Client.Update)
			protected.GET("/clients/:id/orders", h.Order.ListByClient)

			protected.GET("/collaborators", h.Collaborator.List)
			protected.PATCH("/collaborators/:id/active", h.Collaborator.ToggleActive)
			protected.GET("/collaborators/next-available", h.Appointment.NextAvailable)

			protected.POST("/services", h.Catalog.CreateService)
			protected.GET("/services", h.Catalog.ListServices)
			protected.PUT("/services/:id", h.Catalog.UpdateService)
			protected.DELETE("/services/:id", middleware.RequirePermission("catalog.delete"), h.Catalog.DeactivateService)
			protected.POST("/products", h.Catalog.CreateProduct)
			protected.GET("/products", h.Catalog.ListProducts)
			protected.DELETE("/products/:id", middleware.RequirePermission("catalog.delete"), h.Catalog.DeactivateProduct)

			protected.POST("/appointments", h.Appointment.Create)
			protected.GET("/appointments", h.Appointment.ListByDay)
			protected.GET("/appointments/:id", h.Appointment.Get)
			protected.PUT("/appointments/:id", h.Appointment.Edit)
			protected.PATCH("/appointments/:id/status", h.Appointment.Transition)
			protected.POST("/appointments/:id/notify", h.Appointment.ResendNotification)
			protected.POST("/appointments/:id/order", h.Order.EnsureOrder)

			protected.GET("/orders/:id", h.Order.Get)
			protected.POST("/orders/:id/items", h.Order.AddItem)
			protected.DELETE("/orders/:id/items/:itemId", h.Order.RemoveItem)
			protected.POST("/orders/:id/close", h.Order.Close)
			protected.POST("/orders/:id/pay", h.Order.Pay)

			protected.GET("/commissions/pending", h.Commission.Pending)
			protected.POST("/commissions/pay", h.Commission.Pay)
			protected.GET("/commissions/history/:id", h.Commission.History)
		}
	}
}
