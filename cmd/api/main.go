package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salonflow-backend/internal/config"
	"salonflow-backend/internal/handlers"
	"salonflow-backend/internal/notify"
	"salonflow-backend/internal/payments"
	"salonflow-backend/internal/routes"
	"salonflow-backend/internal/services"
	"salonflow-backend/pkg/utils"
)

func main() {
	config.LoadEnv()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}

	var dispatcher notify.Dispatcher = notify.Nop{}
	if creds := os.Getenv("FIREBASE_CREDENTIALS"); creds != "" {
		fcm, err := notify.NewFCMDispatcher(context.Background(), creds, log)
		if err != nil {
			log.Warn("fcm init failed, notifications disabled", zap.Error(err))
		} else {
			dispatcher = fcm
		}
	}

	var gateway payments.Gateway
	if key := os.Getenv("MIDTRANS_SERVER_KEY"); key != "" {
		gateway = payments.NewMidtransGateway(key)
	}

	appointments := services.NewAppointmentService(db, log, dispatcher)
	orders := services.NewOrderService(db, log)
	commissions := services.NewCommissionService(db, log)

	r := gin.Default()
	routes.SetupRoutes(r, routes.Handlers{
		Auth:         handlers.NewAuthHandler(db),
		Client:       handlers.NewClientHandler(db),
		Collaborator: handlers.NewCollaboratorHandler(db),
		Catalog:      handlers.NewCatalogHandler(db),
		Appointment:  handlers.NewAppointmentHandler(appointments),
		Order:        handlers.NewOrderHandler(orders, gateway, log),
		Commission:   handlers.NewCommissionHandler(commissions),
		Payment:      handlers.NewPaymentHandler(orders, log),
	})

	r.GET("/ping", func(c *gin.Context) {
		utils.APIResponse(c, 200, true, "Server OK", nil)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info("server listening", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
