package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"salonflow-backend/internal/models"
)

// LoadEnv reads .env when present; real deployments set env vars directly.
func LoadEnv() {
	_ = godotenv.Load()
}

// ConnectDB opens the MySQL connection and runs migrations. The handle is
// returned, not stored in a package global, so every component receives it
// explicitly.
func ConnectDB() (*gorm.DB, error) {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			envOr("DB_HOST", "127.0.0.1"),
			envOr("DB_PORT", "3306"),
			envOr("DB_NAME", "salonflow"),
		)
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate keeps the schema in sync with the models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Salon{},
		&models.Client{},
		&models.Collaborator{},
		&models.Service{},
		&models.Product{},
		&models.Appointment{},
		&models.Order{},
		&models.OrderItem{},
		&models.CommissionRecord{},
		&models.CommissionPayment{},
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
