package gormdb

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ololchike/tourpay/internal/domain"
)

func NewTestConnection() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	db.AutoMigrate(
		&domain.Booking{},
		&domain.Payment{},
		&domain.AgentEarning{},
		&domain.AuditLog{},
		&domain.ItineraryItem{},
	)
	return db, nil
}
