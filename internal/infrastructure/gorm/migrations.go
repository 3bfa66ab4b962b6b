package gormdb

import (
	"gorm.io/gorm"

	"github.com/ololchike/tourpay/internal/infrastructure/gorm/migrations"
)

func RunMigrations(db *gorm.DB) error {
	return migrations.Run(db)
}
