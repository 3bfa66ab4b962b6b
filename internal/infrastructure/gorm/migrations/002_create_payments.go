package migrations

import (
	"gorm.io/gorm"

	"github.com/ololchike/tourpay/internal/domain"
)

func init() {
	Register(Migration{
		ID: "002_create_payments",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&domain.Payment{})
		},
	})
}
