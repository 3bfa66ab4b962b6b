package migrations

import (
	"gorm.io/gorm"

	"github.com/ololchike/tourpay/internal/domain"
)

func init() {
	Register(Migration{
		ID: "005_create_itinerary_items",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&domain.ItineraryItem{})
		},
	})
}
