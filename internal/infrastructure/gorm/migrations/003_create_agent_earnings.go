package migrations

import (
	"gorm.io/gorm"

	"github.com/ololchike/tourpay/internal/domain"
)

func init() {
	Register(Migration{
		ID: "003_create_agent_earnings",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&domain.AgentEarning{})
		},
	})
}
