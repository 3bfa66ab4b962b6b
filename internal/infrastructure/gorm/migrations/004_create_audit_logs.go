package migrations

import (
	"gorm.io/gorm"

	"github.com/ololchike/tourpay/internal/domain"
)

func init() {
	Register(Migration{
		ID: "004_create_audit_logs",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&domain.AuditLog{})
		},
	})
}
