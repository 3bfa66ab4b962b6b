package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/ololchike/tourpay/internal/domain"
)

type AuditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) domain.AuditRepository {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) CreateInTx(ctx context.Context, tx *gorm.DB, entry *domain.AuditLog) error {
	return tx.WithContext(ctx).Create(entry).Error
}
