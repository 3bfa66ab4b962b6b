package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ololchike/tourpay/internal/domain"
)

type EarningRepo struct {
	db *gorm.DB
}

func NewEarningRepo(db *gorm.DB) domain.EarningRepository {
	return &EarningRepo{db: db}
}

func (r *EarningRepo) CreateInTx(ctx context.Context, tx *gorm.DB, earning *domain.AgentEarning) error {
	return tx.WithContext(ctx).Create(earning).Error
}

func (r *EarningRepo) FindByPaymentID(ctx context.Context, paymentID string) (*domain.AgentEarning, error) {
	var earning domain.AgentEarning
	err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&earning).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &earning, nil
}
