package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/ololchike/tourpay/internal/domain"
)

type ItineraryRepo struct {
	db *gorm.DB
}

func NewItineraryRepo(db *gorm.DB) domain.ItineraryRepository {
	return &ItineraryRepo{db: db}
}

func (r *ItineraryRepo) CreateInTx(ctx context.Context, tx *gorm.DB, items []domain.ItineraryItem) error {
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *ItineraryRepo) ListByBookingID(ctx context.Context, bookingID string) ([]domain.ItineraryItem, error) {
	var items []domain.ItineraryItem
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("day asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
