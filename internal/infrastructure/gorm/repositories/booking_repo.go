package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ololchike/tourpay/internal/domain"
	gormdb "github.com/ololchike/tourpay/internal/infrastructure/gorm"
)

type BookingRepo struct {
	db *gorm.DB
}

func NewBookingRepo(db *gorm.DB) domain.BookingRepository {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) conn(ctx context.Context) *gorm.DB {
	return gormdb.ExtractTx(ctx, r.db).WithContext(ctx)
}

func (r *BookingRepo) CreateInTx(ctx context.Context, tx *gorm.DB, booking *domain.Booking) error {
	return tx.WithContext(ctx).Create(booking).Error
}

func (r *BookingRepo) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	return r.findOne(r.conn(ctx), "id = ?", id)
}

func (r *BookingRepo) FindByIDInTx(ctx context.Context, tx *gorm.DB, id string) (*domain.Booking, error) {
	return r.findOne(tx.WithContext(ctx), "id = ?", id)
}

func (r *BookingRepo) FindByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	return r.findOne(r.conn(ctx), "reference = ?", reference)
}

func (r *BookingRepo) UpdateInTx(ctx context.Context, tx *gorm.DB, booking *domain.Booking) error {
	return tx.WithContext(ctx).Save(booking).Error
}

func (r *BookingRepo) findOne(db *gorm.DB, query string, arg string) (*domain.Booking, error) {
	var booking domain.Booking
	err := db.Where(query, arg).First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
