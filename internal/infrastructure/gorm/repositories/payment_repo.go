package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ololchike/tourpay/internal/domain"
	gormdb "github.com/ololchike/tourpay/internal/infrastructure/gorm"
)

type PaymentRepo struct {
	db *gorm.DB
}

func NewPaymentRepo(db *gorm.DB) domain.PaymentRepository {
	return &PaymentRepo{db: db}
}

func (r *PaymentRepo) conn(ctx context.Context) *gorm.DB {
	return gormdb.ExtractTx(ctx, r.db).WithContext(ctx)
}

func (r *PaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	return r.conn(ctx).Create(payment).Error
}

func (r *PaymentRepo) CreateInTx(ctx context.Context, tx *gorm.DB, payment *domain.Payment) error {
	return tx.WithContext(ctx).Create(payment).Error
}

func (r *PaymentRepo) FindByProviderTxRef(ctx context.Context, ref string) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.conn(ctx).Where("provider_tx_ref = ?", ref).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepo) FindByProviderTxRefForUpdate(ctx context.Context, tx *gorm.DB, ref string) (*domain.Payment, error) {
	var payment domain.Payment
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("provider_tx_ref = ?", ref).
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// CompareAndSetStatus persists the payment's current field values guarded by
// the expected previous status, so two concurrent deliveries cannot both
// claim the same transition.
func (r *PaymentRepo) CompareAndSetStatus(ctx context.Context, tx *gorm.DB, payment *domain.Payment, expected domain.PaymentStatus) (bool, error) {
	result := tx.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("id = ? AND status = ?", payment.ID, expected).
		Updates(map[string]interface{}{
			"provider_tracking_id": payment.ProviderTrackingID,
			"status":               payment.Status,
			"status_message":       payment.StatusMessage,
			"method":               payment.Method,
			"card_last4":           payment.CardLast4,
			"card_type":            payment.CardType,
			"completed_at":         payment.CompletedAt,
			"failed_at":            payment.FailedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
