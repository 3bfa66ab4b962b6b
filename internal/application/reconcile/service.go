package reconcile

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ololchike/tourpay/internal/domain"
	"github.com/ololchike/tourpay/internal/telemetry"
)

// service applies one verified provider notification to the Payment,
// Booking, AgentEarning and AuditLog records in a single transaction. Both
// provider handlers feed into it; nothing else mutates these rows.
type service struct {
	db                *gorm.DB
	payments          domain.PaymentRepository
	bookings          domain.BookingRepository
	earnings          domain.EarningRepository
	audits            domain.AuditRepository
	notifier          domain.Notifier
	commissionPercent float64
	log               *zap.Logger
}

func NewService(
	db *gorm.DB,
	payments domain.PaymentRepository,
	bookings domain.BookingRepository,
	earnings domain.EarningRepository,
	audits domain.AuditRepository,
	notifier domain.Notifier,
	commissionPercent float64,
	log *zap.Logger,
) domain.ReconcileService {
	return &service{
		db:                db,
		payments:          payments,
		bookings:          bookings,
		earnings:          earnings,
		audits:            audits,
		notifier:          notifier,
		commissionPercent: commissionPercent,
		log:               log,
	}
}

func (s *service) Reconcile(ctx context.Context, in domain.ReconcileInput) (*domain.ReconcileResult, error) {
	start := time.Now()
	defer func() {
		telemetry.ReconcileDuration.WithLabelValues(in.Provider).Observe(time.Since(start).Seconds())
	}()

	payment, err := s.payments.FindByProviderTxRef(ctx, in.ProviderTxRef)
	if err != nil {
		s.log.Error("payment lookup failed",
			zap.String("provider", in.Provider),
			zap.String("tx_ref", in.ProviderTxRef),
			zap.Error(err),
		)
		return nil, domain.ErrInternal("failed to look up payment")
	}
	if payment == nil {
		// A reference with no matching record is a provisioning bug or a
		// replay against stale data; retrying will not fix it.
		s.log.Warn("webhook for unknown payment reference",
			zap.String("provider", in.Provider),
			zap.String("tx_ref", in.ProviderTxRef),
			zap.String("tracking_id", in.TrackingID),
		)
		return nil, domain.ErrPaymentNotFound(in.ProviderTxRef)
	}

	if payment.Status.Terminal() && !isNewTransition(payment.Status, in.Status) {
		return &domain.ReconcileResult{Outcome: domain.OutcomeAlreadyProcessed, Payment: payment}, nil
	}

	if in.Status == domain.PaymentStatusPending {
		// Nothing actionable yet; the provider will notify again.
		return &domain.ReconcileResult{Outcome: domain.OutcomePending, Payment: payment}, nil
	}

	var (
		result      = &domain.ReconcileResult{Outcome: domain.OutcomeReconciled}
		notifyAfter bool
	)

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := s.payments.FindByProviderTxRefForUpdate(ctx, tx, in.ProviderTxRef)
		if err != nil {
			return err
		}
		if locked == nil {
			return gorm.ErrRecordNotFound
		}

		// Durable idempotency check, re-evaluated under the row lock.
		if locked.Status.Terminal() && !isNewTransition(locked.Status, in.Status) {
			result.Outcome = domain.OutcomeAlreadyProcessed
			result.Payment = locked
			return nil
		}

		booking, err := s.bookings.FindByIDInTx(ctx, tx, locked.BookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return gorm.ErrRecordNotFound
		}

		var applied bool
		switch in.Status {
		case domain.PaymentStatusCompleted:
			applied, notifyAfter, err = s.applyCompleted(ctx, tx, locked, booking, in)
		case domain.PaymentStatusFailed:
			applied, err = s.applyFailed(ctx, tx, locked, booking, in)
		case domain.PaymentStatusRefunded:
			applied, err = s.applyRefunded(ctx, tx, locked, booking, in)
		}
		if err != nil {
			return err
		}
		if !applied {
			// A concurrent delivery won the compare-and-set.
			result.Outcome = domain.OutcomeAlreadyProcessed
			notifyAfter = false
		}
		result.Payment = locked
		result.Booking = booking
		return nil
	})
	if txErr != nil {
		s.log.Error("reconciliation transaction failed",
			zap.String("provider", in.Provider),
			zap.String("tx_ref", in.ProviderTxRef),
			zap.String("booking_id", payment.BookingID),
			zap.Error(txErr),
		)
		return nil, domain.ErrInternal("reconciliation failed; delivery will be retried")
	}

	if notifyAfter {
		s.notifier.PaymentConfirmed(result.Booking, result.Payment)
	}

	return result, nil
}

// applyCompleted performs the all-or-nothing completion writes: payment,
// booking, one AgentEarning and one AuditLog.
func (s *service) applyCompleted(ctx context.Context, tx *gorm.DB, payment *domain.Payment, booking *domain.Booking, in domain.ReconcileInput) (applied, notify bool, err error) {
	now := time.Now()
	previous := payment.Status

	payment.Status = domain.PaymentStatusCompleted
	payment.CompletedAt = &now
	if in.TrackingID != "" {
		payment.ProviderTrackingID = in.TrackingID
	}
	if in.StatusMessage != "" {
		payment.StatusMessage = in.StatusMessage
	}
	if in.Method != "" {
		payment.Method = in.Method
	}
	if in.CardLast4 != "" {
		payment.CardLast4 = in.CardLast4
		payment.CardType = in.CardType
	}

	applied, err = s.payments.CompareAndSetStatus(ctx, tx, payment, previous)
	if err != nil || !applied {
		return applied, false, err
	}

	isBalance := payment.IsBalance()
	booking.PaymentStatus = domain.PaymentStatusCompleted
	if isBalance {
		booking.BalancePaidAt = &now
	} else {
		booking.Status = domain.BookingStatusConfirmed
	}
	if err := s.bookings.UpdateInTx(ctx, tx, booking); err != nil {
		return false, false, err
	}

	earning := &domain.AgentEarning{
		ID:                uuid.New().String(),
		AgentID:           booking.AgentID,
		BookingID:         booking.ID,
		PaymentID:         payment.ID,
		Amount:            booking.AgentEarnings,
		CommissionPercent: s.commissionPercent,
	}
	if isBalance {
		earning.Amount = round2(payment.Amount * (1 - s.commissionPercent/100))
	}
	if err := s.earnings.CreateInTx(ctx, tx, earning); err != nil {
		return false, false, err
	}

	if err := s.writeAudit(ctx, tx, domain.AuditActionPaymentCompleted, payment, booking); err != nil {
		return false, false, err
	}

	// Balance payments do not re-send the confirmation email.
	return true, !isBalance, nil
}

func (s *service) applyFailed(ctx context.Context, tx *gorm.DB, payment *domain.Payment, booking *domain.Booking, in domain.ReconcileInput) (bool, error) {
	now := time.Now()
	previous := payment.Status

	payment.Status = domain.PaymentStatusFailed
	payment.FailedAt = &now
	if in.StatusMessage != "" {
		payment.StatusMessage = in.StatusMessage
	}

	applied, err := s.payments.CompareAndSetStatus(ctx, tx, payment, previous)
	if err != nil || !applied {
		return applied, err
	}

	// The customer may retry payment, so booking.status is left alone.
	booking.PaymentStatus = domain.PaymentStatusFailed
	if err := s.bookings.UpdateInTx(ctx, tx, booking); err != nil {
		return false, err
	}

	return true, s.writeAudit(ctx, tx, domain.AuditActionPaymentFailed, payment, booking)
}

func (s *service) applyRefunded(ctx context.Context, tx *gorm.DB, payment *domain.Payment, booking *domain.Booking, in domain.ReconcileInput) (bool, error) {
	previous := payment.Status

	payment.Status = domain.PaymentStatusRefunded
	if in.StatusMessage != "" {
		payment.StatusMessage = in.StatusMessage
	}

	applied, err := s.payments.CompareAndSetStatus(ctx, tx, payment, previous)
	if err != nil || !applied {
		return applied, err
	}

	booking.Status = domain.BookingStatusRefunded
	booking.PaymentStatus = domain.PaymentStatusRefunded
	if err := s.bookings.UpdateInTx(ctx, tx, booking); err != nil {
		return false, err
	}

	return true, s.writeAudit(ctx, tx, domain.AuditActionPaymentRefunded, payment, booking)
}

func (s *service) writeAudit(ctx context.Context, tx *gorm.DB, action domain.AuditAction, payment *domain.Payment, booking *domain.Booking) error {
	metadata, _ := json.Marshal(map[string]interface{}{
		"provider":          payment.Provider,
		"tx_ref":            payment.ProviderTxRef,
		"tracking_id":       payment.ProviderTrackingID,
		"amount":            payment.Amount,
		"currency":          payment.Currency,
		"booking_reference": booking.Reference,
	})
	return s.audits.CreateInTx(ctx, tx, &domain.AuditLog{
		ID:         uuid.New().String(),
		Action:     action,
		Resource:   "payment",
		ResourceID: payment.ID,
		Metadata:   metadata,
	})
}

// isNewTransition reports whether the incoming status moves a terminal
// payment somewhere it has not been; only COMPLETED -> REFUNDED qualifies.
func isNewTransition(current, incoming domain.PaymentStatus) bool {
	return current == domain.PaymentStatusCompleted && incoming == domain.PaymentStatusRefunded
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
