package domain

import (
	"context"

	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	CreateInTx(ctx context.Context, tx *gorm.DB, payment *Payment) error
	FindByProviderTxRef(ctx context.Context, ref string) (*Payment, error)
	FindByProviderTxRefForUpdate(ctx context.Context, tx *gorm.DB, ref string) (*Payment, error)
	// CompareAndSetStatus applies the given updates only if the payment is
	// still in the expected status. Returns false when another request won
	// the race, in which case nothing was written.
	CompareAndSetStatus(ctx context.Context, tx *gorm.DB, payment *Payment, expected PaymentStatus) (bool, error)
}

type BookingRepository interface {
	CreateInTx(ctx context.Context, tx *gorm.DB, booking *Booking) error
	FindByID(ctx context.Context, id string) (*Booking, error)
	FindByIDInTx(ctx context.Context, tx *gorm.DB, id string) (*Booking, error)
	FindByReference(ctx context.Context, reference string) (*Booking, error)
	UpdateInTx(ctx context.Context, tx *gorm.DB, booking *Booking) error
}

type EarningRepository interface {
	CreateInTx(ctx context.Context, tx *gorm.DB, earning *AgentEarning) error
	FindByPaymentID(ctx context.Context, paymentID string) (*AgentEarning, error)
}

type AuditRepository interface {
	CreateInTx(ctx context.Context, tx *gorm.DB, entry *AuditLog) error
}

type ItineraryRepository interface {
	CreateInTx(ctx context.Context, tx *gorm.DB, items []ItineraryItem) error
	ListByBookingID(ctx context.Context, bookingID string) ([]ItineraryItem, error)
}

// IdempotencyGuard is the best-effort fast path that short-circuits
// redelivered webhooks within a bounded window. Correctness never depends on
// it; the durable check lives in the reconciliation transaction.
type IdempotencyGuard interface {
	// TryBegin records the key and returns true if it was not already
	// tracked. The key expires on its own after the guard's window.
	TryBegin(ctx context.Context, key string) (bool, error)
}

// VerifiedTransaction is the authoritative view of a provider transaction,
// fetched from the provider's API rather than trusted from the webhook body.
type VerifiedTransaction struct {
	Status        PaymentStatus
	Method        PaymentMethod
	Amount        float64
	Currency      string
	StatusMessage string
	MerchantRef   string
	CardLast4     string
	CardType      string
}

// ProviderClient verifies a transaction against the provider's
// "get transaction status" API.
type ProviderClient interface {
	VerifyTransaction(ctx context.Context, trackingID string) (*VerifiedTransaction, error)
}

type ReconcileOutcome string

const (
	OutcomeReconciled       ReconcileOutcome = "reconciled"
	OutcomeAlreadyProcessed ReconcileOutcome = "already processed"
	OutcomePending          ReconcileOutcome = "pending"
)

type ReconcileInput struct {
	Provider      string
	ProviderTxRef string
	TrackingID    string
	Status        PaymentStatus
	StatusMessage string
	Method        PaymentMethod
	Amount        float64
	Currency      string
	CardLast4     string
	CardType      string
}

type ReconcileResult struct {
	Outcome ReconcileOutcome
	Payment *Payment
	Booking *Booking
}

type ReconcileService interface {
	Reconcile(ctx context.Context, in ReconcileInput) (*ReconcileResult, error)
}

// Notifier dispatches post-commit side effects. Implementations must never
// block the caller or surface failures to it.
type Notifier interface {
	PaymentConfirmed(booking *Booking, payment *Payment)
}

// ItineraryRenderer builds the PDF itinerary attached to confirmation email.
type ItineraryRenderer interface {
	Render(booking *Booking, items []ItineraryItem) ([]byte, error)
}
