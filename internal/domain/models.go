package domain

import (
	"strings"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// Terminal reports whether the payment has reached a state that duplicate
// provider notifications must not move it out of. A refund of a completed
// payment is the one permitted onward transition.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusRefunded
}

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusRefunded  BookingStatus = "REFUNDED"
)

type PaymentMethod string

const (
	PaymentMethodMpesa        PaymentMethod = "MPESA"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodPaypal       PaymentMethod = "PAYPAL"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

const (
	ProviderFlutterwave = "flutterwave"
	ProviderPesapal     = "pesapal"
)

// BalanceRefSuffix marks the merchant reference of a balance payment that
// settles the remainder of a deposit-based booking.
const BalanceRefSuffix = "-BAL"

type AuditAction string

const (
	AuditActionBookingCreated   AuditAction = "BOOKING_CREATED"
	AuditActionPaymentCompleted AuditAction = "PAYMENT_COMPLETED"
	AuditActionPaymentFailed    AuditAction = "PAYMENT_FAILED"
	AuditActionPaymentRefunded  AuditAction = "PAYMENT_REFUNDED"
)

type Payment struct {
	ID                 string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	BookingID          string        `json:"booking_id" gorm:"type:varchar(36);not null;index"`
	Provider           string        `json:"provider" gorm:"type:varchar(20);not null"`
	ProviderTxRef      string        `json:"provider_tx_ref" gorm:"type:varchar(100);not null;uniqueIndex"`
	ProviderTrackingID string        `json:"provider_tracking_id" gorm:"type:varchar(100);index"`
	Amount             float64       `json:"amount" gorm:"not null"`
	Currency           string        `json:"currency" gorm:"type:varchar(3);not null"`
	Status             PaymentStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	StatusMessage      string        `json:"status_message,omitempty" gorm:"type:text"`
	Method             PaymentMethod `json:"method" gorm:"type:varchar(20)"`
	CardLast4          string        `json:"card_last_4,omitempty" gorm:"type:varchar(4)"`
	CardType           string        `json:"card_type,omitempty" gorm:"type:varchar(20)"`
	CompletedAt        *time.Time    `json:"completed_at,omitempty"`
	FailedAt           *time.Time    `json:"failed_at,omitempty"`
	CreatedAt          time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// IsBalance reports whether this payment settles the remaining balance of a
// deposit-based booking rather than initiating it.
func (p *Payment) IsBalance() bool {
	return strings.HasSuffix(p.ProviderTxRef, BalanceRefSuffix)
}

type Booking struct {
	ID                string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Reference         string        `json:"reference" gorm:"type:varchar(20);not null;uniqueIndex"`
	AgentID           string        `json:"agent_id" gorm:"type:varchar(36);not null;index"`
	ClientName        string        `json:"client_name" gorm:"type:varchar(100);not null"`
	ClientEmail       string        `json:"client_email" gorm:"type:varchar(100);not null"`
	TourName          string        `json:"tour_name" gorm:"type:varchar(200);not null"`
	StartDate         time.Time     `json:"start_date"`
	EndDate           time.Time     `json:"end_date"`
	Travelers         int           `json:"travelers" gorm:"not null;default:1"`
	Status            BookingStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	PaymentStatus     PaymentStatus `json:"payment_status" gorm:"type:varchar(20);not null"`
	BasePrice         float64       `json:"base_price"`
	AccommodationCost float64       `json:"accommodation_cost"`
	ActivitiesCost    float64       `json:"activities_cost"`
	TaxAmount         float64       `json:"tax_amount"`
	TotalPrice        float64       `json:"total_price" gorm:"not null"`
	AgentEarnings     float64       `json:"agent_earnings"`
	BalancePaidAt     *time.Time    `json:"balance_paid_at,omitempty"`
	CreatedAt         time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

type AgentEarning struct {
	ID                string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	AgentID           string    `json:"agent_id" gorm:"type:varchar(36);not null;index"`
	BookingID         string    `json:"booking_id" gorm:"type:varchar(36);not null;index"`
	PaymentID         string    `json:"payment_id" gorm:"type:varchar(36);not null;uniqueIndex"`
	Amount            float64   `json:"amount" gorm:"not null"`
	CommissionPercent float64   `json:"commission_percent" gorm:"not null"`
	CreatedAt         time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type AuditLog struct {
	ID         string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Action     AuditAction `json:"action" gorm:"type:varchar(40);not null;index"`
	Resource   string      `json:"resource" gorm:"type:varchar(40);not null"`
	ResourceID string      `json:"resource_id" gorm:"type:varchar(36);not null;index"`
	Metadata   []byte      `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt  time.Time   `json:"created_at" gorm:"autoCreateTime"`
}

type ItineraryItem struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	BookingID     string    `json:"booking_id" gorm:"type:varchar(36);not null;index"`
	Day           int       `json:"day" gorm:"not null"`
	Title         string    `json:"title" gorm:"type:varchar(200);not null"`
	Description   string    `json:"description,omitempty" gorm:"type:text"`
	Accommodation string    `json:"accommodation,omitempty" gorm:"type:varchar(200)"`
	Activities    string    `json:"activities,omitempty" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Payment) TableName() string {
	return "payments"
}

func (Booking) TableName() string {
	return "bookings"
}

func (AgentEarning) TableName() string {
	return "agent_earnings"
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

func (ItineraryItem) TableName() string {
	return "itinerary_items"
}
