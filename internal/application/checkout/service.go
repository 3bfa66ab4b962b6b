package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ololchike/tourpay/internal/domain"
)

type BookingRequest struct {
	AgentID           string                 `json:"agent_id"`
	ClientName        string                 `json:"client_name"`
	ClientEmail       string                 `json:"client_email"`
	TourName          string                 `json:"tour_name"`
	StartDate         time.Time              `json:"start_date"`
	EndDate           time.Time              `json:"end_date"`
	Travelers         int                    `json:"travelers"`
	Provider          string                 `json:"provider"`
	Currency          string                 `json:"currency"`
	BasePrice         float64                `json:"base_price"`
	AccommodationCost float64                `json:"accommodation_cost"`
	ActivitiesCost    float64                `json:"activities_cost"`
	TaxAmount         float64                `json:"tax_amount"`
	DepositAmount     float64                `json:"deposit_amount,omitempty"`
	Itinerary         []ItineraryItemRequest `json:"itinerary,omitempty"`
}

type ItineraryItemRequest struct {
	Day           int    `json:"day"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Accommodation string `json:"accommodation,omitempty"`
	Activities    string `json:"activities,omitempty"`
}

type BookingResponse struct {
	Booking *domain.Booking `json:"booking"`
	Payment *domain.Payment `json:"payment"`
}

// Service creates bookings with their initiating PENDING payment, and the
// optional balance payment of a deposit-based booking. Reconciliation picks
// these records up when the provider notifies.
type Service struct {
	db                *gorm.DB
	bookings          domain.BookingRepository
	payments          domain.PaymentRepository
	itineraries       domain.ItineraryRepository
	audits            domain.AuditRepository
	commissionPercent float64
	log               *zap.Logger
}

func NewService(
	db *gorm.DB,
	bookings domain.BookingRepository,
	payments domain.PaymentRepository,
	itineraries domain.ItineraryRepository,
	audits domain.AuditRepository,
	commissionPercent float64,
	log *zap.Logger,
) *Service {
	return &Service{
		db:                db,
		bookings:          bookings,
		payments:          payments,
		itineraries:       itineraries,
		audits:            audits,
		commissionPercent: commissionPercent,
		log:               log,
	}
}

func (s *Service) CreateBooking(ctx context.Context, req BookingRequest) (*BookingResponse, error) {
	if err := validateBookingRequest(req); err != nil {
		return nil, err
	}

	total := req.BasePrice + req.AccommodationCost + req.ActivitiesCost + req.TaxAmount
	initialAmount := total
	if req.DepositAmount > 0 && req.DepositAmount < total {
		initialAmount = req.DepositAmount
	}

	reference := newReference()
	booking := &domain.Booking{
		ID:                uuid.New().String(),
		Reference:         reference,
		AgentID:           req.AgentID,
		ClientName:        req.ClientName,
		ClientEmail:       req.ClientEmail,
		TourName:          req.TourName,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Travelers:         req.Travelers,
		Status:            domain.BookingStatusPending,
		PaymentStatus:     domain.PaymentStatusPending,
		BasePrice:         req.BasePrice,
		AccommodationCost: req.AccommodationCost,
		ActivitiesCost:    req.ActivitiesCost,
		TaxAmount:         req.TaxAmount,
		TotalPrice:        total,
		AgentEarnings:     round2(total * (1 - s.commissionPercent/100)),
	}

	payment := &domain.Payment{
		ID:            uuid.New().String(),
		BookingID:     booking.ID,
		Provider:      req.Provider,
		ProviderTxRef: "TRX-" + reference,
		Amount:        initialAmount,
		Currency:      req.Currency,
		Status:        domain.PaymentStatusPending,
	}

	items := make([]domain.ItineraryItem, 0, len(req.Itinerary))
	for _, item := range req.Itinerary {
		items = append(items, domain.ItineraryItem{
			ID:            uuid.New().String(),
			BookingID:     booking.ID,
			Day:           item.Day,
			Title:         item.Title,
			Description:   item.Description,
			Accommodation: item.Accommodation,
			Activities:    item.Activities,
		})
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.bookings.CreateInTx(ctx, tx, booking); err != nil {
			return err
		}
		if err := s.payments.CreateInTx(ctx, tx, payment); err != nil {
			return err
		}
		if err := s.itineraries.CreateInTx(ctx, tx, items); err != nil {
			return err
		}
		metadata, _ := json.Marshal(map[string]interface{}{
			"reference":   booking.Reference,
			"total_price": booking.TotalPrice,
			"tx_ref":      payment.ProviderTxRef,
		})
		return s.audits.CreateInTx(ctx, tx, &domain.AuditLog{
			ID:         uuid.New().String(),
			Action:     domain.AuditActionBookingCreated,
			Resource:   "booking",
			ResourceID: booking.ID,
			Metadata:   metadata,
		})
	})
	if txErr != nil {
		s.log.Error("booking creation failed", zap.Error(txErr))
		return nil, domain.ErrInternal("failed to create booking")
	}

	return &BookingResponse{Booking: booking, Payment: payment}, nil
}

// CreateBalancePayment registers the PENDING balance payment of a
// deposit-based booking. Its merchant reference carries the balance marker
// so reconciliation applies the balance semantics.
func (s *Service) CreateBalancePayment(ctx context.Context, reference string) (*domain.Payment, error) {
	booking, err := s.bookings.FindByReference(ctx, reference)
	if err != nil {
		return nil, domain.ErrInternal("failed to look up booking")
	}
	if booking == nil {
		return nil, domain.ErrBookingNotFound(reference)
	}

	initial, err := s.payments.FindByProviderTxRef(ctx, "TRX-"+reference)
	if err != nil {
		return nil, domain.ErrInternal("failed to look up initial payment")
	}
	if initial == nil || initial.Status != domain.PaymentStatusCompleted {
		return nil, domain.ErrInvalidBookingRequest([]string{"initial payment has not completed"})
	}

	balance := round2(booking.TotalPrice - initial.Amount)
	if balance <= 0 {
		return nil, domain.ErrInvalidBookingRequest([]string{"booking has no outstanding balance"})
	}

	payment := &domain.Payment{
		ID:            uuid.New().String(),
		BookingID:     booking.ID,
		Provider:      initial.Provider,
		ProviderTxRef: "TRX-" + reference + domain.BalanceRefSuffix,
		Amount:        balance,
		Currency:      initial.Currency,
		Status:        domain.PaymentStatusPending,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, domain.ErrInternal("failed to create balance payment")
	}
	return payment, nil
}

func (s *Service) GetBooking(ctx context.Context, reference string) (*domain.Booking, error) {
	booking, err := s.bookings.FindByReference(ctx, reference)
	if err != nil {
		return nil, domain.ErrInternal("failed to retrieve booking")
	}
	if booking == nil {
		return nil, domain.ErrBookingNotFound(reference)
	}
	return booking, nil
}

func (s *Service) GetPayment(ctx context.Context, txRef string) (*domain.Payment, error) {
	payment, err := s.payments.FindByProviderTxRef(ctx, txRef)
	if err != nil {
		return nil, domain.ErrInternal("failed to retrieve payment")
	}
	if payment == nil {
		return nil, domain.ErrPaymentNotFound(txRef)
	}
	return payment, nil
}

func validateBookingRequest(req BookingRequest) error {
	var reasons []string

	if req.AgentID == "" {
		reasons = append(reasons, "agent_id is required")
	}
	if req.ClientName == "" {
		reasons = append(reasons, "client_name is required")
	}
	if req.ClientEmail == "" || !strings.Contains(req.ClientEmail, "@") {
		reasons = append(reasons, "a valid client_email is required")
	}
	if req.TourName == "" {
		reasons = append(reasons, "tour_name is required")
	}
	if req.Travelers <= 0 {
		reasons = append(reasons, "travelers must be greater than 0")
	}
	if req.Provider != domain.ProviderFlutterwave && req.Provider != domain.ProviderPesapal {
		reasons = append(reasons, "provider must be flutterwave or pesapal")
	}
	if req.Currency == "" {
		reasons = append(reasons, "currency is required")
	}
	if req.BasePrice <= 0 {
		reasons = append(reasons, "base_price must be greater than 0")
	}

	if len(reasons) > 0 {
		return domain.ErrInvalidBookingRequest(reasons)
	}
	return nil
}

func newReference() string {
	return fmt.Sprintf("BK%s", strings.ToUpper(uuid.New().String()[:8]))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
