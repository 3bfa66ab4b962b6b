package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ololchike/tourpay/internal/domain"
	"github.com/ololchike/tourpay/internal/infrastructure/mail"
	"github.com/ololchike/tourpay/internal/telemetry"
)

// Notifier sends the confirmation email with the PDF itinerary after a
// reconciliation commits. Dispatch never blocks the webhook response and
// failures are logged only; the payment is already reconciled.
type Notifier struct {
	itineraries domain.ItineraryRepository
	renderer    domain.ItineraryRenderer
	mailer      mail.Mailer
	from        string
	fromName    string
	log         *zap.Logger
}

func NewNotifier(
	itineraries domain.ItineraryRepository,
	renderer domain.ItineraryRenderer,
	mailer mail.Mailer,
	from, fromName string,
	log *zap.Logger,
) *Notifier {
	return &Notifier{
		itineraries: itineraries,
		renderer:    renderer,
		mailer:      mailer,
		from:        from,
		fromName:    fromName,
		log:         log,
	}
}

func (n *Notifier) PaymentConfirmed(booking *domain.Booking, payment *domain.Payment) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				telemetry.NotificationFailures.Inc()
				n.log.Error("confirmation dispatch panicked",
					zap.String("booking_reference", booking.Reference),
					zap.Any("panic", r),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := n.deliver(ctx, booking, payment); err != nil {
			telemetry.NotificationFailures.Inc()
			n.log.Error("confirmation email failed",
				zap.String("booking_reference", booking.Reference),
				zap.String("tx_ref", payment.ProviderTxRef),
				zap.Error(err),
			)
		}
	}()
}

func (n *Notifier) deliver(ctx context.Context, booking *domain.Booking, payment *domain.Payment) error {
	items, err := n.itineraries.ListByBookingID(ctx, booking.ID)
	if err != nil {
		return fmt.Errorf("loading itinerary: %w", err)
	}

	document, err := n.renderer.Render(booking, items)
	if err != nil {
		return fmt.Errorf("rendering itinerary: %w", err)
	}

	message := mail.NewMessage().
		From(n.from, n.fromName).
		To(booking.ClientEmail).
		Subject(fmt.Sprintf("Booking %s confirmed - %s", booking.Reference, booking.TourName)).
		Body(fmt.Sprintf(
			"Dear %s,\n\nYour payment of %.2f %s has been received and booking %s is confirmed.\nYour full itinerary is attached.\n\nSafe travels!",
			booking.ClientName, payment.Amount, payment.Currency, booking.Reference,
		)).
		Attach(fmt.Sprintf("itinerary-%s.pdf", booking.Reference), document)

	if err := n.mailer.Send(message); err != nil {
		return fmt.Errorf("sending confirmation: %w", err)
	}

	n.log.Info("confirmation email sent",
		zap.String("booking_reference", booking.Reference),
		zap.String("to", booking.ClientEmail),
	)
	return nil
}
