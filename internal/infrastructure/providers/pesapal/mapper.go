package pesapal

import (
	"strings"

	"github.com/ololchike/tourpay/internal/domain"
)

// MapStatus translates Pesapal's payment_status_description into the
// internal enum. Unknown descriptions map to PENDING, never an error.
func MapStatus(description string) domain.PaymentStatus {
	switch strings.ToUpper(description) {
	case "COMPLETED":
		return domain.PaymentStatusCompleted
	case "FAILED", "INVALID":
		return domain.PaymentStatusFailed
	case "REVERSED", "REFUNDED":
		return domain.PaymentStatusRefunded
	default:
		return domain.PaymentStatusPending
	}
}

// MapPaymentMethod buckets Pesapal's free-form payment method names.
func MapPaymentMethod(method string) domain.PaymentMethod {
	m := strings.ToLower(method)
	switch {
	case strings.Contains(m, "mpesa"), strings.Contains(m, "m-pesa"):
		return domain.PaymentMethodMpesa
	case strings.Contains(m, "visa"), strings.Contains(m, "mastercard"), strings.Contains(m, "card"):
		return domain.PaymentMethodCard
	case strings.Contains(m, "bank"):
		return domain.PaymentMethodBankTransfer
	case strings.Contains(m, "paypal"):
		return domain.PaymentMethodPaypal
	default:
		return domain.PaymentMethodOther
	}
}
