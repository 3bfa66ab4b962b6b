package flutterwave

import (
	"strings"

	"github.com/ololchike/tourpay/internal/domain"
)

// MapStatus translates a Flutterwave transaction status into the internal
// enum. Unknown codes map to PENDING so an unexpected vendor code never
// corrupts booking state.
func MapStatus(status string) domain.PaymentStatus {
	switch strings.ToLower(status) {
	case "successful", "succeeded":
		return domain.PaymentStatusCompleted
	case "failed", "cancelled":
		return domain.PaymentStatusFailed
	case "refunded", "reversed":
		return domain.PaymentStatusRefunded
	default:
		return domain.PaymentStatusPending
	}
}

// MapPaymentMethod buckets the vendor payment_type string; unrecognized
// methods land in OTHER.
func MapPaymentMethod(paymentType string) domain.PaymentMethod {
	switch strings.ToLower(paymentType) {
	case "mpesa", "mobilemoney", "mobilemoneyghana", "mobile_money":
		return domain.PaymentMethodMpesa
	case "card", "debit_card", "credit_card":
		return domain.PaymentMethodCard
	case "banktransfer", "bank_transfer", "account":
		return domain.PaymentMethodBankTransfer
	case "paypal":
		return domain.PaymentMethodPaypal
	default:
		return domain.PaymentMethodOther
	}
}
