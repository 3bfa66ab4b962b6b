package pesapal

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ololchike/tourpay/internal/domain"
)

func TestMapStatus(t *testing.T) {
	tests := []struct {
		vendor string
		want   domain.PaymentStatus
	}{
		{"COMPLETED", domain.PaymentStatusCompleted},
		{"Completed", domain.PaymentStatusCompleted},
		{"FAILED", domain.PaymentStatusFailed},
		{"INVALID", domain.PaymentStatusFailed},
		{"REVERSED", domain.PaymentStatusRefunded},
		{"PENDING", domain.PaymentStatusPending},
		{"SOMETHING_ELSE", domain.PaymentStatusPending},
		{"", domain.PaymentStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.vendor, func(t *testing.T) {
			assert.Equal(t, tt.want, MapStatus(tt.vendor))
		})
	}
}

func TestMapPaymentMethod(t *testing.T) {
	tests := []struct {
		vendor string
		want   domain.PaymentMethod
	}{
		{"MpesaKE", domain.PaymentMethodMpesa},
		{"M-Pesa", domain.PaymentMethodMpesa},
		{"Visa", domain.PaymentMethodCard},
		{"MasterCard", domain.PaymentMethodCard},
		{"BankTransfer", domain.PaymentMethodBankTransfer},
		{"PayPal", domain.PaymentMethodPaypal},
		{"Airtel Money", domain.PaymentMethodOther},
	}

	for _, tt := range tests {
		t.Run(tt.vendor, func(t *testing.T) {
			assert.Equal(t, tt.want, MapPaymentMethod(tt.vendor))
		})
	}
}

func TestIPNValidate(t *testing.T) {
	valid := IPN{
		OrderTrackingID:        "b945e4af-80a5-4ec1-8706-e03f8332fb04",
		OrderMerchantReference: "TRX-BK100",
		OrderNotificationType:  "IPNCHANGE",
	}
	assert.Empty(t, valid.Validate())

	missing := IPN{OrderNotificationType: "IPNCHANGE"}
	reasons := missing.Validate()
	assert.Len(t, reasons, 2)
	assert.Contains(t, reasons, "OrderTrackingId is required")
	assert.Contains(t, reasons, "OrderMerchantReference is required")
}

func TestIPNAck(t *testing.T) {
	ipn := IPN{
		OrderTrackingID:        "track-1",
		OrderMerchantReference: "TRX-1",
		OrderNotificationType:  "IPNCHANGE",
	}
	ack := ipn.Ack("reconciled")
	assert.Equal(t, "reconciled", ack.Message)
	assert.Equal(t, "track-1", ack.OrderTrackingID)
	assert.Equal(t, "TRX-1", ack.OrderMerchantReference)
	assert.Equal(t, 200, ack.Status)
}

func newTestServer(t *testing.T, authCalls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/Auth/RequestToken":
			atomic.AddInt32(authCalls, 1)
			fmt.Fprint(w, `{"token": "jwt-test-token", "expiryDate": "2026-01-01T00:05:00Z", "status": "200"}`)
		case "/api/Transactions/GetTransactionStatus":
			assert.Equal(t, "Bearer jwt-test-token", r.Header.Get("Authorization"))
			assert.Equal(t, "track-1", r.URL.Query().Get("orderTrackingId"))
			fmt.Fprint(w, `{
				"payment_method": "MpesaKE",
				"amount": 450.5,
				"payment_status_description": "Completed",
				"description": "Payment received",
				"currency": "KES",
				"merchant_reference": "TRX-BK200",
				"status_code": 1
			}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestVerifyTransaction_Success(t *testing.T) {
	var authCalls int32
	server := newTestServer(t, &authCalls)
	defer server.Close()

	client := NewClient(server.URL, "ck-test", "cs-test", 5*time.Second)
	verified, err := client.VerifyTransaction(context.Background(), "track-1")
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentStatusCompleted, verified.Status)
	assert.Equal(t, domain.PaymentMethodMpesa, verified.Method)
	assert.Equal(t, 450.5, verified.Amount)
	assert.Equal(t, "KES", verified.Currency)
	assert.Equal(t, "TRX-BK200", verified.MerchantRef)
}

func TestVerifyTransaction_ReusesToken(t *testing.T) {
	var authCalls int32
	server := newTestServer(t, &authCalls)
	defer server.Close()

	client := NewClient(server.URL, "ck-test", "cs-test", 5*time.Second)

	_, err := client.VerifyTransaction(context.Background(), "track-1")
	require.NoError(t, err)
	_, err = client.VerifyTransaction(context.Background(), "track-1")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&authCalls))
}

func TestVerifyTransaction_AuthRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"token": "", "message": "invalid consumer key"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-key", "bad-secret", 5*time.Second)
	_, err := client.VerifyTransaction(context.Background(), "track-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid consumer key")
}
