package flutterwave

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureHeader carries the digest Flutterwave computes over the raw body.
const SignatureHeader = "verif-hash"

type WebhookEvent struct {
	Event string      `json:"event"`
	Data  WebhookData `json:"data"`
}

type WebhookData struct {
	ID                int64     `json:"id"`
	TxRef             string    `json:"tx_ref"`
	Status            string    `json:"status"`
	Amount            float64   `json:"amount"`
	Currency          string    `json:"currency"`
	PaymentType       string    `json:"payment_type"`
	ProcessorResponse string    `json:"processor_response"`
	Card              *CardInfo `json:"card,omitempty"`
}

type CardInfo struct {
	Last4 string `json:"last_4digits"`
	Type  string `json:"type"`
}

// IsChargeEvent reports whether the event carries a charge outcome; anything
// else (transfer.*, subscription.*) is acknowledged but not processed.
func (e *WebhookEvent) IsChargeEvent() bool {
	return strings.HasPrefix(e.Event, "charge.")
}

// Validate returns the structural problems with the payload, if any.
func (e *WebhookEvent) Validate() []string {
	var reasons []string
	if e.Data.ID == 0 {
		reasons = append(reasons, "data.id is required")
	}
	if e.Data.TxRef == "" {
		reasons = append(reasons, "data.tx_ref is required")
	}
	return reasons
}

// VerifySignature checks the verif-hash header against an HMAC-SHA256 digest
// of the raw body under the shared webhook secret.
func VerifySignature(secret string, body []byte, header string) bool {
	if secret == "" || header == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(header))
}
