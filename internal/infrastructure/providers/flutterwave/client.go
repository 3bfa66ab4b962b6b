package flutterwave

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ololchike/tourpay/internal/domain"
)

// Client calls Flutterwave's transaction verification API. The verified
// response, not the webhook body, is the source of truth for status.
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		http:      &http.Client{Timeout: timeout},
	}
}

type verifyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		TxRef             string    `json:"tx_ref"`
		Status            string    `json:"status"`
		Amount            float64   `json:"amount"`
		Currency          string    `json:"currency"`
		PaymentType       string    `json:"payment_type"`
		ProcessorResponse string    `json:"processor_response"`
		Card              *CardInfo `json:"card"`
	} `json:"data"`
}

func (c *Client) VerifyTransaction(ctx context.Context, trackingID string) (*domain.VerifiedTransaction, error) {
	url := fmt.Sprintf("%s/transactions/%s/verify", c.baseURL, trackingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("flutterwave verify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("flutterwave verify returned status %d", resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("flutterwave verify response malformed: %w", err)
	}
	if body.Status != "success" {
		return nil, fmt.Errorf("flutterwave verify rejected: %s", body.Message)
	}

	verified := &domain.VerifiedTransaction{
		Status:        MapStatus(body.Data.Status),
		Method:        MapPaymentMethod(body.Data.PaymentType),
		Amount:        body.Data.Amount,
		Currency:      body.Data.Currency,
		StatusMessage: body.Data.ProcessorResponse,
		MerchantRef:   body.Data.TxRef,
	}
	if body.Data.Card != nil {
		verified.CardLast4 = body.Data.Card.Last4
		verified.CardType = body.Data.Card.Type
	}
	return verified, nil
}
