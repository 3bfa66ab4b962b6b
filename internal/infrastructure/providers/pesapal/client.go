package pesapal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/ololchike/tourpay/internal/domain"
)

// Client talks to Pesapal's v3 API. Pesapal's IPN carries no status at all,
// so the GetTransactionStatus call is the only source of truth.
type Client struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	http           *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(baseURL, consumerKey, consumerSecret string, timeout time.Duration) *Client {
	return &Client{
		baseURL:        baseURL,
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		http:           &http.Client{Timeout: timeout},
	}
}

type tokenResponse struct {
	Token      string `json:"token"`
	ExpiryDate string `json:"expiryDate"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

type statusResponse struct {
	PaymentMethod            string  `json:"payment_method"`
	Amount                   float64 `json:"amount"`
	PaymentStatusDescription string  `json:"payment_status_description"`
	Description              string  `json:"description"`
	Currency                 string  `json:"currency"`
	MerchantReference        string  `json:"merchant_reference"`
	StatusCode               int     `json:"status_code"`
}

func (c *Client) authToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	payload, _ := json.Marshal(map[string]string{
		"consumer_key":    c.consumerKey,
		"consumer_secret": c.consumerSecret,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/Auth/RequestToken", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("pesapal auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pesapal auth returned status %d", resp.StatusCode)
	}

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("pesapal auth response malformed: %w", err)
	}
	if body.Token == "" {
		return "", fmt.Errorf("pesapal auth rejected: %s", body.Message)
	}

	c.token = body.Token
	// Tokens last 5 minutes; refresh a little early.
	c.tokenExpiry = time.Now().Add(4 * time.Minute)
	return c.token, nil
}

func (c *Client) VerifyTransaction(ctx context.Context, trackingID string) (*domain.VerifiedTransaction, error) {
	token, err := c.authToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/api/Transactions/GetTransactionStatus?orderTrackingId=%s",
		c.baseURL, url.QueryEscape(trackingID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pesapal status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pesapal status returned %d", resp.StatusCode)
	}

	var body statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("pesapal status response malformed: %w", err)
	}

	return &domain.VerifiedTransaction{
		Status:        MapStatus(body.PaymentStatusDescription),
		Method:        MapPaymentMethod(body.PaymentMethod),
		Amount:        body.Amount,
		Currency:      body.Currency,
		StatusMessage: body.Description,
		MerchantRef:   body.MerchantReference,
	}, nil
}
