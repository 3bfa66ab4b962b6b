package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ololchike/tourpay/internal/domain"
	"github.com/ololchike/tourpay/internal/infrastructure/providers/flutterwave"
	"github.com/ololchike/tourpay/internal/infrastructure/providers/pesapal"
	"github.com/ololchike/tourpay/internal/telemetry"
)

type WebhookHandler struct {
	reconcile     domain.ReconcileService
	guard         domain.IdempotencyGuard
	flwClient     domain.ProviderClient
	pesapalClient domain.ProviderClient
	flwSecret     string
	log           *zap.Logger
}

func NewWebhookHandler(
	reconcile domain.ReconcileService,
	guard domain.IdempotencyGuard,
	flwClient domain.ProviderClient,
	pesapalClient domain.ProviderClient,
	flwSecret string,
	log *zap.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		reconcile:     reconcile,
		guard:         guard,
		flwClient:     flwClient,
		pesapalClient: pesapalClient,
		flwSecret:     flwSecret,
		log:           log,
	}
}

// Flutterwave handles provider A's webhook. The signature is the trust
// boundary; after it passes, status still comes from the verification API,
// never from the webhook body.
func (h *WebhookHandler) Flutterwave(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return domain.ErrMalformedPayload([]string{"unreadable request body"})
	}

	if !flutterwave.VerifySignature(h.flwSecret, body, c.Request().Header.Get(flutterwave.SignatureHeader)) {
		h.log.Warn("flutterwave webhook rejected: bad signature",
			zap.String("remote_ip", c.RealIP()),
		)
		telemetry.WebhookDeliveries.WithLabelValues(domain.ProviderFlutterwave, "invalid_signature").Inc()
		return domain.ErrInvalidSignature()
	}

	var event flutterwave.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		telemetry.WebhookDeliveries.WithLabelValues(domain.ProviderFlutterwave, "malformed").Inc()
		return domain.ErrMalformedPayload([]string{"invalid JSON body"})
	}

	if !event.IsChargeEvent() {
		telemetry.WebhookDeliveries.WithLabelValues(domain.ProviderFlutterwave, "ignored").Inc()
		return c.JSON(http.StatusOK, map[string]string{"status": "ignored"})
	}

	if reasons := event.Validate(); len(reasons) > 0 {
		telemetry.WebhookDeliveries.WithLabelValues(domain.ProviderFlutterwave, "malformed").Inc()
		h.log.Warn("flutterwave webhook rejected: malformed payload",
			zap.String("event", event.Event),
			zap.Strings("reasons", reasons),
		)
		return domain.ErrMalformedPayload(reasons)
	}

	trackingID := strconv.FormatInt(event.Data.ID, 10)
	if dup := h.deduplicate(c, domain.ProviderFlutterwave, trackingID+":"+event.Data.TxRef); dup {
		return c.JSON(http.StatusOK, map[string]string{"status": "already processed"})
	}

	verified, err := h.flwClient.VerifyTransaction(ctx, trackingID)
	if err != nil {
		h.log.Error("flutterwave verification failed",
			zap.String("tx_ref", event.Data.TxRef),
			zap.String("tracking_id", trackingID),
			zap.Error(err),
		)
		telemetry.WebhookDeliveries.WithLabelValues(domain.ProviderFlutterwave, "verification_failed").Inc()
		return domain.ErrVerificationFailed(domain.ProviderFlutterwave)
	}

	in := domain.ReconcileInput{
		Provider:      domain.ProviderFlutterwave,
		ProviderTxRef: event.Data.TxRef,
		TrackingID:    trackingID,
		Status:        verified.Status,
		StatusMessage: verified.StatusMessage,
		Method:        verified.Method,
		Amount:        verified.Amount,
		Currency:      verified.Currency,
		CardLast4:     verified.CardLast4,
		CardType:      verified.CardType,
	}
	if in.CardLast4 == "" && event.Data.Card != nil {
		in.CardLast4 = event.Data.Card.Last4
		in.CardType = event.Data.Card.Type
	}

	result, err := h.reconcile.Reconcile(ctx, in)
	if err != nil {
		telemetry.WebhookDeliveries.WithLabelValues(domain.ProviderFlutterwave, "error").Inc()
		return err
	}

	telemetry.WebhookDeliveries.WithLabelValues(domain.ProviderFlutterwave, outcomeLabel(result.Outcome)).Inc()
	return c.JSON(http.StatusOK, map[string]string{"status": string(result.Outcome)})
}

// Pesapal handles provider B's IPN, delivered as JSON POST or GET with
// query parameters. The notification carries no status; verification
// against the API is the only source of truth.
func (h *WebhookHandler) Pesapal(c echo.Context) error {
	ctx := c.Request().Context()

	var ipn pesapal.IPN
	if err := c.Bind(&ipn); err != nil {
		telemetry.WebhookDeliveries.WithLabelValues(domain.ProviderPesapal, "malformed").Inc()
		return domain.ErrMalformedPayload([]string{"invalid notification body"})
	}

	if reasons := ipn.Validate(); len(reasons) > 0 {
		h.log.Warn("pesapal webhook rejected: malformed payload",
			zap.Strings("reasons", reasons),
		)
		telemetry.WebhookDeliveries.WithLabelValues(domain.ProviderPesapal, "malformed").Inc()
		return domain.ErrMalformedPayload(reasons)
	}

	if dup := h.deduplicate(c, domain.ProviderPesapal, ipn.OrderTrackingID+":"+ipn.OrderMerchantReference); dup {
		return c.JSON(http.StatusOK, ipn.Ack("already processed"))
	}

	verified, err := h.pesapalClient.VerifyTransaction(ctx, ipn.OrderTrackingID)
	if err != nil {
		h.log.Error("pesapal verification failed",
			zap.String("merchant_reference", ipn.OrderMerchantReference),
			zap.String("tracking_id", ipn.OrderTrackingID),
			zap.Error(err),
		)
		telemetry.WebhookDeliveries.WithLabelValues(domain.ProviderPesapal, "verification_failed").Inc()
		return domain.ErrVerificationFailed(domain.ProviderPesapal)
	}

	result, err := h.reconcile.Reconcile(ctx, domain.ReconcileInput{
		Provider:      domain.ProviderPesapal,
		ProviderTxRef: ipn.OrderMerchantReference,
		TrackingID:    ipn.OrderTrackingID,
		Status:        verified.Status,
		StatusMessage: verified.StatusMessage,
		Method:        verified.Method,
		Amount:        verified.Amount,
		Currency:      verified.Currency,
	})
	if err != nil {
		telemetry.WebhookDeliveries.WithLabelValues(domain.ProviderPesapal, "error").Inc()
		return err
	}

	telemetry.WebhookDeliveries.WithLabelValues(domain.ProviderPesapal, outcomeLabel(result.Outcome)).Inc()
	return c.JSON(http.StatusOK, ipn.Ack(string(result.Outcome)))
}

// deduplicate runs the best-effort guard. Guard errors fail open: the
// durable check inside the reconciliation transaction still protects us.
func (h *WebhookHandler) deduplicate(c echo.Context, provider, key string) bool {
	fresh, err := h.guard.TryBegin(c.Request().Context(), key)
	if err != nil {
		h.log.Warn("idempotency guard unavailable, proceeding",
			zap.String("provider", provider),
			zap.Error(err),
		)
		return false
	}
	if !fresh {
		telemetry.WebhookDeliveries.WithLabelValues(provider, "deduplicated").Inc()
	}
	return !fresh
}

func outcomeLabel(outcome domain.ReconcileOutcome) string {
	return strings.ReplaceAll(string(outcome), " ", "_")
}
