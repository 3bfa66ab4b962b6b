package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ololchike/tourpay/internal/domain"
)

const testSecret = "whsec-test"

type mockReconcileService struct {
	mock.Mock
}

func (m *mockReconcileService) Reconcile(ctx context.Context, in domain.ReconcileInput) (*domain.ReconcileResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconcileResult), args.Error(1)
}

type mockGuard struct {
	mock.Mock
}

func (m *mockGuard) TryBegin(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

type mockProviderClient struct {
	mock.Mock
}

func (m *mockProviderClient) VerifyTransaction(ctx context.Context, trackingID string) (*domain.VerifiedTransaction, error) {
	args := m.Called(ctx, trackingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerifiedTransaction), args.Error(1)
}

type handlerMocks struct {
	reconcile *mockReconcileService
	guard     *mockGuard
	flw       *mockProviderClient
	pesapal   *mockProviderClient
}

func newHandler() (*WebhookHandler, *handlerMocks) {
	m := &handlerMocks{
		reconcile: &mockReconcileService{},
		guard:     &mockGuard{},
		flw:       &mockProviderClient{},
		pesapal:   &mockProviderClient{},
	}
	h := NewWebhookHandler(m.reconcile, m.guard, m.flw, m.pesapal, testSecret, zap.NewNop())
	return h, m
}

func sign(body string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func flutterwaveRequest(body, signature string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/flutterwave", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set("verif-hash", signature)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

const chargeBody = `{"event":"charge.completed","data":{"id":4087351,"tx_ref":"TRX-BK100","status":"successful","amount":1000,"currency":"USD","payment_type":"card"}}`

func TestFlutterwave_InvalidSignature_Returns401(t *testing.T) {
	h, m := newHandler()
	c, _ := flutterwaveRequest(chargeBody, "not-the-right-digest")

	err := h.Flutterwave(c)

	appErr, ok := err.(*domain.AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, appErr.HTTPCode)
	m.reconcile.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything)
	m.flw.AssertNotCalled(t, "VerifyTransaction", mock.Anything, mock.Anything)
}

func TestFlutterwave_MissingSignature_Returns401(t *testing.T) {
	h, m := newHandler()
	c, _ := flutterwaveRequest(chargeBody, "")

	err := h.Flutterwave(c)

	appErr, ok := err.(*domain.AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, appErr.HTTPCode)
	m.reconcile.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything)
}

func TestFlutterwave_NonChargeEvent_Ignored(t *testing.T) {
	h, m := newHandler()
	body := `{"event":"transfer.completed","data":{"id":1,"tx_ref":"TRX-1"}}`
	c, rec := flutterwaveRequest(body, sign(body))

	err := h.Flutterwave(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ignored", resp["status"])
	m.reconcile.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything)
}

func TestFlutterwave_MissingTxRef_Returns400(t *testing.T) {
	h, _ := newHandler()
	body := `{"event":"charge.completed","data":{"id":4087351}}`
	c, _ := flutterwaveRequest(body, sign(body))

	err := h.Flutterwave(c)

	appErr, ok := err.(*domain.AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)
}

func TestFlutterwave_HappyPath_VerifiesAndReconciles(t *testing.T) {
	h, m := newHandler()
	c, rec := flutterwaveRequest(chargeBody, sign(chargeBody))

	m.guard.On("TryBegin", mock.Anything, "4087351:TRX-BK100").Return(true, nil)
	m.flw.On("VerifyTransaction", mock.Anything, "4087351").Return(&domain.VerifiedTransaction{
		Status:   domain.PaymentStatusCompleted,
		Method:   domain.PaymentMethodCard,
		Amount:   1000,
		Currency: "USD",
	}, nil)
	m.reconcile.On("Reconcile", mock.Anything, mock.MatchedBy(func(in domain.ReconcileInput) bool {
		return in.Provider == domain.ProviderFlutterwave &&
			in.ProviderTxRef == "TRX-BK100" &&
			in.TrackingID == "4087351" &&
			in.Status == domain.PaymentStatusCompleted
	})).Return(&domain.ReconcileResult{Outcome: domain.OutcomeReconciled}, nil)

	err := h.Flutterwave(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	m.guard.AssertExpectations(t)
	m.flw.AssertExpectations(t)
	m.reconcile.AssertExpectations(t)
}

func TestFlutterwave_DuplicateWithinWindow_ShortCircuits(t *testing.T) {
	h, m := newHandler()
	c, rec := flutterwaveRequest(chargeBody, sign(chargeBody))

	m.guard.On("TryBegin", mock.Anything, mock.Anything).Return(false, nil)

	err := h.Flutterwave(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "already processed", resp["status"])
	m.flw.AssertNotCalled(t, "VerifyTransaction", mock.Anything, mock.Anything)
	m.reconcile.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything)
}

func TestFlutterwave_VerificationFailure_Returns500(t *testing.T) {
	h, m := newHandler()
	c, _ := flutterwaveRequest(chargeBody, sign(chargeBody))

	m.guard.On("TryBegin", mock.Anything, mock.Anything).Return(true, nil)
	m.flw.On("VerifyTransaction", mock.Anything, "4087351").Return(nil, assert.AnError)

	err := h.Flutterwave(c)

	appErr, ok := err.(*domain.AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPCode)
	m.reconcile.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything)
}

func TestFlutterwave_GuardError_FailsOpen(t *testing.T) {
	h, m := newHandler()
	c, rec := flutterwaveRequest(chargeBody, sign(chargeBody))

	m.guard.On("TryBegin", mock.Anything, mock.Anything).Return(false, assert.AnError)
	m.flw.On("VerifyTransaction", mock.Anything, "4087351").Return(&domain.VerifiedTransaction{
		Status: domain.PaymentStatusCompleted,
	}, nil)
	m.reconcile.On("Reconcile", mock.Anything, mock.Anything).
		Return(&domain.ReconcileResult{Outcome: domain.OutcomeReconciled}, nil)

	err := h.Flutterwave(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	m.reconcile.AssertExpectations(t)
}

func pesapalPostRequest(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/pesapal", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestPesapal_MissingFields_Returns400(t *testing.T) {
	h, m := newHandler()
	c, _ := pesapalPostRequest(`{"OrderNotificationType":"IPNCHANGE"}`)

	err := h.Pesapal(c)

	appErr, ok := err.(*domain.AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)
	assert.Len(t, appErr.Messages, 2)
	m.reconcile.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything)
}

func TestPesapal_PostHappyPath(t *testing.T) {
	h, m := newHandler()
	c, rec := pesapalPostRequest(`{"OrderTrackingId":"track-1","OrderMerchantReference":"TRX-BK200","OrderNotificationType":"IPNCHANGE"}`)

	m.guard.On("TryBegin", mock.Anything, "track-1:TRX-BK200").Return(true, nil)
	m.pesapal.On("VerifyTransaction", mock.Anything, "track-1").Return(&domain.VerifiedTransaction{
		Status:   domain.PaymentStatusCompleted,
		Method:   domain.PaymentMethodMpesa,
		Amount:   450.5,
		Currency: "KES",
	}, nil)
	m.reconcile.On("Reconcile", mock.Anything, mock.MatchedBy(func(in domain.ReconcileInput) bool {
		return in.Provider == domain.ProviderPesapal &&
			in.ProviderTxRef == "TRX-BK200" &&
			in.TrackingID == "track-1"
	})).Return(&domain.ReconcileResult{Outcome: domain.OutcomeReconciled}, nil)

	err := h.Pesapal(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var ack map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ack))
	assert.Equal(t, "track-1", ack["orderTrackingId"])
	assert.Equal(t, "TRX-BK200", ack["orderMerchantReference"])
	assert.Equal(t, float64(200), ack["status"])
}

func TestPesapal_GetWithQueryParams(t *testing.T) {
	h, m := newHandler()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet,
		"/webhooks/pesapal?OrderTrackingId=track-9&OrderMerchantReference=TRX-BK300&OrderNotificationType=IPNCHANGE", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	m.guard.On("TryBegin", mock.Anything, "track-9:TRX-BK300").Return(true, nil)
	m.pesapal.On("VerifyTransaction", mock.Anything, "track-9").Return(&domain.VerifiedTransaction{
		Status: domain.PaymentStatusFailed,
	}, nil)
	m.reconcile.On("Reconcile", mock.Anything, mock.Anything).
		Return(&domain.ReconcileResult{Outcome: domain.OutcomeReconciled}, nil)

	err := h.Pesapal(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	m.pesapal.AssertExpectations(t)
}

func TestPesapal_NotFoundPropagates(t *testing.T) {
	h, m := newHandler()
	c, _ := pesapalPostRequest(`{"OrderTrackingId":"track-1","OrderMerchantReference":"TRX-GHOST","OrderNotificationType":"IPNCHANGE"}`)

	m.guard.On("TryBegin", mock.Anything, mock.Anything).Return(true, nil)
	m.pesapal.On("VerifyTransaction", mock.Anything, "track-1").Return(&domain.VerifiedTransaction{
		Status: domain.PaymentStatusCompleted,
	}, nil)
	m.reconcile.On("Reconcile", mock.Anything, mock.Anything).
		Return(nil, domain.ErrPaymentNotFound("TRX-GHOST"))

	err := h.Pesapal(c)

	appErr, ok := err.(*domain.AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.HTTPCode)
}
