package domain

import (
	"fmt"
	"net/http"
	"strings"
)

type AppError struct {
	Code     string   `json:"code"`
	Messages []string `json:"messages"`
	HTTPCode int      `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, strings.Join(e.Messages, "; "))
}

func ErrInvalidSignature() *AppError {
	return &AppError{
		Code:     "INVALID_SIGNATURE",
		Messages: []string{"webhook signature verification failed"},
		HTTPCode: http.StatusUnauthorized,
	}
}

func ErrMalformedPayload(reasons []string) *AppError {
	return &AppError{
		Code:     "MALFORMED_PAYLOAD",
		Messages: reasons,
		HTTPCode: http.StatusBadRequest,
	}
}

func ErrPaymentNotFound(ref string) *AppError {
	return &AppError{
		Code:     "PAYMENT_NOT_FOUND",
		Messages: []string{fmt.Sprintf("no payment found for provider reference '%s'", ref)},
		HTTPCode: http.StatusNotFound,
	}
}

func ErrBookingNotFound(ref string) *AppError {
	return &AppError{
		Code:     "BOOKING_NOT_FOUND",
		Messages: []string{fmt.Sprintf("booking '%s' not found", ref)},
		HTTPCode: http.StatusNotFound,
	}
}

func ErrVerificationFailed(provider string) *AppError {
	return &AppError{
		Code:     "VERIFICATION_FAILED",
		Messages: []string{fmt.Sprintf("could not verify transaction with %s; delivery will be retried", provider)},
		HTTPCode: http.StatusInternalServerError,
	}
}

func ErrInvalidBookingRequest(reasons []string) *AppError {
	return &AppError{
		Code:     "INVALID_BOOKING_REQUEST",
		Messages: reasons,
		HTTPCode: http.StatusBadRequest,
	}
}

func ErrInternal(msg string) *AppError {
	return &AppError{
		Code:     "INTERNAL_ERROR",
		Messages: []string{msg},
		HTTPCode: http.StatusInternalServerError,
	}
}
