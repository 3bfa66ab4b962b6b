package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ololchike/tourpay/internal/application/checkout"
	"github.com/ololchike/tourpay/internal/domain"
)

type BookingHandler struct {
	checkout *checkout.Service
}

func NewBookingHandler(service *checkout.Service) *BookingHandler {
	return &BookingHandler{checkout: service}
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req checkout.BookingRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidBookingRequest([]string{"invalid request body"})
	}

	resp, err := h.checkout.CreateBooking(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, resp)
}

func (h *BookingHandler) CreateBalancePayment(c echo.Context) error {
	payment, err := h.checkout.CreateBalancePayment(c.Request().Context(), c.Param("reference"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, payment)
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	booking, err := h.checkout.GetBooking(c.Request().Context(), c.Param("reference"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) GetPayment(c echo.Context) error {
	payment, err := h.checkout.GetPayment(c.Request().Context(), c.Param("txRef"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, payment)
}
