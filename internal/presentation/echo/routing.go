package echo

import (
	echofw "github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ololchike/tourpay/internal/application"
	"github.com/ololchike/tourpay/internal/presentation/echo/handlers"
	"github.com/ololchike/tourpay/internal/presentation/echo/middleware"
	"github.com/ololchike/tourpay/internal/utils/config"
)

func ConfigureRoutes(e *echofw.Echo, container *application.Container, cfg *config.Config, log *zap.Logger) {
	e.Use(middleware.Recovery(log))
	e.Use(middleware.TraceID)
	e.Use(middleware.RequestLogger(log))

	healthHandler := handlers.NewHealthHandler()
	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echofw.WrapHandler(promhttp.Handler()))

	webhookHandler := handlers.NewWebhookHandler(
		container.ReconcileService,
		container.Guard,
		container.Flutterwave,
		container.Pesapal,
		cfg.FlutterwaveWebhookSecret,
		log,
	)
	e.POST("/webhooks/flutterwave", webhookHandler.Flutterwave)
	e.POST("/webhooks/pesapal", webhookHandler.Pesapal)
	e.GET("/webhooks/pesapal", webhookHandler.Pesapal)

	bookingHandler := handlers.NewBookingHandler(container.CheckoutService)
	v1 := e.Group("/v1")
	v1.POST("/bookings", bookingHandler.CreateBooking)
	v1.POST("/bookings/:reference/balance-payments", bookingHandler.CreateBalancePayment)
	v1.GET("/bookings/:reference", bookingHandler.GetBooking)
	v1.GET("/payments/:txRef", bookingHandler.GetPayment)
}
