package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger *zap.Logger

var (
	WebhookDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_deliveries_total",
		Help: "Webhook deliveries by provider and outcome.",
	}, []string{"provider", "outcome"})

	ReconcileDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reconciliation_duration_seconds",
		Help:    "Time spent inside the reconciliation transaction.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})

	NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notification_failures_total",
		Help: "Post-commit email/PDF dispatches that failed.",
	})
)

// Init builds the process-wide structured logger.
func Init(serviceName string) error {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build(zap.Fields(zap.String("service", serviceName)))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	Logger = logger
	return nil
}

// Sync flushes buffered log entries. Safe to call on shutdown.
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}
