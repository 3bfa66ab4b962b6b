package application

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ololchike/tourpay/internal/application/checkout"
	"github.com/ololchike/tourpay/internal/application/notify"
	"github.com/ololchike/tourpay/internal/application/reconcile"
	"github.com/ololchike/tourpay/internal/domain"
	"github.com/ololchike/tourpay/internal/infrastructure/gorm/repositories"
	"github.com/ololchike/tourpay/internal/infrastructure/guard"
	"github.com/ololchike/tourpay/internal/infrastructure/mail"
	"github.com/ololchike/tourpay/internal/infrastructure/pdf"
	"github.com/ololchike/tourpay/internal/infrastructure/providers/flutterwave"
	"github.com/ololchike/tourpay/internal/infrastructure/providers/pesapal"
	"github.com/ololchike/tourpay/internal/utils/config"
)

type Container struct {
	ReconcileService domain.ReconcileService
	CheckoutService  *checkout.Service
	Guard            domain.IdempotencyGuard
	Flutterwave      domain.ProviderClient
	Pesapal          domain.ProviderClient
}

func NewContainer(db *gorm.DB, cfg *config.Config, log *zap.Logger) *Container {
	paymentRepo := repositories.NewPaymentRepo(db)
	bookingRepo := repositories.NewBookingRepo(db)
	earningRepo := repositories.NewEarningRepo(db)
	auditRepo := repositories.NewAuditRepo(db)
	itineraryRepo := repositories.NewItineraryRepo(db)

	var dedup domain.IdempotencyGuard
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Warn("invalid REDIS_URL, falling back to in-memory guard", zap.Error(err))
			dedup = guard.NewMemoryGuard(cfg.GuardWindow)
		} else {
			dedup = guard.NewRedisGuard(redis.NewClient(opts), cfg.GuardWindow)
		}
	} else {
		dedup = guard.NewMemoryGuard(cfg.GuardWindow)
	}

	var mailer mail.Mailer
	if cfg.MailDriver == "smtp" {
		mailer = mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, log)
	} else {
		mailer = mail.NewLogMailer(log)
	}

	notifier := notify.NewNotifier(
		itineraryRepo,
		pdf.NewItineraryRenderer(),
		mailer,
		cfg.MailFrom,
		cfg.MailFromName,
		log,
	)

	reconcileService := reconcile.NewService(
		db,
		paymentRepo,
		bookingRepo,
		earningRepo,
		auditRepo,
		notifier,
		cfg.CommissionPercent,
		log,
	)

	checkoutService := checkout.NewService(
		db,
		bookingRepo,
		paymentRepo,
		itineraryRepo,
		auditRepo,
		cfg.CommissionPercent,
		log,
	)

	return &Container{
		ReconcileService: reconcileService,
		CheckoutService:  checkoutService,
		Guard:            dedup,
		Flutterwave:      flutterwave.NewClient(cfg.FlutterwaveBaseURL, cfg.FlutterwaveSecretKey, cfg.VerifyTimeout),
		Pesapal:          pesapal.NewClient(cfg.PesapalBaseURL, cfg.PesapalConsumerKey, cfg.PesapalConsumerSecret, cfg.VerifyTimeout),
	}
}
