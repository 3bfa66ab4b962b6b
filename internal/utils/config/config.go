package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort    string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisURL string

	FlutterwaveBaseURL       string
	FlutterwaveSecretKey     string
	FlutterwaveWebhookSecret string
	PesapalBaseURL           string
	PesapalConsumerKey       string
	PesapalConsumerSecret    string

	CommissionPercent float64
	GuardWindow       time.Duration
	VerifyTimeout     time.Duration
	GracefulTimeout   time.Duration

	MailDriver   string
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
	MailFromName string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:    getEnv("APP_PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "tourpay"),
		DBPassword: getEnv("DB_PASSWORD", "tourpay123"),
		DBName:     getEnv("DB_NAME", "tourpay_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisURL: getEnv("REDIS_URL", ""),

		FlutterwaveBaseURL:       getEnv("FLUTTERWAVE_BASE_URL", "https://api.flutterwave.com/v3"),
		FlutterwaveSecretKey:     getEnv("FLUTTERWAVE_SECRET_KEY", ""),
		FlutterwaveWebhookSecret: getEnv("FLUTTERWAVE_WEBHOOK_SECRET", ""),
		PesapalBaseURL:           getEnv("PESAPAL_BASE_URL", "https://pay.pesapal.com/v3"),
		PesapalConsumerKey:       getEnv("PESAPAL_CONSUMER_KEY", ""),
		PesapalConsumerSecret:    getEnv("PESAPAL_CONSUMER_SECRET", ""),

		CommissionPercent: parseFloat(getEnv("PLATFORM_COMMISSION_PERCENT", "12"), 12),
		GuardWindow:       parseDuration(getEnv("GUARD_WINDOW", "10s"), 10*time.Second),
		VerifyTimeout:     parseDuration(getEnv("VERIFY_TIMEOUT", "15s"), 15*time.Second),
		GracefulTimeout:   parseDuration(getEnv("GRACEFUL_TIMEOUT", "5s"), 5*time.Second),

		MailDriver:   getEnv("MAIL_DRIVER", "log"),
		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", "bookings@tourpay.example"),
		MailFromName: getEnv("MAIL_FROM_NAME", "TourPay Bookings"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func parseFloat(value string, fallback float64) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return f
}
