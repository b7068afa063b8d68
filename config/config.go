package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"exam-prep-system/webhook"
)

// Config is the full runtime configuration, loaded once in main and
// passed explicitly into services. Core packages never read the
// environment themselves.
type Config struct {
	Port        string
	DatabaseURL string
	RedisAddr   string // empty disables the ranking cache

	JWTSecret      string
	AllowedOrigins string

	// Checkout links shown to students; first configured one wins
	PremiumCheckoutURL     string
	CheckoutURLAsaas       string
	CheckoutURLMercadoPago string
	CheckoutURLNubankQR    string

	// Webhook trust
	WebhookSecret            string
	AsaasWebhookToken        string
	AsaasAllowUnverified     bool
	MercadoPagoWebhookSecret string

	// Asaas customer directory (best-effort email lookup)
	AsaasAPIKey     string
	AsaasAPIBaseURL string

	// Ranking tunables
	RankingMinAvgSeconds   float64
	RankingTimeBonusFactor float64
	RankingTimezone        string

	// S3-compatible export archive; empty endpoint disables it
	StorageEndpoint        string
	StorageAccessKeyID     string
	StorageAccessKeySecret string
	StorageBucket          string
}

// Load reads the environment into a Config. godotenv.Load runs before
// this in main, matching how deployments layer .env under real env vars.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "3333"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),

		JWTSecret:      getEnv("JWT_SECRET", "change-me"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		PremiumCheckoutURL:     getEnv("PREMIUM_CHECKOUT_URL", "https://checkout.example.com/premium"),
		CheckoutURLAsaas:       os.Getenv("PREMIUM_CHECKOUT_URL_ASAAS"),
		CheckoutURLMercadoPago: os.Getenv("PREMIUM_CHECKOUT_URL_MERCADOPAGO"),
		CheckoutURLNubankQR:    os.Getenv("PREMIUM_CHECKOUT_URL_NUBANK_QR"),

		WebhookSecret:            getEnv("WEBHOOK_SECRET", "change-webhook-secret"),
		AsaasWebhookToken:        os.Getenv("ASAAS_WEBHOOK_TOKEN"),
		AsaasAllowUnverified:     getBool("ASAAS_ALLOW_UNVERIFIED_WEBHOOKS"),
		MercadoPagoWebhookSecret: os.Getenv("MERCADOPAGO_WEBHOOK_SECRET"),

		AsaasAPIKey:     os.Getenv("ASAAS_API_KEY"),
		AsaasAPIBaseURL: getEnv("ASAAS_API_BASE_URL", "https://api.asaas.com/v3"),

		RankingMinAvgSeconds:   getFloat("RANKING_MIN_AVG_SECONDS", 10),
		RankingTimeBonusFactor: getFloat("RANKING_TIME_BONUS_FACTOR", 0.2),
		RankingTimezone:        getEnv("RANKING_TIMEZONE", "America/Bahia"),

		StorageEndpoint:        os.Getenv("STORAGE_ENDPOINT"),
		StorageAccessKeyID:     os.Getenv("STORAGE_ACCESS_KEY_ID"),
		StorageAccessKeySecret: os.Getenv("STORAGE_ACCESS_KEY_SECRET"),
		StorageBucket:          os.Getenv("STORAGE_BUCKET_NAME"),
	}

	if cfg.CheckoutURLAsaas == "" {
		cfg.CheckoutURLAsaas = os.Getenv("PREMIUM_CHECKOUT_URL")
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	return cfg, nil
}

// WebhookSecrets narrows the config down to what the trust gate needs.
func (c *Config) WebhookSecrets() webhook.Secrets {
	return webhook.Secrets{
		AsaasToken:           c.AsaasWebhookToken,
		AsaasAllowUnverified: c.AsaasAllowUnverified,
		MercadoPagoSecret:    c.MercadoPagoWebhookSecret,
		GenericSecret:        c.WebhookSecret,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

func getBool(key string) bool {
	return strings.EqualFold(os.Getenv(key), "true")
}
