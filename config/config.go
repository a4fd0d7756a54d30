package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Auth         AuthConfig
	Stripe       StripeConfig
	Billing      BillingConfig
	Booking      BookingConfig
	RabbitMQ     RabbitMQConfig
	Entitlements EntitlementsConfig
}

type AppConfig struct {
	Port        string
	Env         string
	PublicURL   string
	PricingPath string
}

// IsProduction reports whether internal error messages must be hidden from clients.
func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled is false when no Redis host is configured; the feature cache is then bypassed.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type AuthConfig struct {
	JWTSecret   string
	TokenExpiry time.Duration
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

type BillingConfig struct {
	// ResetPlanOnCancel clears plan_id when a subscription is deleted.
	ResetPlanOnCancel bool
	// DeadLetterEnabled records unresolvable webhook events in the logs table.
	DeadLetterEnabled bool
}

type BookingConfig struct {
	PendingTTL    time.Duration
	SweepInterval time.Duration
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
}

type EntitlementsConfig struct {
	CacheTTL time.Duration
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PUBLIC_URL", "http://localhost:3000")
	viper.SetDefault("APP_PRICING_PATH", "/pricing")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("AUTH_TOKEN_EXPIRY", "1h")
	viper.SetDefault("BILLING_RESET_PLAN_ON_CANCEL", false)
	viper.SetDefault("BILLING_DEAD_LETTER_ENABLED", true)
	viper.SetDefault("BOOKING_PENDING_TTL", "15m")
	viper.SetDefault("BOOKING_SWEEP_INTERVAL", "1m")
	viper.SetDefault("RABBITMQ_EXCHANGE", "qrenoo.events")
	viper.SetDefault("ENTITLEMENTS_CACHE_TTL", "5m")
}

// LoadConfig reads the full server configuration. AUTH_JWT_SECRET is required.
func LoadConfig() (*Config, error) {
	config, err := LoadWorkerConfig()
	if err != nil {
		return nil, err
	}

	if config.Auth.JWTSecret == "" {
		return nil, errors.New("AUTH_JWT_SECRET is required")
	}

	return config, nil
}

// LoadWorkerConfig reads the configuration for the sweeper and migrate commands,
// which never issue or check tokens.
func LoadWorkerConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	setDefaults()
	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Port:        viper.GetString("APP_PORT"),
			Env:         viper.GetString("APP_ENV"),
			PublicURL:   viper.GetString("APP_PUBLIC_URL"),
			PricingPath: viper.GetString("APP_PRICING_PATH"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Auth: AuthConfig{
			JWTSecret:   viper.GetString("AUTH_JWT_SECRET"),
			TokenExpiry: viper.GetDuration("AUTH_TOKEN_EXPIRY"),
		},
		Stripe: StripeConfig{
			SecretKey:     viper.GetString("STRIPE_SECRET_KEY"),
			WebhookSecret: viper.GetString("STRIPE_WEBHOOK_SECRET"),
			SuccessURL:    viper.GetString("STRIPE_SUCCESS_URL"),
			CancelURL:     viper.GetString("STRIPE_CANCEL_URL"),
		},
		Billing: BillingConfig{
			ResetPlanOnCancel: viper.GetBool("BILLING_RESET_PLAN_ON_CANCEL"),
			DeadLetterEnabled: viper.GetBool("BILLING_DEAD_LETTER_ENABLED"),
		},
		Booking: BookingConfig{
			PendingTTL:    viper.GetDuration("BOOKING_PENDING_TTL"),
			SweepInterval: viper.GetDuration("BOOKING_SWEEP_INTERVAL"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      viper.GetString("RABBITMQ_URL"),
			Exchange: viper.GetString("RABBITMQ_EXCHANGE"),
		},
		Entitlements: EntitlementsConfig{
			CacheTTL: viper.GetDuration("ENTITLEMENTS_CACHE_TTL"),
		},
	}

	return config, nil
}
