package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	VariantCourse = "course"
	VariantMeme   = "meme"
)

const defaultDatabaseURL = "sqlite:course.db"

type Config struct {
	Variant     string
	Port        string
	DatabaseURL string
	LogMode     string
	LogHashSalt string

	JWTSecret string

	ClientURL string
	APIURL    string

	Stripe   StripeConfig
	Checkout CheckoutConfig
	Google   GoogleConfig
}

type StripeConfig struct {
	SecretKey      string
	WebhookSecret  string
	PublishableKey string
}

type CheckoutConfig struct {
	ProductName string
	Currency    string
	UnitAmount  int64
}

type GoogleConfig struct {
	ClientID      string
	ClientSecret  string
	SessionSecret string
}

// Enabled reports whether Google sign-in has enough configuration to run.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.SessionSecret != ""
}

// Load reads the environment, after merging an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	variant := strings.ToLower(getEnv("APP_VARIANT", VariantCourse))
	defaultAmount := "9900"
	if variant == VariantMeme {
		defaultAmount = "1999"
	}
	amount, err := strconv.ParseInt(getEnv("CHECKOUT_UNIT_AMOUNT", defaultAmount), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("CHECKOUT_UNIT_AMOUNT: %w", err)
	}

	cfg := &Config{
		Variant:     variant,
		Port:        getEnv("PORT", "5000"),
		DatabaseURL: getEnv("DATABASE_URL", defaultDatabaseURL),
		LogMode:     getEnv("LOG_MODE", "development"),
		LogHashSalt: getEnv("LOG_HASH_SALT", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		ClientURL:   strings.TrimRight(getEnv("CLIENT_URL", "http://localhost:3000"), "/"),
		APIURL:      strings.TrimRight(getEnv("API_URL", "http://localhost:5000"), "/"),
		Stripe: StripeConfig{
			SecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret:  getEnv("STRIPE_WEBHOOK_SECRET", ""),
			PublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
		},
		Checkout: CheckoutConfig{
			ProductName: getEnv("CHECKOUT_PRODUCT_NAME", "Day Trading Course"),
			Currency:    strings.ToLower(getEnv("CHECKOUT_CURRENCY", "usd")),
			UnitAmount:  amount,
		},
		Google: GoogleConfig{
			ClientID:      getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret:  getEnv("GOOGLE_CLIENT_SECRET", ""),
			SessionSecret: getEnv("SESSION_SECRET", ""),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Variant {
	case VariantCourse:
		if c.JWTSecret == "" {
			return errors.New("JWT_SECRET is required for the course variant")
		}
	case VariantMeme:
	default:
		return fmt.Errorf("unknown APP_VARIANT %q", c.Variant)
	}
	if c.Checkout.UnitAmount <= 0 {
		return errors.New("CHECKOUT_UNIT_AMOUNT must be positive")
	}
	return nil
}

// DatabaseURL resolves only the database location, for commands that do not
// serve traffic and so need none of the secrets Load insists on.
func DatabaseURL() string {
	_ = godotenv.Load()
	return getEnv("DATABASE_URL", defaultDatabaseURL)
}

func getEnv(key, defaultVal string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultVal
}
