package config

import (
	"os"

	"github.com/joho/godotenv"
)

// PayFastCredentials holds one merchant credential set. Sandbox and live
// sets are disjoint; signing with the wrong set fails at the gateway.
type PayFastCredentials struct {
	MerchantID  string
	MerchantKey string
	Passphrase  string
	Sandbox     bool
}

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	Port       string
	Env        string

	AppBaseURL  string
	FrontendURL string

	PayFastEnv     string // "live" or "sandbox"
	PayFastLive    PayFastCredentials
	PayFastSandbox PayFastCredentials
	// AllowUnverifiedNotifications keeps processing a gateway notification
	// whose signature does not verify, annotating the payment record as
	// unverified. Off by default; enable only for debugging a
	// non-conformant gateway integration.
	AllowUnverifiedNotifications bool
}

// App is the loaded application configuration
var App *Config

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// A missing .env file is fine in production and in tests; real
	// environment variables take precedence either way.
	_ = godotenv.Load()

	config := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		Port:       os.Getenv("PORT"),
		Env:        os.Getenv("ENV"),

		AppBaseURL:  os.Getenv("APP_BASE_URL"),
		FrontendURL: os.Getenv("FRONTEND_URL"),

		PayFastEnv: os.Getenv("PAYFAST_ENV"),
		PayFastLive: PayFastCredentials{
			MerchantID:  os.Getenv("PAYFAST_MERCHANT_ID"),
			MerchantKey: os.Getenv("PAYFAST_MERCHANT_KEY"),
			Passphrase:  os.Getenv("PAYFAST_PASSPHRASE"),
		},
		PayFastSandbox: PayFastCredentials{
			MerchantID:  os.Getenv("PAYFAST_SANDBOX_MERCHANT_ID"),
			MerchantKey: os.Getenv("PAYFAST_SANDBOX_MERCHANT_KEY"),
			Passphrase:  os.Getenv("PAYFAST_SANDBOX_PASSPHRASE"),
			Sandbox:     true,
		},
		AllowUnverifiedNotifications: os.Getenv("PAYFAST_ALLOW_UNVERIFIED") == "true",
	}
	if config.Port == "" {
		config.Port = "8080"
	}
	if config.PayFastEnv == "" {
		config.PayFastEnv = "sandbox"
	}

	App = config
	return config, nil
}

// PayFastCreds returns the credential set for the configured environment.
func (c *Config) PayFastCreds() PayFastCredentials {
	if c.PayFastEnv == "live" {
		return c.PayFastLive
	}
	return c.PayFastSandbox
}

// PayFastCredsForMerchant returns the credential set matching an inbound
// merchant ID, falling back to the configured environment's set when the
// ID matches neither.
func (c *Config) PayFastCredsForMerchant(merchantID string) PayFastCredentials {
	if merchantID != "" {
		if merchantID == c.PayFastLive.MerchantID {
			return c.PayFastLive
		}
		if merchantID == c.PayFastSandbox.MerchantID {
			return c.PayFastSandbox
		}
	}
	return c.PayFastCreds()
}
