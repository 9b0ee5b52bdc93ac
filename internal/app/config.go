package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Config holds the complete application configuration, loadable from
// environment variables (BOBAPOS_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:3000" usage:"API server listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL (BOBAPOS_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	Tax         TaxConfig
	Cart        CartConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

// TaxConfig holds the sales tax rates per register surface. Rates are decimal
// fractions, not percentages.
type TaxConfig struct {
	Kiosk   string `default:"0.0625" usage:"Sales tax rate for kiosk checkouts"`
	Cashier string `default:"0.0825" usage:"Sales tax rate for cashier checkouts"`
}

// Rates parses the configured tax rates.
func (t TaxConfig) Rates() (kiosk, cashier decimal.Decimal, err error) {
	kiosk, err = decimal.NewFromString(t.Kiosk)
	if err != nil {
		return kiosk, cashier, errors.Wrapf(err, "kiosk tax rate %q", t.Kiosk)
	}
	cashier, err = decimal.NewFromString(t.Cashier)
	if err != nil {
		return kiosk, cashier, errors.Wrapf(err, "cashier tax rate %q", t.Cashier)
	}
	return kiosk, cashier, nil
}

// CartConfig controls the session cart store.
type CartConfig struct {
	SessionTTL time.Duration `default:"2h" usage:"Idle lifetime of a session cart" flag:"cart-ttl"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config files,
// and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "BOBAPOS",
		Files:     []string{"config.yaml", "/etc/bobapos/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set BOBAPOS_DATABASE_URL or DATABASE_URL")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like DATABASE_URL and PORT to the
// application's BOBAPOS_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:3000" {
		c.Addr = "0.0.0.0:" + port
	}
}
