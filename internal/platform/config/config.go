// Package config loads service configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full service configuration.
type Config struct {
	Server       Server
	Lines        Lines
	Pass         Pass
	Redis        RedisConfig
	Postgres     PostgresConfig
	Stripe       StripeConfig
	SMTP         SMTPConfig
	DigestCron   string `env:"HOTPICKS_DIGEST_SCHEDULE" envDefault:"0 9 * * 1"`
	DigestSize   int    `env:"HOTPICKS_DIGEST_LINES" envDefault:"5"`
	DigestActive bool   `env:"HOTPICKS_DIGEST_ENABLED" envDefault:"true"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr      string `env:"HOTPICKS_ADDR" envDefault:":8080"`
	Env       string `env:"HOTPICKS_ENV" envDefault:"development"`
	LogLevel  string `env:"HOTPICKS_LOG_LEVEL" envDefault:"info"`
	PublicURL string `env:"HOTPICKS_PUBLIC_URL" envDefault:"http://localhost:8080"`
}

// Lines configures the generator.
type Lines struct {
	PoolFile string `env:"HOTPICKS_POOL_FILE"`
	MaxLines int    `env:"HOTPICKS_MAX_LINES" envDefault:"50"`
}

// Pass configures subscriber pass signing.
type Pass struct {
	Secret string        `env:"HOTPICKS_PASS_SECRET"`
	TTL    time.Duration `env:"HOTPICKS_PASS_TTL" envDefault:"720h"`
	Issuer string        `env:"HOTPICKS_PASS_ISSUER" envDefault:"hotpicks"`
}

// RedisConfig configures the optional Redis subscriber store.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// PostgresConfig configures the optional Postgres subscriber store.
type PostgresConfig struct {
	URL         string `env:"DATABASE_URL"`
	AutoMigrate bool   `env:"DATABASE_AUTO_MIGRATE" envDefault:"true"`
	MaxConns    int32  `env:"DATABASE_MAX_CONNS" envDefault:"10"`
}

// StripeConfig holds checkout credentials. An empty secret key disables the
// paywall routes.
type StripeConfig struct {
	SecretKey     string `env:"STRIPE_SECRET_KEY"`
	PriceID       string `env:"STRIPE_PRICE_ID"`
	WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
}

// SMTPConfig holds mail relay settings. An empty server disables email.
type SMTPConfig struct {
	Server   string        `env:"SMTP_SERVER"`
	Port     int           `env:"SMTP_PORT" envDefault:"587"`
	Sender   string        `env:"EMAIL_SENDER"`
	Username string        `env:"EMAIL_USER"`
	Password string        `env:"EMAIL_PASS"`
	Timeout  time.Duration `env:"SMTP_TIMEOUT" envDefault:"10s"`
}

// StoreKind names the subscriber backend chosen by Load.
type StoreKind string

const (
	StorePostgres StoreKind = "postgres"
	StoreRedis    StoreKind = "redis"
	StoreMemory   StoreKind = "memory"
)

// Load parses the environment and checks cross-field constraints.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports configuration defects that would otherwise surface at
// request time.
func (c Config) Validate() error {
	var errs []error
	if c.Lines.MaxLines < 1 {
		errs = append(errs, errors.New("HOTPICKS_MAX_LINES must be at least 1"))
	}
	if c.DigestSize < 1 {
		errs = append(errs, errors.New("HOTPICKS_DIGEST_LINES must be at least 1"))
	}
	if c.PaywallEnabled() {
		if c.Stripe.PriceID == "" {
			errs = append(errs, errors.New("STRIPE_PRICE_ID is required when STRIPE_SECRET_KEY is set"))
		}
		if c.Pass.Secret == "" {
			errs = append(errs, errors.New("HOTPICKS_PASS_SECRET is required when STRIPE_SECRET_KEY is set"))
		}
	}
	if c.EmailEnabled() && c.SMTP.Sender == "" {
		errs = append(errs, errors.New("EMAIL_SENDER is required when SMTP_SERVER is set"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the service runs in production mode.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}

func (c Config) PaywallEnabled() bool { return c.Stripe.SecretKey != "" }

func (c Config) EmailEnabled() bool { return c.SMTP.Server != "" }

// StoreKind picks Postgres, then Redis, then memory.
func (c Config) StoreKind() StoreKind {
	switch {
	case c.Postgres.URL != "":
		return StorePostgres
	case c.Redis.URL != "":
		return StoreRedis
	default:
		return StoreMemory
	}
}
