package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix scopes every gateway environment variable.
const EnvPrefix = "storefront"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App       AppConfig
	Upstream  UpstreamConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Cart      CartConfig
	Orders    OrdersConfig
	RateLimit RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Upstream.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UpstreamConfig points the gateway at the commerce backend REST API.
type UpstreamConfig struct {
	BaseURL        string        `envconfig:"STOREFRONT_UPSTREAM_BASE_URL" required:"true"`
	RequestTimeout time.Duration `envconfig:"STOREFRONT_UPSTREAM_TIMEOUT" default:"15s"`
}

func (u UpstreamConfig) validate() error {
	parsed, err := url.Parse(u.BaseURL)
	if err != nil {
		return fmt.Errorf("parsing upstream base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("upstream base url must be http(s), got %q", u.BaseURL)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"STOREFRONT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"STOREFRONT_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"STOREFRONT_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// CartConfig tunes the session cart behaviour.
type CartConfig struct {
	DebounceQuietPeriod time.Duration `envconfig:"STOREFRONT_CART_DEBOUNCE_QUIET_PERIOD" default:"300ms"`
	SessionTTL          time.Duration `envconfig:"STOREFRONT_CART_SESSION_TTL" default:"168h"`
}

// OrdersConfig tunes the order-history aggregation.
type OrdersConfig struct {
	MaxParallelPages int `envconfig:"STOREFRONT_ORDERS_MAX_PARALLEL_PAGES" default:"8"`
}

// RateLimitConfig throttles the unauthenticated session exchange.
type RateLimitConfig struct {
	ExchangeLimit  int           `envconfig:"STOREFRONT_EXCHANGE_RATE_LIMIT" default:"30"`
	ExchangeWindow time.Duration `envconfig:"STOREFRONT_EXCHANGE_RATE_WINDOW" default:"1m"`
}
