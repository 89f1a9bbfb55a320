package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      App
	HTTP     HTTP
	Probe    Probe
	Metrics  Metrics
	Log      Log
	Postgres Postgres
	Redis    Redis
	Auth     Auth
	Pricing  Pricing
	Trade    Trade
	Refresh  Refresh
	Bot      Bot
}

type App struct {
	Name    string `env:"APP_NAME" envDefault:"skinvault"`
	Version string `env:"APP_VERSION" envDefault:"dev"`
}

type HTTP struct {
	ListenAddress   string        `env:"HTTP_LISTEN_ADDRESS" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogFieldMaxLen  int           `env:"HTTP_LOG_FIELD_MAX_LEN" envDefault:"4096"`
}

type Probe struct {
	ListenAddress string `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
}

type Metrics struct {
	ListenAddress string `env:"METRICS_LISTEN_ADDRESS" envDefault:":9090"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"tint"`
}

type Redis struct {
	Address  string `env:"REDIS_ADDR"`
	Username string `env:"REDIS_USERNAME"`
	Password string `env:"REDIS_PASSWORD" json:"-"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
}

// Enabled reports whether the shared cache and the task queue are available.
func (r Redis) Enabled() bool {
	return r.Address != ""
}

type Auth struct {
	JWTSecret string        `env:"AUTH_JWT_SECRET,notEmpty" json:"-"`
	TokenTTL  time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"24h"`
}

type Pricing struct {
	BaseURL   string        `env:"PRICING_BASE_URL" envDefault:"https://api.steamapis.com"`
	APIKey    string        `env:"PRICING_API_KEY" json:"-"`
	PricePath string        `env:"PRICING_PRICE_PATH" envDefault:"$.prices.safe"`
	AppID     int           `env:"PRICING_APP_ID" envDefault:"730"`
	Timeout   time.Duration `env:"PRICING_TIMEOUT" envDefault:"5s"`
	CacheTTL  time.Duration `env:"PRICING_CACHE_TTL" envDefault:"5m"`
}

type Trade struct {
	ProxyURL     string        `env:"TRADE_PROXY_URL"`
	ProxyAPIKey  string        `env:"TRADE_PROXY_API_KEY" json:"-"`
	ProxyTimeout time.Duration `env:"TRADE_PROXY_TIMEOUT" envDefault:"5s"`
}

type Refresh struct {
	Interval        time.Duration `env:"REFRESH_INTERVAL" envDefault:"0"`
	RequestInterval time.Duration `env:"REFRESH_REQUEST_INTERVAL" envDefault:"750ms"`
}

type Bot struct {
	Token  string `env:"BOT_TOKEN" json:"-"`
	ChatID int64  `env:"BOT_CHAT_ID"`
}

func (b Bot) Enabled() bool {
	return b.Token != "" && b.ChatID != 0
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	config.Pricing.BaseURL = strings.TrimRight(config.Pricing.BaseURL, "/")
	config.Trade.ProxyURL = strings.TrimRight(config.Trade.ProxyURL, "/")

	return config, nil
}
