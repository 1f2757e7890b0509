package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "STORE"

type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	PageSize         int             `envconfig:"PAGE_SIZE" default:"6"`
	FlatShipping     decimal.Decimal `envconfig:"FLAT_SHIPPING" default:"5.00"`
	StandardShipping decimal.Decimal `envconfig:"STANDARD_SHIPPING" default:"5.00"`
	ExpressShipping  decimal.Decimal `envconfig:"EXPRESS_SHIPPING" default:"15.00"`

	SessionSecret string        `envconfig:"SESSION_SECRET" default:"labubu-dev-session-secret"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"720h"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	MailFrom     string `envconfig:"MAIL_FROM" default:"orders@labubu.store"`

	CORSOrigins   []string `envconfig:"CORS_ORIGINS" default:"*"`
	RateLimit     int      `envconfig:"RATE_LIMIT" default:"100"`
	CartRateLimit int      `envconfig:"CART_RATE_LIMIT" default:"20"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug("no .env file found, using process environment")
	} else {
		log.Info(".env file loaded")
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode environment")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) RedisEnabled() bool { return c.RedisAddr != "" }

func (c *Config) MailEnabled() bool { return c.SMTPHost != "" }

func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func (c *Config) validate() error {
	if c.PageSize < 1 {
		return errors.Errorf("%s_PAGE_SIZE must be positive, got %d", envPrefix, c.PageSize)
	}
	for name, v := range map[string]decimal.Decimal{
		"FLAT_SHIPPING":     c.FlatShipping,
		"STANDARD_SHIPPING": c.StandardShipping,
		"EXPRESS_SHIPPING":  c.ExpressShipping,
	} {
		if v.IsNegative() {
			return errors.Errorf("%s_%s cannot be negative", envPrefix, name)
		}
	}
	return nil
}
