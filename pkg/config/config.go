package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	Catalog CatalogConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"HAPPYSHOP_APP_ENV" default:"dev"`
	Port         string `envconfig:"HAPPYSHOP_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"HAPPYSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HAPPYSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"HAPPYSHOP_DB_DSN" default:"file:happyshop.db?_fk=1"`
	Driver string `envconfig:"HAPPYSHOP_DB_DRIVER" default:"sqlite"`

	MaxOpenConns    int           `envconfig:"HAPPYSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HAPPYSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HAPPYSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HAPPYSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d DBConfig) validate() error {
	if d.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}
	switch d.Driver {
	case "sqlite", "postgres":
		return nil
	}
	return fmt.Errorf("unsupported database driver %q", d.Driver)
}

// RedisConfig is optional: an empty URL disables the idempotency store.
type RedisConfig struct {
	URL          string        `envconfig:"HAPPYSHOP_REDIS_URL"`
	PoolSize     int           `envconfig:"HAPPYSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HAPPYSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HAPPYSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HAPPYSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HAPPYSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

type CatalogConfig struct {
	ImageBaseURL     string `envconfig:"HAPPYSHOP_CATALOG_IMAGE_BASE_URL" default:"/images/"`
	PlaceholderImage string `envconfig:"HAPPYSHOP_CATALOG_PLACEHOLDER_IMAGE" default:"imageHolder.jpg"`
}
