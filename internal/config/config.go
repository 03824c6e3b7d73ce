// Package config loads runtime configuration from the environment. A .env
// file in the working directory, if present, is read first; variables
// already set in the environment win over it.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration values.
//   - required: values that differ per deployment (secrets, hosts)
//   - default:  values shared by every deployment
type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	JWT       JWTConfig
	Ledger    LedgerConfig
	Catalog   CatalogConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type AppConfig struct {
	Env  string `envconfig:"APP_ENV" default:"dev"`
	Port string `envconfig:"APP_PORT" default:"8080"`
}

// DBConfig selects the storage backend. STORE_DRIVER=memory needs no
// other DB setting.
type DBConfig struct {
	Driver          string        `envconfig:"STORE_DRIVER" default:"memory"`
	User            string        `envconfig:"DB_USER" default:"root"`
	Password        string        `envconfig:"DB_PASS"`
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            string        `envconfig:"DB_PORT" default:"3306"`
	Name            string        `envconfig:"DB_NAME" default:"boxoffice"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
	Migrate         bool          `envconfig:"DB_MIGRATE" default:"true"`
}

// DSN builds the MySQL data source name. parseTime maps DATETIME to
// time.Time and loc=UTC keeps every timestamp in UTC.
func (c DBConfig) DSN() string {
	auth := c.User
	if c.Password != "" {
		auth = fmt.Sprintf("%s:%s", c.User, c.Password)
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC", auth, c.Host, c.Port, c.Name)
}

type RabbitMQConfig struct {
	URL          string `envconfig:"RABBITMQ_URL"`
	AuditLogPath string `envconfig:"AUDIT_LOG_PATH" default:"logs/audit.log"`
	Consume      bool   `envconfig:"AUDIT_CONSUMER_ENABLED" default:"true"`
}

type JWTConfig struct {
	Secret string `envconfig:"JWT_SECRET" required:"true"`
}

// LedgerConfig tunes the reservation lifecycle.
type LedgerConfig struct {
	HoldTTL       time.Duration `envconfig:"HOLD_TTL" default:"15m"`
	LockTimeout   time.Duration `envconfig:"LOCK_TIMEOUT" default:"2s"`
	LockTTL       time.Duration `envconfig:"LOCK_TTL" default:"10s"`
	LockBackend   string        `envconfig:"LOCK_BACKEND" default:"local"`
	SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" default:"30s"`
	SweepBatch    int           `envconfig:"SWEEP_BATCH" default:"100"`
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	cfg.RateLimit.normalize()
	if cfg.DB.Driver != "memory" && cfg.DB.Driver != "mysql" {
		return Config{}, fmt.Errorf("STORE_DRIVER must be memory or mysql, got %q", cfg.DB.Driver)
	}
	return cfg, nil
}
