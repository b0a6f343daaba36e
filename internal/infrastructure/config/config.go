package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// StorageDriver selects the repository backend: mongo, postgres or memory.
	StorageDriver string `env:"STORAGE_DRIVER, default=mongo"`

	Auth       AuthConfig
	Mongo      MongoConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	SuperAdmin SuperAdminConfig
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=24h"`
	LoginRate  float64       `env:"LOGIN_RATE,  default=0.2"`
	LoginBurst int           `env:"LOGIN_BURST, default=5"`
}

// MongoConfig.Transactions forces session transactions on. When false they
// are still enabled if the server reports a replica set or a mongos.
type MongoConfig struct {
	URI          string `env:"MONGO_URI,          default=mongodb://localhost:27017"`
	Database     string `env:"MONGO_DB,           default=dog_collars"`
	Transactions bool   `env:"MONGO_TRANSACTIONS, default=false"`
}

type PostgresConfig struct {
	DSN string `env:"POSTGRES_DSN"`
}

type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR,      default=localhost:6379"`
	DB             int           `env:"REDIS_DB,        default=0"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL, default=24h"`
}

// SuperAdminConfig seeds the first superadmin on startup. Leave empty to skip.
type SuperAdminConfig struct {
	Email    string `env:"SUPERADMIN_EMAIL"`
	Password string `env:"SUPERADMIN_PASSWORD"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.StorageDriver {
	case DriverMongo, DriverMemory:
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required when STORAGE_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}

	if c.Auth.JWTSecret == "" && !c.IsDevelopment() {
		errs = append(errs, errors.New("JWT_SECRET is required outside development"))
	}
	if (c.SuperAdmin.Email == "") != (c.SuperAdmin.Password == "") {
		errs = append(errs, errors.New("SUPERADMIN_EMAIL and SUPERADMIN_PASSWORD must be set together"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
