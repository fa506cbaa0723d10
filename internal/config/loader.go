package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "crmforge.yaml"

// DefaultEnvFile is the dotenv file loaded before the environment overlay.
const DefaultEnvFile = ".env"

// Load returns a Config using the hierarchy: defaults < YAML < .env < ENV.
// Both files are optional; a missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < .env < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	if err := loadDotEnv(DefaultEnvFile); err != nil {
		return nil, fmt.Errorf("config dotenv: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadDotEnv populates the process environment from a dotenv file.
// Variables already set in the environment are not overwritten.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "CRMFORGE_PORT")
	setString(&cfg.Server.CORSOrigin, "CRMFORGE_CORS_ORIGIN")
	setDuration(&cfg.Server.RequestTimeout, "CRMFORGE_REQUEST_TIMEOUT")
	setBool(&cfg.Server.MetricsEnabled, "CRMFORGE_METRICS_ENABLED")

	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "CRMFORGE_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "CRMFORGE_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "CRMFORGE_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "CRMFORGE_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "CRMFORGE_PG_HEALTH_CHECK")
	setBool(&cfg.Postgres.AutoMigrate, "CRMFORGE_PG_AUTO_MIGRATE")
	setString(&cfg.Storage.Driver, "CRMFORGE_STORAGE_DRIVER")

	setString(&cfg.NATS.URL, "NATS_URL")
	setBool(&cfg.NATS.Events, "CRMFORGE_NATS_EVENTS")
	setString(&cfg.NATS.Stream, "CRMFORGE_NATS_STREAM")

	// Idempotency
	setBool(&cfg.Idempotency.Enabled, "CRMFORGE_IDEMPOTENCY_ENABLED")
	setDuration(&cfg.Idempotency.TTL, "CRMFORGE_IDEMPOTENCY_TTL")

	// Cache
	setInt64(&cfg.Cache.L1MaxSizeMB, "CRMFORGE_CACHE_L1_SIZE_MB")
	setString(&cfg.Cache.L2Bucket, "CRMFORGE_CACHE_L2_BUCKET")

	// Auth
	setString(&cfg.Auth.JWTSecret, "CRMFORGE_JWT_SECRET")
	setDuration(&cfg.Auth.AccessTokenExpiry, "CRMFORGE_ACCESS_TOKEN_EXPIRY")
	setInt(&cfg.Auth.BcryptCost, "CRMFORGE_BCRYPT_COST")
	setBool(&cfg.Auth.AllowRegistration, "CRMFORGE_ALLOW_REGISTRATION")

	setString(&cfg.Logging.Level, "CRMFORGE_LOG_LEVEL")
	setString(&cfg.Logging.Service, "CRMFORGE_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "CRMFORGE_LOG_ASYNC")
	setInt(&cfg.Breaker.MaxFailures, "CRMFORGE_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "CRMFORGE_BREAKER_TIMEOUT")
	setFloat64(&cfg.Rate.RequestsPerSecond, "CRMFORGE_RATE_RPS")
	setInt(&cfg.Rate.Burst, "CRMFORGE_RATE_BURST")
	setDuration(&cfg.Rate.CleanupInterval, "CRMFORGE_RATE_CLEANUP_INTERVAL")
	setDuration(&cfg.Rate.MaxIdleTime, "CRMFORGE_RATE_MAX_IDLE_TIME")

	// OpenTelemetry
	setBool(&cfg.OTEL.Enabled, "CRMFORGE_OTEL_ENABLED")
	setString(&cfg.OTEL.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setString(&cfg.OTEL.ServiceName, "OTEL_SERVICE_NAME")
	setBool(&cfg.OTEL.Insecure, "CRMFORGE_OTEL_INSECURE")
	setFloat64(&cfg.OTEL.SampleRate, "CRMFORGE_OTEL_SAMPLE_RATE")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	switch cfg.Storage.Driver {
	case DriverPostgres:
		if cfg.Postgres.DSN == "" {
			return errors.New("postgres.dsn is required")
		}
		if cfg.Postgres.MaxConns < 1 {
			return errors.New("postgres.max_conns must be >= 1")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("storage.driver must be %q or %q, got %q", DriverPostgres, DriverMemory, cfg.Storage.Driver)
	}
	if len(cfg.Auth.JWTSecret) < 32 {
		return errors.New("auth.jwt_secret must be at least 32 bytes")
	}
	if cfg.Auth.AccessTokenExpiry <= 0 {
		return errors.New("auth.access_token_expiry must be positive")
	}
	if cfg.Auth.BcryptCost < 4 || cfg.Auth.BcryptCost > 31 {
		return errors.New("auth.bcrypt_cost must be between 4 and 31")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Rate.RequestsPerSecond <= 0 {
		return errors.New("rate.requests_per_second must be positive")
	}
	if cfg.Rate.Burst < 1 {
		return errors.New("rate.burst must be >= 1")
	}
	if cfg.OTEL.SampleRate < 0 || cfg.OTEL.SampleRate > 1 {
		return errors.New("otel.sample_rate must be between 0 and 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
