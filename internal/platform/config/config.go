package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName    string
	HTTPPort       string
	PostgresDSN    string
	StorageDriver  string
	KafkaBrokers   []string
	AutoMigrate    bool
	MetricsEnabled bool

	PayoutThreshold   decimal.Decimal
	EnrichConcurrency int

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int
	OutboxClaimTTL     time.Duration
	// OutboxRelayEnabled lets the API process skip relaying when a
	// dedicated worker owns the outbox.
	OutboxRelayEnabled bool
}

// Load reads a .env file from the working directory when one exists and then
// resolves configuration from the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv resolves configuration from the process environment only.
func FromEnv() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "fundqueue"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	driver := strings.TrimSpace(strings.ToLower(os.Getenv("STORAGE_DRIVER")))
	if driver == "" {
		driver = StorageMemory
		if dsn != "" {
			driver = StoragePostgres
		}
	}
	switch driver {
	case StorageMemory:
	case StoragePostgres:
		if dsn == "" {
			return Config{}, errors.New("POSTGRES_DSN is required when STORAGE_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("unsupported STORAGE_DRIVER %q", driver)
	}

	threshold := decimal.NewFromInt(100000)
	if raw := strings.TrimSpace(os.Getenv("PAYOUT_THRESHOLD")); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse PAYOUT_THRESHOLD: %w", err)
		}
		if parsed.IsNegative() {
			return Config{}, errors.New("PAYOUT_THRESHOLD must not be negative")
		}
		threshold = parsed
	}

	pollInterval, err := envDuration("OUTBOX_POLL_INTERVAL", 2*time.Second)
	if err != nil {
		return Config{}, err
	}
	batchSize, err := envInt("OUTBOX_BATCH_SIZE", 100)
	if err != nil {
		return Config{}, err
	}
	maxAttempts, err := envInt("OUTBOX_MAX_ATTEMPTS", 0)
	if err != nil {
		return Config{}, err
	}
	claimTTL, err := envDuration("OUTBOX_CLAIM_TTL", time.Minute)
	if err != nil {
		return Config{}, err
	}
	concurrency, err := envInt("PROFILE_ENRICH_CONCURRENCY", 8)
	if err != nil {
		return Config{}, err
	}

	return Config{
		ServiceName:    service,
		HTTPPort:       port,
		PostgresDSN:    dsn,
		StorageDriver:  driver,
		KafkaBrokers:   brokers,
		AutoMigrate:    envBool("AUTO_MIGRATE", true),
		MetricsEnabled: envBool("METRICS_ENABLED", true),

		PayoutThreshold:   threshold,
		EnrichConcurrency: concurrency,

		OutboxPollInterval: pollInterval,
		OutboxBatchSize:    batchSize,
		OutboxMaxAttempts:  maxAttempts,
		OutboxClaimTTL:     claimTTL,
		OutboxRelayEnabled: envBool("OUTBOX_RELAY_ENABLED", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envInt(name string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s must not be negative", name)
	}
	return value, nil
}

func envDuration(name string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return value, nil
}
