package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"SERVICE_NAME", "HTTP_PORT", "POSTGRES_DSN", "STORAGE_DRIVER", "KAFKA_BROKERS",
		"PAYOUT_THRESHOLD", "OUTBOX_POLL_INTERVAL", "OUTBOX_BATCH_SIZE", "OUTBOX_MAX_ATTEMPTS",
		"OUTBOX_CLAIM_TTL", "OUTBOX_RELAY_ENABLED",
		"PROFILE_ENRICH_CONCURRENCY", "AUTO_MIGRATE", "METRICS_ENABLED",
	} {
		t.Setenv(name, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "fundqueue", cfg.ServiceName)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "100000", cfg.PayoutThreshold.String())
	assert.Equal(t, 2*time.Second, cfg.OutboxPollInterval)
	assert.Equal(t, 100, cfg.OutboxBatchSize)
	assert.Equal(t, 0, cfg.OutboxMaxAttempts)
	assert.Equal(t, time.Minute, cfg.OutboxClaimTTL)
	assert.True(t, cfg.OutboxRelayEnabled)
	assert.Equal(t, 8, cfg.EnrichConcurrency)
	assert.True(t, cfg.AutoMigrate)
	assert.True(t, cfg.MetricsEnabled)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("POSTGRES_DSN", "postgres://fund@localhost/fund")
	t.Setenv("KAFKA_BROKERS", " a:9092, ,b:9092 ")
	t.Setenv("PAYOUT_THRESHOLD", "2500.50")
	t.Setenv("OUTBOX_POLL_INTERVAL", "250ms")
	t.Setenv("OUTBOX_MAX_ATTEMPTS", "12")
	t.Setenv("OUTBOX_CLAIM_TTL", "90s")
	t.Setenv("OUTBOX_RELAY_ENABLED", "false")
	t.Setenv("AUTO_MIGRATE", "off")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "2500.5", cfg.PayoutThreshold.String())
	assert.Equal(t, 250*time.Millisecond, cfg.OutboxPollInterval)
	assert.Equal(t, 12, cfg.OutboxMaxAttempts)
	assert.Equal(t, 90*time.Second, cfg.OutboxClaimTTL)
	assert.False(t, cfg.OutboxRelayEnabled)
	assert.False(t, cfg.AutoMigrate)
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"postgres without dsn": {"STORAGE_DRIVER", "postgres"},
		"unknown driver":       {"STORAGE_DRIVER", "mysql"},
		"bad threshold":        {"PAYOUT_THRESHOLD", "lots"},
		"negative threshold":   {"PAYOUT_THRESHOLD", "-1"},
		"bad interval":         {"OUTBOX_POLL_INTERVAL", "soon"},
		"negative batch":       {"OUTBOX_BATCH_SIZE", "-5"},
		"zero claim ttl":       {"OUTBOX_CLAIM_TTL", "0s"},
		"bad concurrency":      {"PROFILE_ENRICH_CONCURRENCY", "many"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(env[0], env[1])
			_, err := FromEnv()
			require.Error(t, err)
		})
	}
}

func TestEnvBoolFallsBackOnUnknownValue(t *testing.T) {
	t.Setenv("FUNDQUEUE_FLAG", "maybe")
	assert.True(t, envBool("FUNDQUEUE_FLAG", true))
	t.Setenv("FUNDQUEUE_FLAG", "NO")
	assert.False(t, envBool("FUNDQUEUE_FLAG", true))
}
