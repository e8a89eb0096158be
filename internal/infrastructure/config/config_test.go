package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/aml-service/pkg/observability"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GRPC_PORT", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := Load()

	assert.Equal(t, 9090, cfg.GRPCPort)
	assert.Equal(t, ":9090", cfg.GRPCAddress())
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "aml.transactions.ingest", cfg.Topics.Ingest)
	assert.Equal(t, 24*time.Hour, cfg.Rates.CacheTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GRPC_PORT", "7000")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("RATE_CACHE_TTL", "90m")
	t.Setenv("KAFKA_TLS", "true")
	t.Setenv("IMPORT_CONCURRENCY", "not-a-number")

	cfg := Load()

	assert.Equal(t, 7000, cfg.GRPCPort)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 90*time.Minute, cfg.Rates.CacheTTL)
	assert.True(t, cfg.Kafka.TLS)
	assert.Equal(t, 8, cfg.ImportConcurrency)
}

func TestValidate(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("IMPORT_CONCURRENCY", "")
	cfg := Load()
	cfg.JWT.Secret = ""
	cfg.JWT.PublicKeyPEM = ""
	assert.Error(t, cfg.Validate())

	cfg.JWT.Secret = "s3cret"
	assert.NoError(t, cfg.Validate())

	cfg.Environment = "production"
	assert.Error(t, cfg.Validate(), "production requires TLS")
}

func TestValidateStore(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("IMPORT_CONCURRENCY", "")
	t.Setenv("STORE", "")
	cfg := Load()
	cfg.JWT.Secret = "s3cret"
	assert.Equal(t, StorePostgres, cfg.Store)

	cfg.Store = StoreMemory
	cfg.DB.URL = ""
	assert.NoError(t, cfg.Validate(), "memory store needs no database")

	cfg.Store = "sqlite"
	assert.ErrorContains(t, cfg.Validate(), "STORE must be")

	cfg.Store = StoreMemory
	cfg.Environment = "production"
	cfg.TLS.CertFile, cfg.TLS.KeyFile = "c.pem", "k.pem"
	assert.ErrorContains(t, cfg.Validate(), "not allowed in production")
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("AML_TEST_ONLY_VAR=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("AML_TEST_ONLY_VAR") })

	LoadEnv(observability.NopLogger(), path)

	assert.Equal(t, "from-file", getEnv("AML_TEST_ONLY_VAR", ""))
}
