package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg, err := ParseConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 90*time.Second, cfg.Server.Idle_timeout)
	assert.Equal(t, "https://api.replicate.com/v1", cfg.Replicate.BaseURL)
	assert.Equal(t, 60, cfg.Replicate.WaitSeconds)
	assert.Equal(t, time.Second, cfg.Replicate.PollInterval)
	assert.Equal(t, int64(25<<20), cfg.Upload.MaxBytes)
	assert.Zero(t, cfg.Upload.MaxSide)
	assert.Equal(t, []string{"replicate.delivery", "*.replicate.delivery"}, cfg.Download.AllowedHosts)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "adgen-generations", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Replicate.APIToken)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("REPLICATE_API_TOKEN", "  r8_secret \n")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("SERVER_PORT", "9090")

	v, err := LoadConfig()
	require.NoError(t, err)

	cfg, err := ParseConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "r8_secret", cfg.Replicate.APIToken)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ADGEN_TEST_VALUE", "set")

	assert.Equal(t, "set", GetEnv("ADGEN_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("ADGEN_TEST_MISSING", "fallback"))
}
