package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "app_db", cfg.Database.DBName)
	assert.True(t, cfg.Database.Migrate)
	assert.Equal(t, "auth_db", cfg.AuthDatabase.DBName)
	assert.False(t, cfg.AuthDatabase.Migrate)
	assert.Equal(t, "8000", cfg.Service.Port)
	assert.Equal(t, 3, cfg.Matching.MaxRetries)
	assert.Equal(t, 20*time.Millisecond, cfg.Matching.RetryBackoff)
	assert.True(t, cfg.Chat.RetainHistoryOnBlock)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("MATCHING_MAX_RETRIES", "7")
	t.Setenv("MATCHING_CLOSE_EVENT_ON_MATCH", "true")
	t.Setenv("CHAT_RETAIN_HISTORY_ON_BLOCK", "false")
	t.Setenv("KAFKA_BROKERS", "a:1,b:2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Matching.MaxRetries)
	assert.True(t, cfg.Matching.CloseEventOnMatch)
	assert.False(t, cfg.Chat.RetainHistoryOnBlock)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.Kafka.Brokers)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestRead_DatabaseOnly(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("MATCHING_MAX_RETRIES", "4")
	t.Setenv("MATCHING_RETRY_BACKOFF", "50ms")

	cfg := Read()
	assert.NoError(t, cfg.ValidateDatabase())
	assert.Error(t, cfg.Validate())

	policy := cfg.Matching.RetryPolicy()
	assert.Equal(t, 4, policy.Retries)
	assert.Equal(t, 50*time.Millisecond, policy.Backoff)
}

func TestGetDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "h", Port: "1", User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=d sslmode=disable", cfg.GetDSN())
}
