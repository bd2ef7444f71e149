package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OFFIS-RIT/contingency/backend/pkg/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnv = []string{
	"AI_ADAPTER", "AI_CHAT_MODEL", "AI_CHAT_URL", "AI_CHAT_KEY", "AI_PARALLEL_REQ",
	"AI_RETRY_ATTEMPTS", "AI_RETRY_BASE_DELAY", "AI_TEMPERATURE", "AI_TOKEN_ENCODER",
	"AI_CONTEXT_WARN_TOKENS", "STAGE_CONDITIONS", "STAGE_MODULATING",
	"STORE_ADAPTER", "DATABASE_URL", "SQLITE_PATH", "MIGRATIONS_PATH", "TASK_LEASE_TTL",
}

// clearEnv unsets every variable Load reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.AI.Adapter)
	assert.Equal(t, 3, cfg.AI.Attempts)
	assert.Equal(t, 2*time.Second, cfg.AI.BaseDelay)
	assert.InDelta(t, 0.01, cfg.AI.Temperature, 1e-9)
	assert.Equal(t, "o200k_base", cfg.AI.TokenEncoder)
	assert.Equal(t, 100000, cfg.AI.ContextWarnToken)
	assert.False(t, cfg.Stages.Conditions)
	assert.False(t, cfg.Stages.Modulating)
	assert.Equal(t, "postgres", cfg.Store.Adapter)
	assert.Equal(t, 5*time.Minute, cfg.Store.LeaseTTL)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ai:
  adapter: ollama
  attempts: 5
  base_delay: 500ms
  temperature: 0.2
stages:
  conditions: true
store:
  adapter: sqlite
  sqlite_path: /tmp/a.db
`), 0o644))

	t.Setenv("AI_RETRY_ATTEMPTS", "7")
	t.Setenv("STAGE_MODULATING", "true")
	t.Setenv("AI_TEMPERATURE", "0.5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.AI.Adapter)
	assert.Equal(t, 7, cfg.AI.Attempts)
	assert.Equal(t, 500*time.Millisecond, cfg.AI.BaseDelay)
	assert.InDelta(t, 0.5, cfg.AI.Temperature, 1e-9)
	assert.True(t, cfg.Stages.Conditions)
	assert.True(t, cfg.Stages.Modulating)
	assert.Equal(t, "sqlite", cfg.Store.Adapter)
	assert.Equal(t, "/tmp/a.db", cfg.Store.SQLitePath)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ai: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestGraphParams(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Stages.Modulating = true

	p := cfg.GraphParams()
	assert.Equal(t, 3, p.MaxRetries)
	assert.Equal(t, 2*time.Second, p.RetryBaseDelay)
	assert.Equal(t, "o200k_base", p.TokenEncoder)
	assert.True(t, p.EnableModulating)
	assert.False(t, p.EnableConditions)
}

func TestNewAIClient_MissingCredentials(t *testing.T) {
	for _, adapter := range []string{"openai", "openrouter", "gemini"} {
		t.Run(adapter, func(t *testing.T) {
			cfg := Default()
			cfg.AI.Adapter = adapter

			client, err := cfg.NewAIClient(context.Background())
			assert.ErrorIs(t, err, ai.ErrMissingCredentials)
			assert.Nil(t, client)
		})
	}
}

func TestNewAIClient_UnknownAdapter(t *testing.T) {
	cfg := Default()
	cfg.AI.Adapter = "carrier-pigeon"

	_, err := cfg.NewAIClient(context.Background())
	assert.Error(t, err)
}

func TestOpenLeases_SQLiteHasNone(t *testing.T) {
	cfg := Default()
	cfg.Store.Adapter = "sqlite"

	client, closeFn, err := cfg.OpenLeases(context.Background(), "worker-")
	require.NoError(t, err)
	assert.Nil(t, client)
	closeFn()
}

func TestOpenLeases_PostgresNeedsURL(t *testing.T) {
	cfg := Default()

	_, _, err := cfg.OpenLeases(context.Background(), "worker-")
	assert.Error(t, err)
}
