package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/orchestra/internal/provider"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orchestra.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "openai", cfg.Orchestrator.DefaultProvider)
	assert.Equal(t, 2, cfg.Orchestrator.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Orchestrator.ProviderTimeout)
	require.Len(t, cfg.Providers, 4)
	assert.Equal(t, []string{"openai", "claude", "gemini", "custom"},
		[]string{cfg.Providers[0].ID, cfg.Providers[1].ID, cfg.Providers[2].ID, cfg.Providers[3].ID})
}

func TestLoad_FileOverrides(t *testing.T) {
	path := writeFile(t, `
server:
  addr: ":9999"
orchestrator:
  max_attempts: 3
  provider_timeout: 5s
storage:
  driver: sqlite
  path: /tmp/x.db
providers:
  - id: remote
    type: grpc
    endpoint: localhost:50051
    capabilities: [chat, code]
    max_context: 16000
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 3, cfg.Orchestrator.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.Orchestrator.ProviderTimeout)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	require.Len(t, cfg.Providers, 1)
	assert.Equal(t, 16000, cfg.Providers[0].MaxContext)
	// untouched keys keep defaults
	assert.Equal(t, 10, cfg.Orchestrator.HistoryWindow)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ORCHESTRA_SERVER_ADDR", ":7070")
	t.Setenv("ORCHESTRA_ORCHESTRATOR_MAX_ATTEMPTS", "4")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 4, cfg.Orchestrator.MaxAttempts)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Providers = append(cfg.Providers,
		ProviderConfig{ID: "openai", Type: "openai"},
		ProviderConfig{ID: "x", Type: "carrier-pigeon", Capabilities: []string{"telepathy"}},
	)
	cfg.Orchestrator.MaxAttempts = 0
	cfg.Storage.Driver = "redis"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"duplicate id", "unknown type", "unknown capability", "max_attempts", "storage.driver"} {
		assert.Contains(t, err.Error(), want)
	}

	assert.NoError(t, func() error { d := Default(); return d.Validate() }())
}

func TestProviderConfigs_ResolvesEnvKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	cfg := Default()
	cfg.Providers[1].APIKey = "inline"

	pcs := cfg.ProviderConfigs()
	require.Len(t, pcs, 4)
	assert.Equal(t, "sk-from-env", pcs[0].APIKey)
	assert.Equal(t, "inline", pcs[1].APIKey)
	assert.True(t, pcs[2].Supports(provider.CapabilityVision))
	assert.Equal(t, 100000, pcs[1].MaxContext)
}

func TestManagerConfig(t *testing.T) {
	cfg := Default()
	mc := cfg.ManagerConfig()
	assert.Equal(t, cfg.Orchestrator.ProviderTimeout, mc.ProviderTimeout)
	assert.Equal(t, "openai", mc.DefaultProvider)
}
