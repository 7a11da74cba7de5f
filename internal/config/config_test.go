package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CLOUD_LLM_MODEL", "")
	t.Setenv("LOCAL_LLM_MODEL", "llama3.1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, 24*time.Hour, cfg.Cache.PlayersTTL)
	assert.Equal(t, 10*time.Minute, cfg.Cache.LeagueTTL)
	assert.Equal(t, 6*time.Hour, cfg.Cache.ScheduleTTL)
	assert.Equal(t, 5, cfg.Advisor.MaxToolIterations)
	assert.Equal(t, 3000, cfg.Advisor.BriefingMaxTokens)
	assert.Equal(t, 14, cfg.Advisor.HistoryWindowDays)
	assert.Equal(t, "sqlite", cfg.Store.Type)
	assert.Equal(t, "nba", cfg.Fantasy.Sport)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LOCAL_LLM_MODEL", "llama3.1")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CACHE_LEAGUE_TTL", "2m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOCAL_LLM_TOOLS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2*time.Minute, cfg.Cache.LeagueTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.LLM.LocalSupportsTool)
}

func TestLoad_ServiceKeys(t *testing.T) {
	t.Setenv("LOCAL_LLM_MODEL", "llama3.1")
	t.Setenv("SERVICE_KEYS", "alpha,beta")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Server.ServiceKeys)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("LOCAL_LLM_MODEL", "llama3.1")
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("CACHE_PLAYERS_TTL", "-5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Cache.PlayersTTL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "no model configured",
			mutate:  func(c *Config) { c.LLM.LocalModel = ""; c.LLM.CloudModel = "" },
			wantErr: "LOCAL_LLM_MODEL",
		},
		{
			name:    "cloud model without key",
			mutate:  func(c *Config) { c.LLM.CloudModel = "gpt-4o-mini"; c.LLM.CloudAPIKey = "" },
			wantErr: "CLOUD_LLM_API_KEY",
		},
		{
			name:    "zero iterations",
			mutate:  func(c *Config) { c.Advisor.MaxToolIterations = 0 },
			wantErr: "MAX_TOOL_ITERATIONS",
		},
		{
			name:    "unknown cache",
			mutate:  func(c *Config) { c.Cache.Type = "memcached" },
			wantErr: "CACHE_TYPE",
		},
		{
			name:    "redis relay without redis cache",
			mutate:  func(c *Config) { c.Cache.Type = "memory"; c.Broadcast.Type = "redis" },
			wantErr: "BROADCAST_TYPE",
		},
		{
			name:    "unknown store",
			mutate:  func(c *Config) { c.Store.Type = "postgres" },
			wantErr: "STORE_TYPE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				LLM:       LLMConfig{LocalModel: "llama3.1"},
				Advisor:   AdvisorConfig{MaxToolIterations: 5, BriefingMaxTokens: 3000},
				Store:     StoreConfig{Type: "sqlite"},
				Cache:     CacheConfig{Type: "redis"},
				Broadcast: BroadcastConfig{Type: "local"},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
