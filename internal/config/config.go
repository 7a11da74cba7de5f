// Package config handles application configuration loading and management.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig
	Cache     CacheConfig
	Store     StoreConfig
	Broadcast BroadcastConfig
	Fantasy   FantasyConfig
	Stats     StatsConfig
	LLM       LLMConfig
	Advisor   AdvisorConfig
	Vault     VaultConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host           string
	Port           int
	GinMode        string
	ServiceKeys    []string
	AllowedOrigins []string
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds cache-related configuration.
type CacheConfig struct {
	Type        string
	Host        string
	Port        string
	Password    string
	DB          int
	KeyPrefix   string
	PlayersTTL  time.Duration
	LeagueTTL   time.Duration
	ScheduleTTL time.Duration
}

// StoreConfig holds session store configuration.
type StoreConfig struct {
	Type          string
	SQLitePath    string
	MongoURI      string
	MongoDatabase string
}

// BroadcastConfig holds broadcaster configuration.
type BroadcastConfig struct {
	Type          string
	Channel       string
	ListenerQueue int
}

// FantasyConfig holds fantasy platform gateway configuration.
type FantasyConfig struct {
	BaseURL string
	Sport   string
	Timeout time.Duration
}

// StatsConfig holds statistics provider gateway configuration.
type StatsConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// LLMConfig holds language-model backend configuration.
type LLMConfig struct {
	LocalURL          string
	LocalModel        string
	LocalSupportsTool bool
	CloudURL          string
	CloudModel        string
	CloudAPIKey       string
	Timeout           time.Duration
}

// AdvisorConfig holds conversation and briefing tuning.
type AdvisorConfig struct {
	HistoryLimit      int
	MaxToolIterations int
	BriefingMaxTokens int
	ScheduleDays      int
	RecentPeriods     int
	HistoryWindowDays int
	TurnTimeout       time.Duration
	RosterRetries     int
}

// VaultConfig holds vault configuration.
type VaultConfig struct {
	Type          string
	// EnvFiles are extra .env files consulted for dotenv:// references.
	EnvFiles      []string
	EncryptionKey string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			GinMode:        getEnv("GIN_MODE", "debug"),
			ServiceKeys:    getEnvAsList("SERVICE_KEYS", nil),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		},
		Cache: CacheConfig{
			Type:        getEnv("CACHE_TYPE", "redis"),
			Host:        getEnv("REDIS_HOST", "localhost"),
			Port:        getEnv("REDIS_PORT", "6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvAsInt("REDIS_DB", 0),
			KeyPrefix:   getEnv("CACHE_KEY_PREFIX", "advisor"),
			PlayersTTL:  getEnvAsDuration("CACHE_PLAYERS_TTL", 24*time.Hour),
			LeagueTTL:   getEnvAsDuration("CACHE_LEAGUE_TTL", 10*time.Minute),
			ScheduleTTL: getEnvAsDuration("CACHE_SCHEDULE_TTL", 6*time.Hour),
		},
		Store: StoreConfig{
			Type:          getEnv("STORE_TYPE", "sqlite"),
			SQLitePath:    getEnv("SQLITE_PATH", "data/advisor.db"),
			MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			MongoDatabase: getEnv("MONGODB_DATABASE", "roster_advisor"),
		},
		Broadcast: BroadcastConfig{
			Type:          getEnv("BROADCAST_TYPE", "local"),
			Channel:       getEnv("BROADCAST_CHANNEL", "advisor:session-events"),
			ListenerQueue: getEnvAsInt("BROADCAST_LISTENER_QUEUE", 16),
		},
		Fantasy: FantasyConfig{
			BaseURL: getEnv("FANTASY_API_URL", "https://api.sleeper.app/v1"),
			Sport:   getEnv("FANTASY_SPORT", "nba"),
			Timeout: time.Duration(getEnvAsInt("FANTASY_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Stats: StatsConfig{
			BaseURL: getEnv("STATS_API_URL", "https://api.balldontlie.io/v1"),
			APIKey:  getEnv("STATS_API_KEY", ""),
			Timeout: time.Duration(getEnvAsInt("STATS_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		LLM: LLMConfig{
			LocalURL:          getEnv("LOCAL_LLM_URL", "http://localhost:11434"),
			LocalModel:        getEnv("LOCAL_LLM_MODEL", ""),
			LocalSupportsTool: getEnvAsBool("LOCAL_LLM_TOOLS", true),
			CloudURL:          getEnv("CLOUD_LLM_URL", "https://api.openai.com/v1"),
			CloudModel:        getEnv("CLOUD_LLM_MODEL", ""),
			CloudAPIKey:       getEnv("CLOUD_LLM_API_KEY", ""),
			Timeout:           time.Duration(getEnvAsInt("LLM_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		Advisor: AdvisorConfig{
			HistoryLimit:      getEnvAsInt("CHAT_HISTORY_LIMIT", 12),
			MaxToolIterations: getEnvAsInt("MAX_TOOL_ITERATIONS", 5),
			BriefingMaxTokens: getEnvAsInt("BRIEFING_MAX_TOKENS", 3000),
			ScheduleDays:      getEnvAsInt("BRIEFING_SCHEDULE_DAYS", 7),
			RecentPeriods:     getEnvAsInt("BRIEFING_RECENT_PERIODS", 2),
			HistoryWindowDays: getEnvAsInt("HISTORY_WINDOW_DAYS", 14),
			TurnTimeout:       time.Duration(getEnvAsInt("TURN_TIMEOUT_SECONDS", 180)) * time.Second,
			RosterRetries:     getEnvAsInt("ROSTER_FETCH_RETRIES", 3),
		},
		Vault: VaultConfig{
			Type:          getEnv("VAULT_TYPE", "dotenv"),
			EnvFiles:      getEnvAsList("VAULT_ENV_FILES", nil),
			EncryptionKey: getEnv("SECRETS_ENCRYPTION_KEY", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.LLM.LocalModel == "" && c.LLM.CloudModel == "" {
		return fmt.Errorf("at least one of LOCAL_LLM_MODEL or CLOUD_LLM_MODEL must be set")
	}
	if c.LLM.CloudModel != "" && c.LLM.CloudAPIKey == "" {
		return fmt.Errorf("CLOUD_LLM_API_KEY is required when CLOUD_LLM_MODEL is set")
	}
	if c.Advisor.MaxToolIterations < 1 {
		return fmt.Errorf("MAX_TOOL_ITERATIONS must be at least 1")
	}
	if c.Advisor.BriefingMaxTokens < 1 {
		return fmt.Errorf("BRIEFING_MAX_TOKENS must be positive")
	}
	switch c.Store.Type {
	case "sqlite", "mongodb":
	default:
		return fmt.Errorf("unsupported STORE_TYPE: %s", c.Store.Type)
	}
	switch c.Cache.Type {
	case "redis", "memory":
	default:
		return fmt.Errorf("unsupported CACHE_TYPE: %s", c.Cache.Type)
	}
	switch c.Broadcast.Type {
	case "local", "redis":
	default:
		return fmt.Errorf("unsupported BROADCAST_TYPE: %s", c.Broadcast.Type)
	}
	if c.Broadcast.Type == "redis" && c.Cache.Type != "redis" {
		return fmt.Errorf("BROADCAST_TYPE=redis requires CACHE_TYPE=redis")
	}
	return nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go duration strings ("10m", "24h").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
