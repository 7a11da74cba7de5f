// Package main is the entry point for the Roster Advisor service.
// @title Roster Advisor API
// @version 1.0
// @description Conversational fantasy basketball roster assistant backed by league data and a tool-calling language model.

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Service key
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/rosteriq/advisor-service/docs"
	"github.com/rosteriq/advisor-service/internal/api/handlers"
	"github.com/rosteriq/advisor-service/internal/api/middleware"
	"github.com/rosteriq/advisor-service/internal/api/routes"
	"github.com/rosteriq/advisor-service/internal/config"
	"github.com/rosteriq/advisor-service/internal/core/cache"
	"github.com/rosteriq/advisor-service/internal/core/store"
	"github.com/rosteriq/advisor-service/internal/core/vault"
	memorycache "github.com/rosteriq/advisor-service/internal/infrastructure/cache/memory"
	rediscache "github.com/rosteriq/advisor-service/internal/infrastructure/cache/redis"
	"github.com/rosteriq/advisor-service/internal/infrastructure/store/mongodb"
	"github.com/rosteriq/advisor-service/internal/infrastructure/store/sqlite"
	dotenvvault "github.com/rosteriq/advisor-service/internal/infrastructure/vault/dotenv"
	"github.com/rosteriq/advisor-service/internal/pkg/encryption"
	"github.com/rosteriq/advisor-service/internal/pkg/logging"
	"github.com/rosteriq/advisor-service/internal/services/advisor"
	"github.com/rosteriq/advisor-service/internal/services/briefing"
	"github.com/rosteriq/advisor-service/internal/services/broadcast"
	"github.com/rosteriq/advisor-service/internal/services/cachestore"
	"github.com/rosteriq/advisor-service/internal/services/conversation"
	"github.com/rosteriq/advisor-service/internal/services/gateways/fantasy"
	"github.com/rosteriq/advisor-service/internal/services/gateways/stats"
	"github.com/rosteriq/advisor-service/internal/services/leaguedata"
	"github.com/rosteriq/advisor-service/internal/services/llm"
	"github.com/rosteriq/advisor-service/internal/services/llm/ollama"
	"github.com/rosteriq/advisor-service/internal/services/llm/openai"
	"github.com/rosteriq/advisor-service/internal/services/session"
	"github.com/rosteriq/advisor-service/internal/services/tools"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)
	ctx := context.Background()

	secrets, err := createVault(cfg.Vault)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize vault")
	}
	defer secrets.Close()

	if err := resolveSecrets(ctx, secrets, cfg); err != nil {
		logger.Fatal().Err(err).Msg("failed to resolve secrets")
	}

	cacheClient, err := createCache(cfg.Cache)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize cache")
	}
	defer cacheClient.Close()

	repo, err := createRepository(ctx, cfg.Store)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize session store")
	}
	defer repo.Close(context.Background())

	encryptor, err := createEncryptor(cfg.Vault, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize encryptor")
	}

	leagueData, err := createLeagueData(cfg, cacheClient, encryptor, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize league data")
	}

	driver, err := createDriver(cfg, leagueData, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize conversation driver")
	}

	assembler, err := briefing.NewAssembler(&briefing.Config{
		Data:              leagueData,
		MaxTokens:         cfg.Advisor.BriefingMaxTokens,
		ScheduleDays:      cfg.Advisor.ScheduleDays,
		RecentPeriods:     cfg.Advisor.RecentPeriods,
		HistoryWindowDays: cfg.Advisor.HistoryWindowDays,
		Logger:            &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize briefing assembler")
	}

	sessions, err := session.NewService(&session.Config{Repository: repo, Logger: &logger})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize session service")
	}

	broadcaster, err := createBroadcaster(ctx, cfg.Broadcast, cacheClient, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize broadcaster")
	}
	defer broadcaster.Close()

	advisorService, err := advisor.NewService(&advisor.Config{
		Sessions:     sessions,
		Broadcaster:  broadcaster,
		Briefings:    assembler,
		Driver:       driver,
		Cache:        leagueData,
		HistoryLimit: cfg.Advisor.HistoryLimit,
		TurnTimeout:  cfg.Advisor.TurnTimeout,
		Logger:       &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize advisor service")
	}

	gin.SetMode(cfg.Server.GinMode)
	router := setupRouter(cfg, advisorService, cacheClient, repo)

	srv := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Server.Address()).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}

// createVault creates the secret resolver based on the configuration.
func createVault(cfg config.VaultConfig) (vault.Vault, error) {
	switch vault.Type(cfg.Type) {
	case vault.TypeDotEnv, vault.TypeNone, "":
		return dotenvvault.NewVault(cfg.EnvFiles...)
	default:
		return nil, fmt.Errorf("unsupported vault type: %s", cfg.Type)
	}
}

// resolveSecrets replaces dotenv:// references in secret-bearing settings.
func resolveSecrets(ctx context.Context, v vault.Vault, cfg *config.Config) error {
	if vault.Type(cfg.Vault.Type) == vault.TypeNone {
		return nil
	}
	targets := map[string]*string{
		"SECRETS_ENCRYPTION_KEY": &cfg.Vault.EncryptionKey,
		"CLOUD_LLM_API_KEY":      &cfg.LLM.CloudAPIKey,
		"STATS_API_KEY":          &cfg.Stats.APIKey,
		"REDIS_PASSWORD":         &cfg.Cache.Password,
		"MONGODB_URI":            &cfg.Store.MongoURI,
	}
	for name, target := range targets {
		value, err := vault.Resolve(ctx, v, *target)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*target = value
	}
	for i, key := range cfg.Server.ServiceKeys {
		value, err := vault.Resolve(ctx, v, key)
		if err != nil {
			return fmt.Errorf("SERVICE_KEYS: %w", err)
		}
		cfg.Server.ServiceKeys[i] = value
	}
	return nil
}

// createCache creates a cache client based on the configuration.
func createCache(cfg config.CacheConfig) (cache.Cache, error) {
	switch cache.Type(cfg.Type) {
	case cache.TypeRedis:
		return rediscache.NewCache(rediscache.Config{
			Host:     cfg.Host,
			Port:     cfg.Port,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	case cache.TypeMemory:
		return memorycache.NewCache(), nil
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.Type)
	}
}

// createRepository opens the session store based on the configuration.
func createRepository(ctx context.Context, cfg config.StoreConfig) (store.SessionRepository, error) {
	switch store.Type(cfg.Type) {
	case store.TypeSQLite:
		return sqlite.NewRepository(&sqlite.Config{Path: cfg.SQLitePath})
	case store.TypeMongoDB:
		client, err := mongodb.NewClient(ctx, &mongodb.ClientConfig{
			URI:          cfg.MongoURI,
			DatabaseName: cfg.MongoDatabase,
		})
		if err != nil {
			return nil, err
		}
		if err := client.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to ensure indexes")
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Type)
	}
}

// createEncryptor seals cache entries when an encryption key is configured.
func createEncryptor(cfg config.VaultConfig, logger *zerolog.Logger) (encryption.Encryptor, error) {
	if cfg.EncryptionKey == "" {
		logger.Warn().Msg("SECRETS_ENCRYPTION_KEY not set, cache entries are stored unencrypted")
	}
	return encryption.New(cfg.EncryptionKey)
}

func createLeagueData(cfg *config.Config, c cache.Cache, enc encryption.Encryptor, logger *zerolog.Logger) (*leaguedata.Service, error) {
	cacheStore, err := cachestore.NewStore(&cachestore.Config{
		Cache:     c,
		Encryptor: enc,
		KeyPrefix: cfg.Cache.KeyPrefix,
		TTLs: map[cachestore.Kind]time.Duration{
			cachestore.KindPlayers:  cfg.Cache.PlayersTTL,
			cachestore.KindLeague:   cfg.Cache.LeagueTTL,
			cachestore.KindSchedule: cfg.Cache.ScheduleTTL,
		},
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	fantasyClient, err := fantasy.NewClient(&fantasy.ClientConfig{
		BaseURL: cfg.Fantasy.BaseURL,
		Timeout: cfg.Fantasy.Timeout,
	})
	if err != nil {
		return nil, err
	}

	statsClient, err := stats.NewClient(&stats.ClientConfig{
		BaseURL: cfg.Stats.BaseURL,
		APIKey:  cfg.Stats.APIKey,
		Timeout: cfg.Stats.Timeout,
	})
	if err != nil {
		return nil, err
	}

	retry := leaguedata.DefaultRosterRetry
	if cfg.Advisor.RosterRetries > 0 {
		retry.Attempts = cfg.Advisor.RosterRetries
	}

	return leaguedata.NewService(&leaguedata.Config{
		Store:       cacheStore,
		Fantasy:     fantasyClient,
		Stats:       statsClient,
		Sport:       cfg.Fantasy.Sport,
		RosterRetry: &retry,
		Logger:      logger,
	})
}

// createDriver builds the model chain (local first, cloud second) and the
// conversation driver on top of it.
func createDriver(cfg *config.Config, data tools.LeagueData, logger *zerolog.Logger) (*conversation.Driver, error) {
	var backends []llm.Backend

	if cfg.LLM.LocalModel != "" {
		local, err := ollama.NewClient(&ollama.ClientConfig{
			BaseURL:       cfg.LLM.LocalURL,
			Model:         cfg.LLM.LocalModel,
			SupportsTools: cfg.LLM.LocalSupportsTool,
			Timeout:       cfg.LLM.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("local model: %w", err)
		}
		backends = append(backends, local)
	}
	if cfg.LLM.CloudModel != "" {
		cloud, err := openai.NewClient(&openai.ClientConfig{
			BaseURL: cfg.LLM.CloudURL,
			Model:   cfg.LLM.CloudModel,
			APIKey:  cfg.LLM.CloudAPIKey,
			Timeout: cfg.LLM.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("cloud model: %w", err)
		}
		backends = append(backends, cloud)
	}

	chain, err := llm.NewChain(cfg.LLM.Timeout, logger, backends...)
	if err != nil {
		return nil, err
	}

	executor, err := tools.NewExecutor(data, logger)
	if err != nil {
		return nil, err
	}

	return conversation.NewDriver(&conversation.Config{
		Model:             chain,
		Tools:             executor,
		MaxToolIterations: cfg.Advisor.MaxToolIterations,
		Logger:            logger,
	})
}

// createBroadcaster returns an in-process hub, or a hub fed through Redis
// pub/sub when several instances serve the same sessions.
func createBroadcaster(ctx context.Context, cfg config.BroadcastConfig, c cache.Cache, logger *zerolog.Logger) (broadcast.Broadcaster, error) {
	hub := broadcast.NewHub(&broadcast.HubConfig{BufferSize: cfg.ListenerQueue, Logger: logger})

	switch cfg.Type {
	case "local", "":
		return hub, nil
	case "redis":
		rc, ok := c.(*rediscache.Cache)
		if !ok {
			return nil, fmt.Errorf("redis broadcaster requires the redis cache")
		}
		return broadcast.NewRedisRelay(ctx, &broadcast.RedisRelayConfig{
			Client:  rc.Client(),
			Channel: cfg.Channel,
			Hub:     hub,
			Logger:  logger,
		})
	default:
		return nil, fmt.Errorf("unsupported broadcast type: %s", cfg.Type)
	}
}

// setupRouter creates and configures the Gin router.
func setupRouter(cfg *config.Config, svc *advisor.Service, cacheClient cache.Cache, repo store.SessionRepository) *gin.Engine {
	router := gin.New()

	loggingMw := middleware.NewLoggingMiddleware()
	errorMw := middleware.NewErrorMiddleware()
	authMw := middleware.NewAuthMiddleware(cfg.Server.ServiceKeys)
	if !authMw.Enabled() {
		log.Warn().Msg("SERVICE_KEYS not set, API is unauthenticated")
	}

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Server.AllowedOrigins
	}

	routesCfg := &routes.Config{
		HealthHandler:   handlers.NewHealthHandler(cacheClient, repo),
		SessionsHandler: handlers.NewSessionsHandler(svc),
		MessagesHandler: handlers.NewMessagesHandler(svc),
		StreamHandler: handlers.NewStreamHandler(svc, &handlers.StreamConfig{
			OriginPatterns: originPatterns(cfg.Server.AllowedOrigins),
		}),
		CacheHandler:   handlers.NewCacheHandler(svc),
		AuthMiddleware: authMw,
		EnableSwagger:  cfg.Server.GinMode != gin.ReleaseMode,
	}

	routes.SetupWithMiddleware(router, routesCfg, corsCfg, loggingMw, errorMw)

	return router
}

// originPatterns converts CORS origins to the host patterns the WebSocket
// handshake checks against.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if o == "*" {
			return []string{"*"}
		}
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
		}
	}
	return patterns
}
