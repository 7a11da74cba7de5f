// Package cachestore provides the kind-aware TTL cache used for league,
// player and schedule data.
package cachestore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rosteriq/advisor-service/internal/core/cache"
	domainerrors "github.com/rosteriq/advisor-service/internal/domain/errors"
	"github.com/rosteriq/advisor-service/internal/pkg/encryption"
)

// Kind partitions cache entries; each kind has its own TTL.
type Kind string

const (
	// KindPlayers holds the player directory and per-player stats.
	KindPlayers Kind = "players"
	// KindLeague holds one league's settings, rosters, users and matchups.
	KindLeague Kind = "league"
	// KindSchedule holds games by date.
	KindSchedule Kind = "schedule"
)

// Default TTLs per kind.
const (
	DefaultPlayersTTL  = 24 * time.Hour
	DefaultLeagueTTL   = 10 * time.Minute
	DefaultScheduleTTL = 6 * time.Hour
)

// Config holds the configuration for the cache store.
type Config struct {
	Cache     cache.Cache
	Encryptor encryption.Encryptor
	KeyPrefix string
	TTLs      map[Kind]time.Duration
	Logger    *zerolog.Logger
	Now       func() time.Time
}

// Store is a TTL cache keyed by (kind, key). Backend failures are logged and
// reported as misses so callers fall back to the upstream gateway.
type Store struct {
	cache     cache.Cache
	encryptor encryption.Encryptor
	prefix    string
	ttls      map[Kind]time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// envelope is the stored form of an entry. ExpiresAt is checked on every read
// so correctness does not depend on the backend evicting on time.
type envelope struct {
	ExpiresAt time.Time `json:"expiresAt"`
	Value     []byte    `json:"value"`
}

// NewStore creates a new cache store.
func NewStore(cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Cache == nil {
		return nil, fmt.Errorf("cache is required")
	}

	s := &Store{
		cache:     cfg.Cache,
		encryptor: cfg.Encryptor,
		prefix:    cfg.KeyPrefix,
		ttls: map[Kind]time.Duration{
			KindPlayers:  DefaultPlayersTTL,
			KindLeague:   DefaultLeagueTTL,
			KindSchedule: DefaultScheduleTTL,
		},
		logger: log.Logger,
		now:    time.Now,
	}
	if s.encryptor == nil {
		s.encryptor = encryption.NoOpEncryptor{}
	}
	if s.prefix == "" {
		s.prefix = "advisor"
	}
	for kind, ttl := range cfg.TTLs {
		if ttl > 0 {
			s.ttls[kind] = ttl
		}
	}
	if cfg.Logger != nil {
		s.logger = *cfg.Logger
	}
	if cfg.Now != nil {
		s.now = cfg.Now
	}

	return s, nil
}

// TTL returns the configured lifetime for entries of kind.
func (s *Store) TTL(kind Kind) time.Duration {
	return s.ttls[kind]
}

// Get returns the value for (kind, key) if present and not expired.
func (s *Store) Get(ctx context.Context, kind Kind, key string) ([]byte, bool) {
	k := s.buildKey(kind, key)

	raw, err := s.cache.Get(ctx, k)
	if err != nil {
		s.logger.Warn().
			Err(domainerrors.NewCacheUnavailableError("get", err)).
			Str("kind", string(kind)).
			Str("key", key).
			Msg("cache read failed, treating as miss")
		return nil, false
	}
	if raw == nil {
		return nil, false
	}

	opened, err := s.encryptor.Open(raw)
	if err != nil {
		// Likely a rotated key; drop the entry so it is refetched.
		_, _ = s.cache.Delete(ctx, k)
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal(opened, &env); err != nil {
		_, _ = s.cache.Delete(ctx, k)
		return nil, false
	}

	if !s.now().Before(env.ExpiresAt) {
		return nil, false
	}

	return env.Value, true
}

// Put stores value under (kind, key). A zero ttl uses the kind's default.
func (s *Store) Put(ctx context.Context, kind Kind, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.TTL(kind)
	}

	data, err := json.Marshal(envelope{ExpiresAt: s.now().Add(ttl), Value: value})
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	sealed, err := s.encryptor.Seal(data)
	if err != nil {
		return fmt.Errorf("failed to seal cache entry: %w", err)
	}

	if err := s.cache.Set(ctx, s.buildKey(kind, key), sealed, ttl); err != nil {
		return domainerrors.NewCacheUnavailableError("set", err)
	}
	return nil
}

// Invalidate removes (kind, key).
func (s *Store) Invalidate(ctx context.Context, kind Kind, key string) error {
	if _, err := s.cache.Delete(ctx, s.buildKey(kind, key)); err != nil {
		return domainerrors.NewCacheUnavailableError("delete", err)
	}
	return nil
}

// InvalidatePrefix removes every key of kind starting with prefix.
func (s *Store) InvalidatePrefix(ctx context.Context, kind Kind, prefix string) (int64, error) {
	n, err := s.cache.DeletePattern(ctx, s.buildKey(kind, prefix)+"*")
	if err != nil {
		return n, domainerrors.NewCacheUnavailableError("delete", err)
	}
	return n, nil
}

// Ping checks the backend.
func (s *Store) Ping(ctx context.Context) error {
	return s.cache.Ping(ctx)
}

func (s *Store) buildKey(kind Kind, key string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, kind, key)
}

// Load is cache-first-with-fallback: a fresh cached value is decoded and
// returned; otherwise fetch is called exactly once and its result is cached
// with the kind's TTL. A failed Put does not fail the call.
func Load[T any](ctx context.Context, s *Store, kind Kind, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	if raw, ok := s.Get(ctx, kind, key); ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	value, err := fetch(ctx)
	if err != nil {
		return value, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return value, nil
	}
	if err := s.Put(ctx, kind, key, data, 0); err != nil {
		s.logger.Warn().Err(err).Str("kind", string(kind)).Str("key", key).Msg("failed to populate cache")
	}

	return value, nil
}
