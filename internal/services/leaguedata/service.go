// Package leaguedata provides cache-first access to league, player and
// schedule data, falling back to the upstream gateways on a miss.
package leaguedata

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	domainerrors "github.com/rosteriq/advisor-service/internal/domain/errors"
	"github.com/rosteriq/advisor-service/internal/domain/models"
	"github.com/rosteriq/advisor-service/internal/pkg/httpx"
	"github.com/rosteriq/advisor-service/internal/services/cachestore"
	"github.com/rosteriq/advisor-service/internal/services/gateways/fantasy"
	"github.com/rosteriq/advisor-service/internal/services/gateways/stats"
)

const dateLayout = "2006-01-02"

// DefaultRosterRetry bounds retries of the roster and league-settings fetches.
var DefaultRosterRetry = httpx.RetryPolicy{Attempts: 3, BaseDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second}

// Config holds the configuration for the league data service.
type Config struct {
	Store       *cachestore.Store
	Fantasy     fantasy.Gateway
	Stats       stats.Gateway
	Sport       string
	RosterRetry *httpx.RetryPolicy
	Logger      *zerolog.Logger
}

// Service reads league data through the cache store.
type Service struct {
	store       *cachestore.Store
	fantasy     fantasy.Gateway
	stats       stats.Gateway
	sport       string
	rosterRetry httpx.RetryPolicy
	logger      zerolog.Logger
}

// NewService creates a new league data service.
func NewService(cfg *Config) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("cache store is required")
	}
	if cfg.Fantasy == nil {
		return nil, fmt.Errorf("fantasy gateway is required")
	}
	if cfg.Stats == nil {
		return nil, fmt.Errorf("stats gateway is required")
	}

	s := &Service{
		store:       cfg.Store,
		fantasy:     cfg.Fantasy,
		stats:       cfg.Stats,
		sport:       cfg.Sport,
		rosterRetry: DefaultRosterRetry,
		logger:      log.Logger,
	}
	if s.sport == "" {
		s.sport = "nba"
	}
	if cfg.RosterRetry != nil {
		s.rosterRetry = *cfg.RosterRetry
	}
	if cfg.Logger != nil {
		s.logger = *cfg.Logger
	}
	return s, nil
}

// Sport returns the sport whose directory and state are served.
func (s *Service) Sport() string {
	return s.sport
}

// State returns the current season and week.
func (s *Service) State(ctx context.Context) (*models.SportState, error) {
	return cachestore.Load(ctx, s.store, cachestore.KindLeague, "state:"+s.sport,
		func(ctx context.Context) (*models.SportState, error) {
			return s.fantasy.GetState(ctx, s.sport)
		})
}

// League returns league settings. Retried: the briefing cannot describe the
// league without them.
func (s *Service) League(ctx context.Context, leagueID string) (*models.League, error) {
	return cachestore.Load(ctx, s.store, cachestore.KindLeague, leagueID+":meta",
		func(ctx context.Context) (*models.League, error) {
			return retryFetch(ctx, s.rosterRetry, func(ctx context.Context) (*models.League, error) {
				return s.fantasy.GetLeague(ctx, leagueID)
			})
		})
}

// Rosters returns every roster in the league. Retried like League.
func (s *Service) Rosters(ctx context.Context, leagueID string) ([]models.Roster, error) {
	return cachestore.Load(ctx, s.store, cachestore.KindLeague, leagueID+":rosters",
		func(ctx context.Context) ([]models.Roster, error) {
			return retryFetch(ctx, s.rosterRetry, func(ctx context.Context) ([]models.Roster, error) {
				return s.fantasy.GetRosters(ctx, leagueID)
			})
		})
}

// Users returns league members.
func (s *Service) Users(ctx context.Context, leagueID string) ([]models.LeagueUser, error) {
	return cachestore.Load(ctx, s.store, cachestore.KindLeague, leagueID+":users",
		func(ctx context.Context) ([]models.LeagueUser, error) {
			return s.fantasy.GetLeagueUsers(ctx, leagueID)
		})
}

// Snapshot loads league settings, rosters and users concurrently. Each part
// fails on its own: a users outage only costs owner labels. Snapshot errors
// only when neither league settings nor rosters could be loaded.
func (s *Service) Snapshot(ctx context.Context, leagueID string) (*models.LeagueSnapshot, error) {
	snap := &models.LeagueSnapshot{}
	var g errgroup.Group

	g.Go(func() error {
		snap.League, snap.LeagueErr = s.League(ctx, leagueID)
		return nil
	})
	g.Go(func() error {
		snap.Rosters, snap.RostersErr = s.Rosters(ctx, leagueID)
		return nil
	})
	g.Go(func() error {
		snap.Users, snap.UsersErr = s.Users(ctx, leagueID)
		return nil
	})
	_ = g.Wait()

	if snap.LeagueErr != nil && snap.RostersErr != nil {
		return nil, errors.Join(snap.LeagueErr, snap.RostersErr)
	}
	if snap.UsersErr != nil {
		s.logger.Warn().Err(snap.UsersErr).Str("league_id", leagueID).Msg("league users unavailable; using generic team labels")
	}
	return snap, nil
}

// Matchups returns a week's pairings and scores.
func (s *Service) Matchups(ctx context.Context, leagueID string, week int) ([]models.Matchup, error) {
	return cachestore.Load(ctx, s.store, cachestore.KindLeague, fmt.Sprintf("%s:matchups:%d", leagueID, week),
		func(ctx context.Context) ([]models.Matchup, error) {
			return s.fantasy.GetMatchups(ctx, leagueID, week)
		})
}

// Transactions always goes to the platform; roster moves are never cached.
func (s *Service) Transactions(ctx context.Context, leagueID string, week int) ([]models.Transaction, error) {
	return s.fantasy.GetTransactions(ctx, leagueID, week)
}

// Players returns the player directory.
func (s *Service) Players(ctx context.Context) (models.PlayerDirectory, error) {
	return cachestore.Load(ctx, s.store, cachestore.KindPlayers, "directory:"+s.sport,
		func(ctx context.Context) (models.PlayerDirectory, error) {
			return s.fantasy.GetPlayers(ctx, s.sport)
		})
}

// Games returns the games on the calendar date of day.
func (s *Service) Games(ctx context.Context, day time.Time) ([]models.Game, error) {
	return cachestore.Load(ctx, s.store, cachestore.KindSchedule, day.Format(dateLayout),
		func(ctx context.Context) ([]models.Game, error) {
			return s.stats.GetGames(ctx, day)
		})
}

// ResolvePlayer maps a platform player to the stats provider through the
// cross-reference table, creating the row on first use.
func (s *Service) ResolvePlayer(ctx context.Context, player models.Player) (*models.PlayerRef, error) {
	return cachestore.Load(ctx, s.store, cachestore.KindPlayers, "xref:"+player.ID,
		func(ctx context.Context) (*models.PlayerRef, error) {
			candidates, err := s.stats.SearchPlayers(ctx, player.FullName)
			if err != nil {
				return nil, err
			}
			match := pickCandidate(player, candidates)
			if match == nil {
				return nil, domainerrors.NewUpstreamNotFoundError("stats provider", "player "+player.FullName)
			}
			return &models.PlayerRef{
				InternalID: "plr_" + match.ID,
				PlatformID: player.ID,
				StatsID:    match.ID,
				FullName:   player.FullName,
			}, nil
		})
}

// PlayerStats returns box scores in [from, to].
func (s *Service) PlayerStats(ctx context.Context, ref *models.PlayerRef, from, to time.Time) ([]models.StatLine, error) {
	key := fmt.Sprintf("stats:%s:%s:%s", ref.InternalID, from.Format(dateLayout), to.Format(dateLayout))
	return cachestore.Load(ctx, s.store, cachestore.KindPlayers, key,
		func(ctx context.Context) ([]models.StatLine, error) {
			return s.stats.GetPlayerStats(ctx, ref.StatsID, from, to)
		})
}

// SeasonAverage returns season averages, or nil if the player did not play.
func (s *Service) SeasonAverage(ctx context.Context, ref *models.PlayerRef, season int) (*models.SeasonAverage, error) {
	key := fmt.Sprintf("avg:%s:%d", ref.InternalID, season)
	return cachestore.Load(ctx, s.store, cachestore.KindPlayers, key,
		func(ctx context.Context) (*models.SeasonAverage, error) {
			return s.stats.GetSeasonAverages(ctx, ref.StatsID, season)
		})
}

// InvalidateLeague drops every cached entry for the league.
func (s *Service) InvalidateLeague(ctx context.Context, leagueID string) (int64, error) {
	n, err := s.store.InvalidatePrefix(ctx, cachestore.KindLeague, leagueID+":")
	if err != nil {
		return n, err
	}
	s.logger.Info().Str("league_id", leagueID).Int64("keys", n).Msg("league cache invalidated")
	return n, nil
}

// pickCandidate prefers an exact name match on the same team, then any exact
// name match, then a sole candidate.
func pickCandidate(player models.Player, candidates []stats.Player) *stats.Player {
	var nameMatch *stats.Player
	for i := range candidates {
		c := &candidates[i]
		if !strings.EqualFold(c.FullName, player.FullName) {
			continue
		}
		if player.Team != "" && c.Team == player.Team {
			return c
		}
		if nameMatch == nil {
			nameMatch = c
		}
	}
	if nameMatch != nil {
		return nameMatch
	}
	if len(candidates) == 1 {
		return &candidates[0]
	}
	return nil
}

func retryFetch[T any](ctx context.Context, policy httpx.RetryPolicy, fetch func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := httpx.Retry(ctx, policy, func(ctx context.Context) error {
		v, err := fetch(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
