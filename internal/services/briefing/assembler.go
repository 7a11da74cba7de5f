// Package briefing assembles the token-bounded situational summary that is
// sent to the model with every turn.
package briefing

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rosteriq/advisor-service/internal/domain/models"
)

// Defaults for Config fields left at zero.
const (
	DefaultMaxTokens         = 3000
	DefaultScheduleDays      = 7
	DefaultRecentPeriods     = 2
	DefaultHistoryWindowDays = 14
)

// LeagueData is the cache-first data access the assembler reads from.
type LeagueData interface {
	Snapshot(ctx context.Context, leagueID string) (*models.LeagueSnapshot, error)
	State(ctx context.Context) (*models.SportState, error)
	Matchups(ctx context.Context, leagueID string, week int) ([]models.Matchup, error)
	Players(ctx context.Context) (models.PlayerDirectory, error)
	Games(ctx context.Context, day time.Time) ([]models.Game, error)
	ResolvePlayer(ctx context.Context, player models.Player) (*models.PlayerRef, error)
	PlayerStats(ctx context.Context, ref *models.PlayerRef, from, to time.Time) ([]models.StatLine, error)
	SeasonAverage(ctx context.Context, ref *models.PlayerRef, season int) (*models.SeasonAverage, error)
}

// Config holds the configuration for the assembler.
type Config struct {
	Data              LeagueData
	MaxTokens         int
	ScheduleDays      int
	RecentPeriods     int
	HistoryWindowDays int
	Logger            *zerolog.Logger
	Now               func() time.Time
}

// Request identifies whose situation to summarize.
type Request struct {
	Session *models.ChatSession
	Message string
	// Now overrides the assembler clock when set.
	Now time.Time
}

// Assembler builds briefings.
type Assembler struct {
	data          LeagueData
	maxChars      int
	scheduleDays  int
	recentPeriods int
	windowDays    int
	logger        zerolog.Logger
	now           func() time.Time
}

// NewAssembler creates a new briefing assembler.
func NewAssembler(cfg *Config) (*Assembler, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Data == nil {
		return nil, fmt.Errorf("league data is required")
	}

	a := &Assembler{
		data:          cfg.Data,
		maxChars:      orDefault(cfg.MaxTokens, DefaultMaxTokens) * CharsPerToken,
		scheduleDays:  orDefault(cfg.ScheduleDays, DefaultScheduleDays),
		recentPeriods: orDefault(cfg.RecentPeriods, DefaultRecentPeriods),
		windowDays:    orDefault(cfg.HistoryWindowDays, DefaultHistoryWindowDays),
		logger:        log.Logger,
		now:           time.Now,
	}
	if cfg.Logger != nil {
		a.logger = *cfg.Logger
	}
	if cfg.Now != nil {
		a.now = cfg.Now
	}
	return a, nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// MaxChars is the briefing budget in characters.
func (a *Assembler) MaxChars() int {
	return a.maxChars
}

// input is what every section builder sees. Loads that failed leave the
// matching error set.
type input struct {
	session *models.ChatSession
	message string
	now     time.Time

	snapshot   *models.LeagueSnapshot
	leagueErr  error
	rostersErr error
	players     models.PlayerDirectory
	playersErr  error
	state       *models.SportState
	stateErr    error
}

func (in *input) myRoster() *models.Roster {
	if in.rostersErr != nil {
		return nil
	}
	return in.snapshot.RosterByID(in.session.RosterID)
}

// Build produces the briefing for one turn. Source failures are contained in
// their sections; Build only fails on an invalid request.
func (a *Assembler) Build(ctx context.Context, req *Request) (*Briefing, error) {
	if req == nil || req.Session == nil {
		return nil, fmt.Errorf("session is required")
	}

	in := &input{session: req.Session, message: req.Message, now: req.Now}
	if in.now.IsZero() {
		in.now = a.now()
	}

	// Shared loads. Errors are kept per source, not propagated.
	var g errgroup.Group
	g.Go(func() error {
		snap, err := a.data.Snapshot(ctx, req.Session.LeagueID)
		switch {
		case err != nil:
			in.snapshot = &models.LeagueSnapshot{}
			in.leagueErr, in.rostersErr = err, err
		default:
			in.snapshot = snap
			in.leagueErr, in.rostersErr = snap.LeagueErr, snap.RostersErr
		}
		return nil
	})
	g.Go(func() error {
		in.players, in.playersErr = a.data.Players(ctx)
		return nil
	})
	g.Go(func() error {
		in.state, in.stateErr = a.data.State(ctx)
		return nil
	})
	_ = g.Wait()

	history := DetectHistory(req.Message, in.now, a.windowDays)

	builders := map[SectionName]func(context.Context, *input) *Section{
		SectionRules:    a.rulesSection,
		SectionRoster:   a.rosterSection,
		SectionMatchup:  a.matchupSection,
		SectionSchedule: a.scheduleSection,
		SectionInjuries: a.injuriesSection,
		SectionRecent:   a.recentSection,
	}
	if history.Mode != HistoryNone {
		builders[SectionHistory] = func(ctx context.Context, in *input) *Section {
			return a.historySection(ctx, in, history)
		}
	}

	built := make([]*Section, len(Priority))
	var sg errgroup.Group
	for i, name := range Priority {
		build, ok := builders[name]
		if !ok {
			continue
		}
		sg.Go(func() error {
			built[i] = build(ctx, in)
			return nil
		})
	}
	_ = sg.Wait()

	sections := make([]Section, 0, len(built))
	for _, s := range built {
		if s == nil {
			continue
		}
		if s.Unavailable() {
			a.logger.Warn().Str("session_id", req.Session.ID).Str("section", string(s.Name)).Msg("briefing section unavailable")
		}
		sections = append(sections, *s)
	}

	b := Fit(sections, a.maxChars)
	b.Historical = history.Mode != HistoryNone
	if len(b.Dropped) > 0 || b.Shortened != "" {
		a.logger.Debug().
			Str("session_id", req.Session.ID).
			Interface("dropped", b.Dropped).
			Str("shortened", string(b.Shortened)).
			Int("max_chars", a.maxChars).
			Msg("briefing truncated")
	}
	return b, nil
}
