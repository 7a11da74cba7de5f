package briefing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosteriq/advisor-service/internal/domain/models"
	"github.com/rosteriq/advisor-service/internal/testutil"
)

var errSource = errors.New("upstream down")

type statsCall struct {
	from, to time.Time
}

type fakeData struct {
	mu sync.Mutex

	snapshot    *models.LeagueSnapshot
	snapshotErr error
	players     models.PlayerDirectory
	state       *models.SportState
	stateErr    error
	matchups    map[int][]models.Matchup
	games       map[string][]models.Game
	statLines   []models.StatLine
	averages    map[int]*models.SeasonAverage

	statsCalls []statsCall
	avgCalls   []int
}

func newFakeData() *fakeData {
	return &fakeData{
		snapshot: testutil.NewTestSnapshot(),
		players:  testutil.NewTestPlayers(),
		state:    testutil.NewTestState(),
		matchups: map[int][]models.Matchup{
			3: testutil.NewTestMatchups(),
			2: {
				{RosterID: 1, MatchupID: 1, Points: 110.25, PlayersPoints: map[string]float64{"p1": 40, "p2": 52.5}},
				{RosterID: 2, MatchupID: 1, Points: 98},
			},
		},
		games: map[string][]models.Game{
			"2023-10-16": {{ID: "g1", HomeTeam: "NYK", AwayTeam: "BOS"}},
			"2023-10-17": {{ID: "g2", HomeTeam: "DEN", AwayTeam: "LAL"}},
		},
		averages: map[int]*models.SeasonAverage{},
	}
}

func (f *fakeData) Snapshot(context.Context, string) (*models.LeagueSnapshot, error) {
	return f.snapshot, f.snapshotErr
}

func (f *fakeData) State(context.Context) (*models.SportState, error) {
	return f.state, f.stateErr
}

func (f *fakeData) Matchups(_ context.Context, _ string, week int) ([]models.Matchup, error) {
	return f.matchups[week], nil
}

func (f *fakeData) Players(context.Context) (models.PlayerDirectory, error) {
	return f.players, nil
}

func (f *fakeData) Games(_ context.Context, day time.Time) ([]models.Game, error) {
	return f.games[day.Format("2006-01-02")], nil
}

func (f *fakeData) ResolvePlayer(_ context.Context, p models.Player) (*models.PlayerRef, error) {
	return &models.PlayerRef{InternalID: "plr_" + p.ID, PlatformID: p.ID, StatsID: "s" + p.ID, FullName: p.FullName}, nil
}

func (f *fakeData) PlayerStats(_ context.Context, _ *models.PlayerRef, from, to time.Time) ([]models.StatLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsCalls = append(f.statsCalls, statsCall{from: from, to: to})
	return f.statLines, nil
}

func (f *fakeData) SeasonAverage(_ context.Context, _ *models.PlayerRef, season int) (*models.SeasonAverage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.avgCalls = append(f.avgCalls, season)
	return f.averages[season], nil
}

var testNow = time.Date(2023, time.October, 16, 15, 0, 0, 0, time.UTC)

func newTestAssembler(t *testing.T, data LeagueData, maxTokens int) *Assembler {
	t.Helper()
	a, err := NewAssembler(&Config{Data: data, MaxTokens: maxTokens, Now: func() time.Time { return testNow }})
	require.NoError(t, err)
	return a
}

func build(t *testing.T, a *Assembler, message string) *Briefing {
	t.Helper()
	b, err := a.Build(context.Background(), &Request{Session: testutil.NewTestSession(), Message: message})
	require.NoError(t, err)
	return b
}

func TestNewAssembler_Validation(t *testing.T) {
	_, err := NewAssembler(nil)
	assert.EqualError(t, err, "config is required")

	_, err = NewAssembler(&Config{})
	assert.EqualError(t, err, "league data is required")

	a := newTestAssembler(t, newFakeData(), 0)
	assert.Equal(t, DefaultMaxTokens*CharsPerToken, a.MaxChars())
}

func TestBuild_SectionsInPriorityOrder(t *testing.T) {
	b := build(t, newTestAssembler(t, newFakeData(), 0), "who should I start?")

	assert.Equal(t, []SectionName{SectionRules, SectionRoster, SectionMatchup, SectionSchedule, SectionInjuries, SectionRecent}, names(b.Sections))
	assert.False(t, b.Historical)
	assert.Empty(t, b.Dropped)

	text := b.String()
	assert.Contains(t, text, "League: Hoops Dynasty (2023 season, 2 teams)")
	assert.Contains(t, text, "Splash Brothers (4-2-0, 812.45 pts)")
	assert.Contains(t, text, "- Bench: LeBron James (SF, LAL) [Questionable]")
	assert.Contains(t, text, "- LeBron James (SF, LAL): Questionable")
	assert.Contains(t, text, "- Mon Oct 16: Jalen Brunson")
	assert.Contains(t, text, "- Tue Oct 17: LeBron James, Nikola Jokic")
	assert.Contains(t, text, "- Week 2: 110.25 pts vs Dunk City 98.00 (W); top: Nikola Jokic 52.50")
}

func TestBuild_MatchupNamesOpponentAndScore(t *testing.T) {
	b := build(t, newTestAssembler(t, newFakeData(), 0), "who is my matchup this week?")

	m := b.Section(SectionMatchup)
	require.NotNil(t, m)
	assert.Equal(t, "## Week 3 matchup", m.Heading)
	assert.Contains(t, m.Lines, "Opponent: Dunk City (bob, 3-3-0)")
	assert.Contains(t, m.Lines, "Score: Splash Brothers 101.50 - 96.25 Dunk City")
	assert.Contains(t, m.Render(), "Stephen Curry")
}

func TestBuild_MatchupOmittedWhenUnresolved(t *testing.T) {
	t.Run("bye week", func(t *testing.T) {
		data := newFakeData()
		data.matchups[3] = []models.Matchup{{RosterID: 1, MatchupID: 0}, {RosterID: 2, MatchupID: 0}}
		b := build(t, newTestAssembler(t, data, 0), "hi")
		assert.Nil(t, b.Section(SectionMatchup))
	})

	t.Run("preseason", func(t *testing.T) {
		data := newFakeData()
		data.state = &models.SportState{Season: "2023", SeasonType: "pre", Week: 0}
		b := build(t, newTestAssembler(t, data, 0), "hi")
		assert.Nil(t, b.Section(SectionMatchup))
		assert.Equal(t, []string{"No completed weeks yet."}, b.Section(SectionRecent).Lines)
	})

	t.Run("no matchup row", func(t *testing.T) {
		data := newFakeData()
		delete(data.matchups, 3)
		b := build(t, newTestAssembler(t, data, 0), "hi")
		assert.Nil(t, b.Section(SectionMatchup))
	})
}

func TestBuild_FailedSourceRendersUnavailable(t *testing.T) {
	data := newFakeData()
	data.stateErr = errSource

	b := build(t, newTestAssembler(t, data, 0), "hi")

	require.NotNil(t, b.Section(SectionRules))
	assert.False(t, b.Section(SectionRules).Unavailable())
	assert.True(t, b.Section(SectionMatchup).Unavailable())
	assert.True(t, b.Section(SectionRecent).Unavailable())
}

func TestBuild_SnapshotFailureDoesNotFailBuild(t *testing.T) {
	data := newFakeData()
	data.snapshot, data.snapshotErr = nil, errSource

	b := build(t, newTestAssembler(t, data, 0), "hi")
	for _, s := range b.Sections {
		assert.True(t, s.Unavailable(), "section %s", s.Name)
	}
}

func TestBuild_UsersFailureOnlyLosesOwnerLabels(t *testing.T) {
	data := newFakeData()
	data.snapshot.Users = nil
	data.snapshot.UsersErr = errSource

	b := build(t, newTestAssembler(t, data, 0), "hi")

	rules := b.Section(SectionRules)
	require.NotNil(t, rules)
	assert.False(t, rules.Unavailable())

	roster := b.Section(SectionRoster)
	require.NotNil(t, roster)
	assert.False(t, roster.Unavailable())
	assert.Contains(t, roster.Heading, "Team 1")
}

func TestBuild_LeagueSettingsFailureOnlyLosesRules(t *testing.T) {
	data := newFakeData()
	data.snapshot.League = nil
	data.snapshot.LeagueErr = errSource

	b := build(t, newTestAssembler(t, data, 0), "hi")

	assert.True(t, b.Section(SectionRules).Unavailable())
	assert.False(t, b.Section(SectionRoster).Unavailable())
}

func TestBuild_HistoricalWindowUsesRangedStats(t *testing.T) {
	data := newFakeData()
	data.statLines = []models.StatLine{
		{Stats: map[string]float64{"pts": 30, "reb": 8}},
		{Stats: map[string]float64{"pts": 20, "reb": 10}},
	}
	data.averages[2022] = &models.SeasonAverage{Season: 2022, GamesPlayed: 55, Stats: map[string]float64{"pts": 28.9}}

	b := build(t, newTestAssembler(t, data, 0), "What was LeBron James's average around this time in 2022?")

	assert.True(t, b.Historical)
	require.Len(t, data.statsCalls, 1)
	assert.Equal(t, time.Date(2022, time.October, 2, 0, 0, 0, 0, time.UTC), data.statsCalls[0].from)
	assert.Equal(t, time.Date(2022, time.October, 30, 0, 0, 0, 0, time.UTC), data.statsCalls[0].to)
	assert.Empty(t, data.avgCalls)

	h := b.Section(SectionHistory)
	require.NotNil(t, h)
	assert.Equal(t, []string{"- LeBron James, 2022-10-02 to 2022-10-30 (2 games): 25.0 pts, 9.0 reb"}, h.Lines)
}

func TestBuild_HistoricalWindowFallsBackToSeasonAverages(t *testing.T) {
	data := newFakeData()
	data.averages[2022] = &models.SeasonAverage{Season: 2022, GamesPlayed: 55, Stats: map[string]float64{"pts": 28.9}}

	b := build(t, newTestAssembler(t, data, 0), "What was LeBron James's average around this time in 2022?")

	assert.Equal(t, []int{2022}, data.avgCalls)
	h := b.Section(SectionHistory)
	require.NotNil(t, h)
	assert.Equal(t, []string{"- LeBron James: no games between 2022-10-02 and 2022-10-30; 2022-23 season averages (55 games): 28.9 pts"}, h.Lines)
}

func TestBuild_CareerSkipsSeasonsWithoutGames(t *testing.T) {
	data := newFakeData()
	data.averages[2023] = &models.SeasonAverage{Season: 2023, GamesPlayed: 3, Stats: map[string]float64{"pts": 21}}
	data.averages[2021] = &models.SeasonAverage{Season: 2021, GamesPlayed: 66, Stats: map[string]float64{"pts": 18.5}}

	b := build(t, newTestAssembler(t, data, 0), "Brunson career averages")

	assert.ElementsMatch(t, []int{2023, 2022, 2021, 2020, 2019}, data.avgCalls)
	assert.Equal(t, []string{"- Jalen Brunson: 2023-24 (3 games): 21.0 pts; 2021-22 (66 games): 18.5 pts"},
		b.Section(SectionHistory).Lines)
}

func TestBuild_BoundedAndDropsLowestPriority(t *testing.T) {
	data := newFakeData()
	full := build(t, newTestAssembler(t, data, 0), "how did Jokic do last season?")
	require.NotNil(t, full.Section(SectionHistory))
	rules := *full.Section(SectionRules)

	// Room for the rules section and a little more.
	maxTokens := (rules.Size() + 40) / CharsPerToken
	a := newTestAssembler(t, data, maxTokens)
	b := build(t, a, "how did Jokic do last season?")

	assert.LessOrEqual(t, b.Size(), a.MaxChars())
	require.NotEmpty(t, b.Sections)
	assert.Equal(t, rules, b.Sections[0])
	require.NotEmpty(t, b.Dropped)
	assert.Equal(t, SectionHistory, b.Dropped[0])
}

func TestBuild_RequiresSession(t *testing.T) {
	a := newTestAssembler(t, newFakeData(), 0)
	_, err := a.Build(context.Background(), &Request{Message: "hi"})
	assert.Error(t, err)
}
