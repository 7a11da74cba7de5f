package leaguedata_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/rosteriq/advisor-service/internal/domain/errors"
	"github.com/rosteriq/advisor-service/internal/domain/models"
	"github.com/rosteriq/advisor-service/internal/pkg/httpx"
	"github.com/rosteriq/advisor-service/internal/services/gateways/stats"
	"github.com/rosteriq/advisor-service/internal/services/leaguedata"
	"github.com/rosteriq/advisor-service/internal/testutil"
	"github.com/rosteriq/advisor-service/internal/testutil/mocks"
)

type fixture struct {
	svc     *leaguedata.Service
	fantasy *mocks.MockFantasyGateway
	stats   *mocks.MockStatsGateway
	now     time.Time
}

func (f *fixture) clock() time.Time { return f.now }

func setup(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		fantasy: new(mocks.MockFantasyGateway),
		stats:   new(mocks.MockStatsGateway),
		now:     time.Date(2023, 11, 1, 12, 0, 0, 0, time.UTC),
	}
	svc, err := leaguedata.NewService(&leaguedata.Config{
		Store:       testutil.NewTestCacheStore(t, f.clock),
		Fantasy:     f.fantasy,
		Stats:       f.stats,
		Sport:       testutil.TestSport,
		RosterRetry: &httpx.RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond},
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func TestNewService_Validation(t *testing.T) {
	_, err := leaguedata.NewService(nil)
	assert.EqualError(t, err, "config is required")

	_, err = leaguedata.NewService(&leaguedata.Config{})
	assert.EqualError(t, err, "cache store is required")
}

func TestSnapshot_CachedAfterFirstLoad(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.fantasy.On("GetLeague", mock.Anything, "L1").Return(testutil.NewTestLeague(), nil).Once()
	f.fantasy.On("GetRosters", mock.Anything, "L1").Return(testutil.NewTestRosters(), nil).Once()
	f.fantasy.On("GetLeagueUsers", mock.Anything, "L1").Return(testutil.NewTestUsers(), nil).Once()

	snap, err := f.svc.Snapshot(ctx, "L1")
	require.NoError(t, err)
	assert.Equal(t, "Hoops Dynasty", snap.League.Name)
	assert.Len(t, snap.Rosters, 2)

	snap, err = f.svc.Snapshot(ctx, "L1")
	require.NoError(t, err)
	assert.Equal(t, "Splash Brothers", snap.Owner(snap.RosterByID("1")).Label())

	f.fantasy.AssertExpectations(t)
}

func TestSnapshot_UsersFailureKeepsLeagueAndRosters(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.fantasy.On("GetLeague", mock.Anything, "L1").Return(testutil.NewTestLeague(), nil)
	f.fantasy.On("GetRosters", mock.Anything, "L1").Return(testutil.NewTestRosters(), nil)
	f.fantasy.On("GetLeagueUsers", mock.Anything, "L1").
		Return(nil, domainerrors.NewUpstreamNotFoundError("fantasy platform", "league users"))

	snap, err := f.svc.Snapshot(ctx, "L1")
	require.NoError(t, err)
	assert.NoError(t, snap.LeagueErr)
	assert.NoError(t, snap.RostersErr)
	assert.True(t, domainerrors.IsUpstreamNotFound(snap.UsersErr))

	assert.Equal(t, "Hoops Dynasty", snap.League.Name)
	require.Len(t, snap.Rosters, 2)
	assert.Equal(t, "Team 1", snap.Owner(snap.RosterByID("1")).Label())
}

func TestSnapshot_FailsWhenLeagueAndRostersBothFail(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	notFound := domainerrors.NewUpstreamNotFoundError("fantasy platform", "league L1")
	f.fantasy.On("GetLeague", mock.Anything, "L1").Return(nil, notFound)
	f.fantasy.On("GetRosters", mock.Anything, "L1").Return(nil, notFound)
	f.fantasy.On("GetLeagueUsers", mock.Anything, "L1").Return(testutil.NewTestUsers(), nil)

	snap, err := f.svc.Snapshot(ctx, "L1")
	assert.Nil(t, snap)
	assert.True(t, domainerrors.IsUpstreamNotFound(err))
}

func TestSnapshot_LeagueDataExpiresAfterTenMinutes(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.fantasy.On("GetRosters", mock.Anything, "L1").Return(testutil.NewTestRosters(), nil).Twice()

	_, err := f.svc.Rosters(ctx, "L1")
	require.NoError(t, err)

	f.now = f.now.Add(9 * time.Minute)
	_, err = f.svc.Rosters(ctx, "L1")
	require.NoError(t, err)

	f.now = f.now.Add(2 * time.Minute)
	_, err = f.svc.Rosters(ctx, "L1")
	require.NoError(t, err)

	f.fantasy.AssertNumberOfCalls(t, "GetRosters", 2)
}

func TestRosters_RetriesTransientFailures(t *testing.T) {
	f := setup(t)

	unavailable := domainerrors.NewUpstreamUnavailableError("fantasy platform", assert.AnError)
	f.fantasy.On("GetRosters", mock.Anything, "L1").Return(nil, unavailable).Twice()
	f.fantasy.On("GetRosters", mock.Anything, "L1").Return(testutil.NewTestRosters(), nil).Once()

	rosters, err := f.svc.Rosters(context.Background(), "L1")
	require.NoError(t, err)
	assert.Len(t, rosters, 2)
	f.fantasy.AssertNumberOfCalls(t, "GetRosters", 3)
}

func TestLeague_NotFoundIsNotRetried(t *testing.T) {
	f := setup(t)

	f.fantasy.On("GetLeague", mock.Anything, "nope").
		Return(nil, domainerrors.NewUpstreamNotFoundError("fantasy platform", "league nope")).Once()

	_, err := f.svc.League(context.Background(), "nope")
	assert.True(t, domainerrors.IsUpstreamNotFound(err))
	f.fantasy.AssertNumberOfCalls(t, "GetLeague", 1)
}

func TestTransactions_AlwaysLive(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.fantasy.On("GetTransactions", mock.Anything, "L1", 3).Return([]models.Transaction{{ID: "t1"}}, nil)

	for i := 0; i < 3; i++ {
		txs, err := f.svc.Transactions(ctx, "L1", 3)
		require.NoError(t, err)
		assert.Len(t, txs, 1)
	}
	f.fantasy.AssertNumberOfCalls(t, "GetTransactions", 3)
}

func TestGames_CachedPerDate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	day := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)

	f.stats.On("GetGames", mock.Anything, day).
		Return([]models.Game{{ID: "g1", HomeTeam: "NYK", AwayTeam: "BOS"}}, nil).Once()

	for i := 0; i < 2; i++ {
		games, err := f.svc.Games(ctx, day)
		require.NoError(t, err)
		require.Len(t, games, 1)
	}
	f.stats.AssertExpectations(t)
}

func TestResolvePlayer(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	lebron := testutil.NewTestPlayers()["p3"]

	f.stats.On("SearchPlayers", mock.Anything, "LeBron James").Return([]stats.Player{
		{ID: "100", FullName: "LeBron James", Team: "CLE"},
		{ID: "237", FullName: "LeBron James", Team: "LAL"},
	}, nil).Once()

	ref, err := f.svc.ResolvePlayer(ctx, lebron)
	require.NoError(t, err)
	assert.Equal(t, "237", ref.StatsID)
	assert.Equal(t, "p3", ref.PlatformID)
	assert.Equal(t, "plr_237", ref.InternalID)

	// The cross-reference is reused.
	_, err = f.svc.ResolvePlayer(ctx, lebron)
	require.NoError(t, err)
	f.stats.AssertExpectations(t)
}

func TestResolvePlayer_NoCandidates(t *testing.T) {
	f := setup(t)

	f.stats.On("SearchPlayers", mock.Anything, "Nobody").Return([]stats.Player{}, nil)

	_, err := f.svc.ResolvePlayer(context.Background(), models.Player{ID: "x", FullName: "Nobody"})
	assert.True(t, domainerrors.IsUpstreamNotFound(err))
}

func TestSeasonAverage_NoGamesIsCachedAsNil(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	ref := &models.PlayerRef{InternalID: "plr_237", StatsID: "237"}

	f.stats.On("GetSeasonAverages", mock.Anything, "237", 2003).Return(nil, nil).Once()

	for i := 0; i < 2; i++ {
		avg, err := f.svc.SeasonAverage(ctx, ref, 2003)
		require.NoError(t, err)
		assert.Nil(t, avg)
	}
	f.stats.AssertExpectations(t)
}

func TestInvalidateLeague(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.fantasy.On("GetMatchups", mock.Anything, "L1", 3).Return(testutil.NewTestMatchups(), nil).Twice()

	_, err := f.svc.Matchups(ctx, "L1", 3)
	require.NoError(t, err)

	n, err := f.svc.InvalidateLeague(ctx, "L1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = f.svc.Matchups(ctx, "L1", 3)
	require.NoError(t, err)
	f.fantasy.AssertNumberOfCalls(t, "GetMatchups", 2)
}
