// Package testutil provides shared fixtures and helpers for tests.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rosteriq/advisor-service/internal/domain/models"
	"github.com/rosteriq/advisor-service/internal/infrastructure/cache/memory"
	"github.com/rosteriq/advisor-service/internal/services/cachestore"
)

// Test identifiers shared across fixtures.
const (
	TestLeagueID = "L1"
	TestUserID   = "u1"
	TestRosterID = "1"
	TestSport    = "nba"
)

// NewTestLeague creates a test league.
func NewTestLeague() *models.League {
	return &models.League{
		ID:               TestLeagueID,
		Name:             "Hoops Dynasty",
		Season:           "2023",
		Sport:            TestSport,
		Status:           "in_season",
		TotalRosters:     2,
		RosterPositions:  []string{"PG", "SG", "SF", "PF", "C", "UTIL", "BN", "BN"},
		ScoringSettings:  map[string]float64{"pts": 1, "reb": 1.2, "ast": 1.5, "stl": 3, "blk": 3, "turnover": -1},
		PlayoffWeekStart: 20,
	}
}

// NewTestRosters creates the two rosters of the test league. Roster 1 belongs
// to TestUserID.
func NewTestRosters() []models.Roster {
	return []models.Roster{
		{
			RosterID: 1, OwnerID: "u1",
			Players:  []string{"p1", "p2", "p3"},
			Starters: []string{"p1", "p2"},
			Wins:     4, Losses: 2, PointsFor: 812.45,
		},
		{
			RosterID: 2, OwnerID: "u2",
			Players:  []string{"p4", "p5", "p6"},
			Starters: []string{"p4", "p5"},
			Wins:     3, Losses: 3, PointsFor: 790.1,
		},
	}
}

// NewTestUsers creates the members of the test league.
func NewTestUsers() []models.LeagueUser {
	return []models.LeagueUser{
		{UserID: "u1", DisplayName: "alice", TeamName: "Splash Brothers"},
		{UserID: "u2", DisplayName: "bob", TeamName: "Dunk City"},
	}
}

// NewTestSnapshot bundles the test league, rosters and users.
func NewTestSnapshot() *models.LeagueSnapshot {
	return &models.LeagueSnapshot{League: NewTestLeague(), Rosters: NewTestRosters(), Users: NewTestUsers()}
}

// NewTestPlayers creates a player directory covering both rosters and three
// free agents (p7, p8, p9).
func NewTestPlayers() models.PlayerDirectory {
	return models.PlayerDirectory{
		"p1": {ID: "p1", FullName: "Jalen Brunson", Position: "PG", Team: "NYK", Status: "Active", SearchRank: 30},
		"p2": {ID: "p2", FullName: "Nikola Jokic", Position: "C", Team: "DEN", Status: "Active", SearchRank: 1},
		"p3": {ID: "p3", FullName: "LeBron James", Position: "SF", Team: "LAL", Status: "Active", InjuryStatus: "Questionable", SearchRank: 12},
		"p4": {ID: "p4", FullName: "Stephen Curry", Position: "PG", Team: "GSW", Status: "Active", SearchRank: 5},
		"p5": {ID: "p5", FullName: "Anthony Davis", Position: "PF", Team: "LAL", Status: "Active", SearchRank: 8},
		"p6": {ID: "p6", FullName: "Jayson Tatum", Position: "SF", Team: "BOS", Status: "Active", SearchRank: 4},
		"p7": {ID: "p7", FullName: "Walker Kessler", Position: "C", Team: "UTA", Status: "Active", SearchRank: 90},
		"p8": {ID: "p8", FullName: "Naz Reid", Position: "C", Team: "MIN", Status: "Active", InjuryStatus: "Out", SearchRank: 120},
		"p9": {ID: "p9", FullName: "Tyus Jones", Position: "PG", Team: "WAS", Status: "Active", SearchRank: 110},
	}
}

// NewTestState creates an in-season sport state at week 3.
func NewTestState() *models.SportState {
	return &models.SportState{Season: "2023", SeasonType: "regular", Week: 3}
}

// NewTestMatchups pairs roster 1 against roster 2.
func NewTestMatchups() []models.Matchup {
	return []models.Matchup{
		{RosterID: 1, MatchupID: 1, Points: 101.5},
		{RosterID: 2, MatchupID: 1, Points: 96.25},
	}
}

// NewTestSession creates an active chat session for the test league.
func NewTestSession() *models.ChatSession {
	return models.NewChatSession(TestUserID, TestLeagueID, TestRosterID)
}

// NewTestMessages creates count alternating user and assistant messages.
func NewTestMessages(sessionID string, count int) []*models.ChatMessage {
	msgs := make([]*models.ChatMessage, 0, count)
	for i := 0; i < count; i++ {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		msg := models.NewChatMessage(sessionID, role, "message", nil)
		msg.Seq = int64(i + 1)
		msgs = append(msgs, msg)
	}
	return msgs
}

// NewTestCacheStore creates a cache store over the in-memory cache. now may be
// nil to use the wall clock.
func NewTestCacheStore(t *testing.T, now func() time.Time) *cachestore.Store {
	t.Helper()

	store, err := cachestore.NewStore(&cachestore.Config{Cache: memory.NewCache(), Now: now})
	require.NoError(t, err)
	return store
}
