package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoster_Bench(t *testing.T) {
	r := Roster{
		Players:  []string{"1", "2", "3", "4", "5"},
		Starters: []string{"1", "2"},
		Reserve:  []string{"5"},
	}
	assert.Equal(t, []string{"3", "4"}, r.Bench())
}

func TestLeagueSnapshot_RosterAndOwner(t *testing.T) {
	snap := &LeagueSnapshot{
		Rosters: []Roster{{RosterID: 1, OwnerID: "u1"}, {RosterID: 2, OwnerID: "u2"}},
		Users:   []LeagueUser{{UserID: "u1", DisplayName: "alice", TeamName: "Splash Bros"}},
	}

	r := snap.RosterByID("2")
	if assert.NotNil(t, r) {
		assert.Equal(t, "u2", r.OwnerID)
		assert.Equal(t, "Team 2", snap.Owner(r).Label())
	}
	assert.Equal(t, "Splash Bros", snap.Owner(snap.RosterByID("1")).Label())
	assert.Nil(t, snap.RosterByID("9"))
}

func TestSportState_InSeason(t *testing.T) {
	assert.True(t, (&SportState{SeasonType: "regular", Week: 3}).InSeason())
	assert.False(t, (&SportState{SeasonType: "pre", Week: 0}).InSeason())
	assert.False(t, (&SportState{SeasonType: "off", Week: 12}).InSeason())
}

func TestAverageStatLines(t *testing.T) {
	avg := AverageStatLines([]StatLine{
		{Stats: map[string]float64{"pts": 20, "reb": 4}},
		{Stats: map[string]float64{"pts": 30, "reb": 8}},
	})
	assert.InDelta(t, 25.0, avg["pts"], 0.001)
	assert.InDelta(t, 6.0, avg["reb"], 0.001)
	assert.Nil(t, AverageStatLines(nil))
}

func TestStatKeys_HeadlineFirst(t *testing.T) {
	keys := StatKeys(map[string]float64{"ftm": 1, "ast": 2, "pts": 3, "fga": 4})
	assert.Equal(t, []string{"pts", "ast", "fga", "ftm"}, keys)
}

func TestChatSession_IsArchived(t *testing.T) {
	s := NewChatSession("u1", "l1", "3")
	assert.False(t, s.IsArchived())
	assert.NotEmpty(t, s.ID)
	s.Status = SessionStatusArchived
	assert.True(t, s.IsArchived())
}
