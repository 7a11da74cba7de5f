package models

import (
	"strconv"
	"time"
)

// League is the rules-and-settings view of a fantasy league.
type League struct {
	ID               string             `json:"leagueId"`
	Name             string             `json:"name"`
	Season           string             `json:"season"`
	Sport            string             `json:"sport"`
	Status           string             `json:"status"`
	TotalRosters     int                `json:"totalRosters"`
	RosterPositions  []string           `json:"rosterPositions"`
	ScoringSettings  map[string]float64 `json:"scoringSettings"`
	PlayoffWeekStart int                `json:"playoffWeekStart"`
}

// Roster is one team's holdings and standing within a league.
type Roster struct {
	RosterID  int      `json:"rosterId"`
	OwnerID   string   `json:"ownerId"`
	Players   []string `json:"players"`
	Starters  []string `json:"starters"`
	Reserve   []string `json:"reserve"`
	Wins      int      `json:"wins"`
	Losses    int      `json:"losses"`
	Ties      int      `json:"ties"`
	PointsFor float64  `json:"pointsFor"`
}

// Bench returns rostered players who are neither starting nor on reserve.
func (r *Roster) Bench() []string {
	skip := make(map[string]bool, len(r.Starters)+len(r.Reserve))
	for _, id := range r.Starters {
		skip[id] = true
	}
	for _, id := range r.Reserve {
		skip[id] = true
	}
	var bench []string
	for _, id := range r.Players {
		if !skip[id] {
			bench = append(bench, id)
		}
	}
	return bench
}

// LeagueUser is a league member; TeamName may be empty.
type LeagueUser struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	TeamName    string `json:"teamName"`
}

// Label returns the team name, or the display name when the team is unnamed.
func (u LeagueUser) Label() string {
	if u.TeamName != "" {
		return u.TeamName
	}
	return u.DisplayName
}

// LeagueSnapshot bundles the per-league data cached under the league kind.
// Parts load independently; a part whose load failed is left empty and its
// error is set.
type LeagueSnapshot struct {
	League  *League      `json:"league"`
	Rosters []Roster     `json:"rosters"`
	Users   []LeagueUser `json:"users"`

	LeagueErr  error `json:"-"`
	RostersErr error `json:"-"`
	UsersErr   error `json:"-"`
}

// RosterByID finds a roster by its string or numeric identifier.
func (s *LeagueSnapshot) RosterByID(rosterID string) *Roster {
	for i := range s.Rosters {
		if strconv.Itoa(s.Rosters[i].RosterID) == rosterID {
			return &s.Rosters[i]
		}
	}
	return nil
}

// Owner returns the league user owning the roster.
func (s *LeagueSnapshot) Owner(r *Roster) LeagueUser {
	for _, u := range s.Users {
		if u.UserID == r.OwnerID {
			return u
		}
	}
	return LeagueUser{UserID: r.OwnerID, DisplayName: "Team " + strconv.Itoa(r.RosterID)}
}

// Matchup is one roster's side of a weekly head-to-head pairing.
// MatchupID 0 means the roster has no opponent that week.
type Matchup struct {
	RosterID      int                `json:"rosterId"`
	MatchupID     int                `json:"matchupId"`
	Points        float64            `json:"points"`
	Starters      []string           `json:"starters"`
	PlayersPoints map[string]float64 `json:"playersPoints"`
}

// Transaction is a completed or pending roster move.
type Transaction struct {
	ID        string         `json:"transactionId"`
	Type      string         `json:"type"`
	Status    string         `json:"status"`
	Created   time.Time      `json:"created"`
	RosterIDs []int          `json:"rosterIds"`
	Adds      map[string]int `json:"adds"`
	Drops     map[string]int `json:"drops"`
}

// Player is an entry in the platform's player directory.
type Player struct {
	ID           string `json:"playerId"`
	FullName     string `json:"fullName"`
	Position     string `json:"position"`
	Team         string `json:"team"`
	InjuryStatus string `json:"injuryStatus,omitempty"`
	Status       string `json:"status,omitempty"`
	SearchRank   int    `json:"searchRank,omitempty"`
}

// PlayerDirectory maps platform player IDs to players.
type PlayerDirectory map[string]Player

// Name returns the player's name, falling back to the raw identifier.
func (d PlayerDirectory) Name(id string) string {
	if p, ok := d[id]; ok && p.FullName != "" {
		return p.FullName
	}
	return id
}

// SportState is the platform's view of where the season currently is.
type SportState struct {
	Season     string `json:"season"`
	SeasonType string `json:"seasonType"`
	Week       int    `json:"week"`
}

// InSeason reports whether weekly matchups are being played.
func (s *SportState) InSeason() bool {
	return s.Week > 0 && (s.SeasonType == "regular" || s.SeasonType == "post")
}
