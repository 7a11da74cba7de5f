package models

import (
	"sort"
	"time"
)

// Game is a scheduled or completed real-world game.
type Game struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	HomeTeam string    `json:"homeTeam"`
	AwayTeam string    `json:"awayTeam"`
	Status   string    `json:"status"`
}

// Involves reports whether the team (abbreviation) plays in the game.
func (g Game) Involves(team string) bool {
	return team != "" && (g.HomeTeam == team || g.AwayTeam == team)
}

// StatLine is one player's box score for one game.
type StatLine struct {
	Date     time.Time          `json:"date"`
	Opponent string             `json:"opponent,omitempty"`
	Minutes  string             `json:"minutes,omitempty"`
	Stats    map[string]float64 `json:"stats"`
}

// SeasonAverage is a player's per-game averages over a season.
type SeasonAverage struct {
	Season      int                `json:"season"`
	GamesPlayed int                `json:"gamesPlayed"`
	Stats       map[string]float64 `json:"stats"`
}

// PlayerRef cross-references a player between the fantasy platform and the
// stats provider. InternalID is the platform-agnostic key used in cache keys.
type PlayerRef struct {
	InternalID string `json:"internalId"`
	PlatformID string `json:"platformId"`
	StatsID    string `json:"statsId"`
	FullName   string `json:"fullName"`
}

// AverageStatLines averages each stat category over the given games.
func AverageStatLines(lines []StatLine) map[string]float64 {
	if len(lines) == 0 {
		return nil
	}
	sums := make(map[string]float64)
	for _, l := range lines {
		for k, v := range l.Stats {
			sums[k] += v
		}
	}
	for k := range sums {
		sums[k] /= float64(len(lines))
	}
	return sums
}

// StatKeys returns the categories present in stats, sorted with the headline
// categories first.
func StatKeys(stats map[string]float64) []string {
	rank := map[string]int{"pts": 0, "reb": 1, "ast": 2, "stl": 3, "blk": 4, "fg3m": 5, "turnover": 6}
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iok := rank[keys[i]]
		rj, jok := rank[keys[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}
