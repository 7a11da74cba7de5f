package briefing

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rosteriq/advisor-service/internal/domain/models"
)

// HistoryMode selects which historical data a query asks for.
type HistoryMode int

const (
	// HistoryNone means the detector did not fire.
	HistoryNone HistoryMode = iota
	// HistoryWindow asks for games in a date window around today's month/day.
	HistoryWindow
	// HistorySeason asks for one season's averages.
	HistorySeason
	// HistoryCareer asks for several seasons of averages.
	HistoryCareer
)

// careerSeasons bounds HistoryCareer lookups.
const careerSeasons = 5

// maxHistoryPlayers bounds how many players one query can pull stats for.
const maxHistoryPlayers = 3

var yearPattern = regexp.MustCompile(`\b(19[9][0-9]|20[0-9]{2})\b`)

var windowPhrases = []string{"around this time", "this time last year"}

var seasonPhrases = []string{"last season", "last year"}

var careerPhrases = []string{"career", "historically"}

// HistoryQuery is the detector's reading of a message.
type HistoryQuery struct {
	Mode HistoryMode
	// From and To bound a HistoryWindow query, inclusive.
	From time.Time
	To   time.Time
	// Seasons lists the seasons for HistorySeason and HistoryCareer, newest
	// first, and the fallback season for HistoryWindow.
	Seasons []int
}

// SeasonFor returns the season a date belongs to. Seasons start in the fall,
// so dates before August count toward the previous year's season.
func SeasonFor(t time.Time) int {
	if t.Month() < time.August {
		return t.Year() - 1
	}
	return t.Year()
}

// DetectHistory reads message relative to now. windowDays is the half-width
// of the date window.
func DetectHistory(message string, now time.Time, windowDays int) HistoryQuery {
	text := strings.ToLower(message)

	year := 0
	if m := yearPattern.FindString(text); m != "" {
		year, _ = strconv.Atoi(m)
	}

	switch {
	case containsAny(text, windowPhrases):
		if year == 0 {
			year = now.Year() - 1
		}
		center := time.Date(year, now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		window := time.Duration(windowDays) * 24 * time.Hour
		return HistoryQuery{
			Mode:    HistoryWindow,
			From:    center.Add(-window),
			To:      center.Add(window),
			Seasons: []int{SeasonFor(center)},
		}

	case containsAny(text, careerPhrases):
		latest := SeasonFor(now)
		if year != 0 {
			latest = year
		}
		seasons := make([]int, 0, careerSeasons)
		for i := 0; i < careerSeasons; i++ {
			seasons = append(seasons, latest-i)
		}
		return HistoryQuery{Mode: HistoryCareer, Seasons: seasons}

	case year != 0:
		return HistoryQuery{Mode: HistorySeason, Seasons: []int{year}}

	case containsAny(text, seasonPhrases):
		return HistoryQuery{Mode: HistorySeason, Seasons: []int{SeasonFor(now) - 1}}
	}

	return HistoryQuery{Mode: HistoryNone}
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// MatchPlayers finds players named in message: full directory names, plus
// last names of rostered players. Results are in order of first mention.
func MatchPlayers(message string, dir models.PlayerDirectory, rostered []string, limit int) []models.Player {
	text := strings.ToLower(message)

	type hit struct {
		player models.Player
		at     int
	}
	seen := make(map[string]bool)
	var hits []hit

	for id, p := range dir {
		if p.FullName == "" {
			continue
		}
		if at := strings.Index(text, strings.ToLower(p.FullName)); at >= 0 {
			hits = append(hits, hit{player: p, at: at})
			seen[id] = true
		}
	}

	for _, id := range rostered {
		p, ok := dir[id]
		if !ok || seen[id] {
			continue
		}
		fields := strings.Fields(p.FullName)
		if len(fields) < 2 {
			continue
		}
		last := strings.ToLower(fields[len(fields)-1])
		if len(last) < 3 {
			continue
		}
		if at := wordIndex(text, last); at >= 0 {
			hits = append(hits, hit{player: p, at: at})
			seen[id] = true
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].at != hits[j].at {
			return hits[i].at < hits[j].at
		}
		return hits[i].player.ID < hits[j].player.ID
	})

	players := make([]models.Player, 0, limit)
	for _, h := range hits {
		if len(players) == limit {
			break
		}
		players = append(players, h.player)
	}
	return players
}

// wordIndex finds word in text on letter boundaries, so "davis" does not match
// inside "davison".
func wordIndex(text, word string) int {
	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
	loc := pattern.FindStringIndex(text)
	if loc == nil {
		return -1
	}
	return loc[0]
}
