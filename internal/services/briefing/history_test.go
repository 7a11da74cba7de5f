package briefing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rosteriq/advisor-service/internal/testutil"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSeasonFor(t *testing.T) {
	assert.Equal(t, 2022, SeasonFor(date(2022, time.October, 16)))
	assert.Equal(t, 2022, SeasonFor(date(2023, time.March, 1)))
	assert.Equal(t, 2023, SeasonFor(date(2023, time.August, 1)))
	assert.Equal(t, 2022, SeasonFor(date(2023, time.July, 31)))
}

func TestDetectHistory(t *testing.T) {
	now := time.Date(2023, time.October, 16, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		message string
		mode    HistoryMode
		from    time.Time
		to      time.Time
		seasons []int
	}{
		{
			name:    "around this time with year",
			message: "What was LeBron's average around this time in 2022?",
			mode:    HistoryWindow,
			from:    date(2022, time.October, 2),
			to:      date(2022, time.October, 30),
			seasons: []int{2022},
		},
		{
			name:    "this time last year",
			message: "how did Jokic play this time last year",
			mode:    HistoryWindow,
			from:    date(2022, time.October, 2),
			to:      date(2022, time.October, 30),
			seasons: []int{2022},
		},
		{
			name:    "bare year",
			message: "Brunson stats in 2019",
			mode:    HistorySeason,
			seasons: []int{2019},
		},
		{
			name:    "last season",
			message: "what did Curry average last season?",
			mode:    HistorySeason,
			seasons: []int{2022},
		},
		{
			name:    "career",
			message: "Tatum career numbers",
			mode:    HistoryCareer,
			seasons: []int{2023, 2022, 2021, 2020, 2019},
		},
		{
			name:    "historically",
			message: "historically how does Davis do?",
			mode:    HistoryCareer,
			seasons: []int{2023, 2022, 2021, 2020, 2019},
		},
		{name: "current question", message: "who should I start tonight?", mode: HistoryNone},
		{name: "out of range year", message: "is 1985 a good number?", mode: HistoryNone},
		{name: "number not a year", message: "give me 20231 reasons", mode: HistoryNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := DetectHistory(tt.message, now, 14)
			assert.Equal(t, tt.mode, q.Mode)
			if tt.mode == HistoryWindow {
				assert.Equal(t, tt.from, q.From)
				assert.Equal(t, tt.to, q.To)
			}
			if tt.seasons != nil {
				assert.Equal(t, tt.seasons, q.Seasons)
			}
		})
	}
}

func TestMatchPlayers(t *testing.T) {
	dir := testutil.NewTestPlayers()
	rostered := []string{"p1", "p2", "p3", "p4", "p5", "p6"}

	t.Run("full names in order of mention", func(t *testing.T) {
		got := MatchPlayers("compare Stephen Curry and jalen brunson", dir, rostered, 3)
		if assert.Len(t, got, 2) {
			assert.Equal(t, "p4", got[0].ID)
			assert.Equal(t, "p1", got[1].ID)
		}
	})

	t.Run("rostered last names", func(t *testing.T) {
		got := MatchPlayers("how did Jokic do last year", dir, rostered, 3)
		if assert.Len(t, got, 1) {
			assert.Equal(t, "p2", got[0].ID)
		}
	})

	t.Run("last names only on word boundaries", func(t *testing.T) {
		got := MatchPlayers("what about davison?", dir, rostered, 3)
		assert.Empty(t, got)
	})

	t.Run("free agents need a full name", func(t *testing.T) {
		assert.Empty(t, MatchPlayers("is Kessler worth it", dir, rostered, 3))
		assert.Len(t, MatchPlayers("is Walker Kessler worth it", dir, rostered, 3), 1)
	})

	t.Run("capped", func(t *testing.T) {
		got := MatchPlayers("Curry Davis Tatum Jokic Brunson", dir, rostered, 3)
		assert.Len(t, got, 3)
		assert.Equal(t, "p4", got[0].ID)
	})
}
