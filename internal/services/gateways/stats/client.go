// Package stats provides the read-only gateway to the historical statistics
// provider.
package stats

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rosteriq/advisor-service/internal/domain/models"
	"github.com/rosteriq/advisor-service/internal/pkg/httpx"
)

const (
	upstreamName = "stats provider"
	dateLayout   = "2006-01-02"
	pageSize     = 100
)

// Player is a stats-provider player record, used to build cross-references.
type Player struct {
	ID       string
	FullName string
	Team     string
}

// Gateway exposes typed fetches against the statistics provider. Errors follow
// the same taxonomy as the fantasy gateway.
type Gateway interface {
	SearchPlayers(ctx context.Context, name string) ([]Player, error)
	GetGames(ctx context.Context, date time.Time) ([]models.Game, error)
	GetPlayerStats(ctx context.Context, statsID string, from, to time.Time) ([]models.StatLine, error)
	// GetSeasonAverages returns nil when the player has no games that season.
	GetSeasonAverages(ctx context.Context, statsID string, season int) (*models.SeasonAverage, error)
}

// ClientConfig holds the configuration for the stats client.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client implements Gateway over the provider's REST API.
type Client struct {
	http *httpx.Client
}

// NewClient creates a new stats provider client.
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	headers := map[string]string{}
	if cfg.APIKey != "" {
		headers["Authorization"] = cfg.APIKey
	}

	return &Client{
		http: httpx.NewClient(httpx.Config{Name: upstreamName, BaseURL: cfg.BaseURL, Timeout: cfg.Timeout, Headers: headers}),
	}, nil
}

type teamRef struct {
	Abbreviation string `json:"abbreviation"`
}

type playersResponse struct {
	Data []struct {
		ID        int     `json:"id"`
		FirstName string  `json:"first_name"`
		LastName  string  `json:"last_name"`
		Team      teamRef `json:"team"`
	} `json:"data"`
}

type gamesResponse struct {
	Data []struct {
		ID          int     `json:"id"`
		Date        string  `json:"date"`
		Status      string  `json:"status"`
		HomeTeam    teamRef `json:"home_team"`
		VisitorTeam teamRef `json:"visitor_team"`
	} `json:"data"`
}

type rowsResponse struct {
	Data []map[string]any `json:"data"`
}

// SearchPlayers finds players whose name matches the query.
func (c *Client) SearchPlayers(ctx context.Context, name string) ([]Player, error) {
	var resp playersResponse
	if err := c.http.GetJSON(ctx, "/players", url.Values{"search": {name}}, &resp); err != nil {
		return nil, err
	}
	players := make([]Player, 0, len(resp.Data))
	for _, p := range resp.Data {
		players = append(players, Player{
			ID:       strconv.Itoa(p.ID),
			FullName: strings.TrimSpace(p.FirstName + " " + p.LastName),
			Team:     p.Team.Abbreviation,
		})
	}
	return players, nil
}

// GetGames fetches the games scheduled on a date.
func (c *Client) GetGames(ctx context.Context, date time.Time) ([]models.Game, error) {
	var resp gamesResponse
	query := url.Values{"dates[]": {date.Format(dateLayout)}, "per_page": {strconv.Itoa(pageSize)}}
	if err := c.http.GetJSON(ctx, "/games", query, &resp); err != nil {
		return nil, err
	}
	games := make([]models.Game, 0, len(resp.Data))
	for _, g := range resp.Data {
		games = append(games, models.Game{
			ID:       strconv.Itoa(g.ID),
			Date:     parseDate(g.Date),
			HomeTeam: g.HomeTeam.Abbreviation,
			AwayTeam: g.VisitorTeam.Abbreviation,
			Status:   g.Status,
		})
	}
	return games, nil
}

// GetPlayerStats fetches per-game box scores between from and to inclusive.
func (c *Client) GetPlayerStats(ctx context.Context, statsID string, from, to time.Time) ([]models.StatLine, error) {
	var resp rowsResponse
	query := url.Values{
		"player_ids[]": {statsID},
		"start_date":   {from.Format(dateLayout)},
		"end_date":     {to.Format(dateLayout)},
		"per_page":     {strconv.Itoa(pageSize)},
	}
	if err := c.http.GetJSON(ctx, "/stats", query, &resp); err != nil {
		return nil, err
	}

	lines := make([]models.StatLine, 0, len(resp.Data))
	for _, row := range resp.Data {
		line := models.StatLine{Stats: numericFields(row)}
		if game, ok := row["game"].(map[string]any); ok {
			if d, ok := game["date"].(string); ok {
				line.Date = parseDate(d)
			}
		}
		if m, ok := row["min"].(string); ok {
			line.Minutes = m
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// GetSeasonAverages fetches a player's per-game averages for a season.
func (c *Client) GetSeasonAverages(ctx context.Context, statsID string, season int) (*models.SeasonAverage, error) {
	var resp rowsResponse
	query := url.Values{"season": {strconv.Itoa(season)}, "player_ids[]": {statsID}}
	if err := c.http.GetJSON(ctx, "/season_averages", query, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}

	row := resp.Data[0]
	avg := &models.SeasonAverage{Season: season, Stats: numericFields(row)}
	if gp, ok := row["games_played"].(float64); ok {
		avg.GamesPlayed = int(gp)
	}
	return avg, nil
}

// nonStatFields are numeric columns that are identifiers, not stats.
var nonStatFields = map[string]bool{
	"id": true, "player_id": true, "season": true, "games_played": true,
}

func numericFields(row map[string]any) map[string]float64 {
	out := make(map[string]float64)
	for k, v := range row {
		if nonStatFields[k] {
			continue
		}
		if f, ok := v.(float64); ok {
			out[k] = f
		}
	}
	return out
}

func parseDate(s string) time.Time {
	if len(s) >= len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
