// Package fantasy provides the read-only gateway to the fantasy platform.
package fantasy

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rosteriq/advisor-service/internal/domain/models"
	"github.com/rosteriq/advisor-service/internal/pkg/httpx"
)

// upstreamName is used in error messages.
const upstreamName = "fantasy platform"

// Gateway exposes typed fetches against the fantasy platform. Every method
// returns normalized data or an UpstreamUnavailable, UpstreamNotFound or
// UpstreamRateLimited domain error. Gateways never cache and never retry.
type Gateway interface {
	GetLeague(ctx context.Context, leagueID string) (*models.League, error)
	GetRosters(ctx context.Context, leagueID string) ([]models.Roster, error)
	GetLeagueUsers(ctx context.Context, leagueID string) ([]models.LeagueUser, error)
	GetMatchups(ctx context.Context, leagueID string, week int) ([]models.Matchup, error)
	GetTransactions(ctx context.Context, leagueID string, week int) ([]models.Transaction, error)
	GetPlayers(ctx context.Context, sport string) (models.PlayerDirectory, error)
	GetState(ctx context.Context, sport string) (*models.SportState, error)
}

// ClientConfig holds the configuration for the fantasy platform client.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Client implements Gateway over the platform's REST API.
type Client struct {
	http *httpx.Client
}

// NewClient creates a new fantasy platform client.
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	return &Client{
		http: httpx.NewClient(httpx.Config{Name: upstreamName, BaseURL: cfg.BaseURL, Timeout: cfg.Timeout}),
	}, nil
}

// GetLeague fetches league settings and scoring rules.
func (c *Client) GetLeague(ctx context.Context, leagueID string) (*models.League, error) {
	var resp leagueResponse
	if err := c.http.GetJSON(ctx, "/league/"+url.PathEscape(leagueID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.toModel(), nil
}

// GetRosters fetches every roster in the league.
func (c *Client) GetRosters(ctx context.Context, leagueID string) ([]models.Roster, error) {
	var resp []rosterResponse
	if err := c.http.GetJSON(ctx, "/league/"+url.PathEscape(leagueID)+"/rosters", nil, &resp); err != nil {
		return nil, err
	}
	rosters := make([]models.Roster, 0, len(resp))
	for i := range resp {
		rosters = append(rosters, resp[i].toModel())
	}
	return rosters, nil
}

// GetLeagueUsers fetches league members and their team names.
func (c *Client) GetLeagueUsers(ctx context.Context, leagueID string) ([]models.LeagueUser, error) {
	var resp []userResponse
	if err := c.http.GetJSON(ctx, "/league/"+url.PathEscape(leagueID)+"/users", nil, &resp); err != nil {
		return nil, err
	}
	users := make([]models.LeagueUser, 0, len(resp))
	for _, u := range resp {
		users = append(users, models.LeagueUser{UserID: u.UserID, DisplayName: u.DisplayName, TeamName: u.Metadata.TeamName})
	}
	return users, nil
}

// GetMatchups fetches the head-to-head pairings and scores for a week.
func (c *Client) GetMatchups(ctx context.Context, leagueID string, week int) ([]models.Matchup, error) {
	var resp []matchupResponse
	path := fmt.Sprintf("/league/%s/matchups/%d", url.PathEscape(leagueID), week)
	if err := c.http.GetJSON(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	matchups := make([]models.Matchup, 0, len(resp))
	for i := range resp {
		matchups = append(matchups, resp[i].toModel())
	}
	return matchups, nil
}

// GetTransactions fetches roster moves made during a week.
func (c *Client) GetTransactions(ctx context.Context, leagueID string, week int) ([]models.Transaction, error) {
	var resp []transactionResponse
	path := fmt.Sprintf("/league/%s/transactions/%d", url.PathEscape(leagueID), week)
	if err := c.http.GetJSON(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	txs := make([]models.Transaction, 0, len(resp))
	for i := range resp {
		txs = append(txs, resp[i].toModel())
	}
	return txs, nil
}

// GetPlayers fetches the full player directory for a sport.
func (c *Client) GetPlayers(ctx context.Context, sport string) (models.PlayerDirectory, error) {
	var resp map[string]playerResponse
	if err := c.http.GetJSON(ctx, "/players/"+url.PathEscape(sport), nil, &resp); err != nil {
		return nil, err
	}
	dir := make(models.PlayerDirectory, len(resp))
	for id, p := range resp {
		dir[id] = p.toModel(id)
	}
	return dir, nil
}

// GetState fetches the current season and week.
func (c *Client) GetState(ctx context.Context, sport string) (*models.SportState, error) {
	var resp stateResponse
	if err := c.http.GetJSON(ctx, "/state/"+url.PathEscape(sport), nil, &resp); err != nil {
		return nil, err
	}
	return &models.SportState{Season: resp.Season, SeasonType: resp.SeasonType, Week: resp.Week}, nil
}
