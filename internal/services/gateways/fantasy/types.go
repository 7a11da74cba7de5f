package fantasy

import (
	"strings"
	"time"

	"github.com/rosteriq/advisor-service/internal/domain/models"
)

// Wire formats of the platform's REST API.

type leagueResponse struct {
	LeagueID        string             `json:"league_id"`
	Name            string             `json:"name"`
	Season          string             `json:"season"`
	Sport           string             `json:"sport"`
	Status          string             `json:"status"`
	TotalRosters    int                `json:"total_rosters"`
	RosterPositions []string           `json:"roster_positions"`
	ScoringSettings map[string]float64 `json:"scoring_settings"`
	Settings        struct {
		PlayoffWeekStart int `json:"playoff_week_start"`
	} `json:"settings"`
}

func (r *leagueResponse) toModel() *models.League {
	return &models.League{
		ID:               r.LeagueID,
		Name:             r.Name,
		Season:           r.Season,
		Sport:            r.Sport,
		Status:           r.Status,
		TotalRosters:     r.TotalRosters,
		RosterPositions:  r.RosterPositions,
		ScoringSettings:  r.ScoringSettings,
		PlayoffWeekStart: r.Settings.PlayoffWeekStart,
	}
}

type rosterResponse struct {
	RosterID int      `json:"roster_id"`
	OwnerID  string   `json:"owner_id"`
	Players  []string `json:"players"`
	Starters []string `json:"starters"`
	Reserve  []string `json:"reserve"`
	Settings struct {
		Wins        int `json:"wins"`
		Losses      int `json:"losses"`
		Ties        int `json:"ties"`
		Fpts        int `json:"fpts"`
		FptsDecimal int `json:"fpts_decimal"`
	} `json:"settings"`
}

func (r *rosterResponse) toModel() models.Roster {
	return models.Roster{
		RosterID:  r.RosterID,
		OwnerID:   r.OwnerID,
		Players:   r.Players,
		Starters:  r.Starters,
		Reserve:   r.Reserve,
		Wins:      r.Settings.Wins,
		Losses:    r.Settings.Losses,
		Ties:      r.Settings.Ties,
		PointsFor: float64(r.Settings.Fpts) + float64(r.Settings.FptsDecimal)/100,
	}
}

type userResponse struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Metadata    struct {
		TeamName string `json:"team_name"`
	} `json:"metadata"`
}

type matchupResponse struct {
	RosterID      int                `json:"roster_id"`
	MatchupID     *int               `json:"matchup_id"`
	Points        float64            `json:"points"`
	Starters      []string           `json:"starters"`
	PlayersPoints map[string]float64 `json:"players_points"`
}

func (r *matchupResponse) toModel() models.Matchup {
	m := models.Matchup{
		RosterID:      r.RosterID,
		Points:        r.Points,
		Starters:      r.Starters,
		PlayersPoints: r.PlayersPoints,
	}
	if r.MatchupID != nil {
		m.MatchupID = *r.MatchupID
	}
	return m
}

type transactionResponse struct {
	TransactionID string         `json:"transaction_id"`
	Type          string         `json:"type"`
	Status        string         `json:"status"`
	Created       int64          `json:"created"`
	RosterIDs     []int          `json:"roster_ids"`
	Adds          map[string]int `json:"adds"`
	Drops         map[string]int `json:"drops"`
}

func (r *transactionResponse) toModel() models.Transaction {
	return models.Transaction{
		ID:        r.TransactionID,
		Type:      r.Type,
		Status:    r.Status,
		Created:   time.UnixMilli(r.Created).UTC(),
		RosterIDs: r.RosterIDs,
		Adds:      r.Adds,
		Drops:     r.Drops,
	}
}

type playerResponse struct {
	PlayerID     string  `json:"player_id"`
	FullName     string  `json:"full_name"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Position     string  `json:"position"`
	Team         *string `json:"team"`
	InjuryStatus *string `json:"injury_status"`
	Status       string  `json:"status"`
	SearchRank   *int    `json:"search_rank"`
}

func (r *playerResponse) toModel(id string) models.Player {
	p := models.Player{
		ID:       id,
		FullName: r.FullName,
		Position: r.Position,
		Status:   r.Status,
	}
	if p.FullName == "" {
		p.FullName = strings.TrimSpace(r.FirstName + " " + r.LastName)
	}
	if r.Team != nil {
		p.Team = *r.Team
	}
	if r.InjuryStatus != nil {
		p.InjuryStatus = *r.InjuryStatus
	}
	if r.SearchRank != nil {
		p.SearchRank = *r.SearchRank
	}
	return p
}

type stateResponse struct {
	Season     string `json:"season"`
	SeasonType string `json:"season_type"`
	Week       int    `json:"week"`
}
