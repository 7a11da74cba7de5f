// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/rosteriq/advisor-service/internal/domain/models"
	"github.com/rosteriq/advisor-service/internal/services/gateways/stats"
)

// MockFantasyGateway is a mock implementation of fantasy.Gateway.
type MockFantasyGateway struct {
	mock.Mock
}

// GetLeague mocks the GetLeague method.
func (m *MockFantasyGateway) GetLeague(ctx context.Context, leagueID string) (*models.League, error) {
	args := m.Called(ctx, leagueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.League), args.Error(1)
}

// GetRosters mocks the GetRosters method.
func (m *MockFantasyGateway) GetRosters(ctx context.Context, leagueID string) ([]models.Roster, error) {
	args := m.Called(ctx, leagueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Roster), args.Error(1)
}

// GetLeagueUsers mocks the GetLeagueUsers method.
func (m *MockFantasyGateway) GetLeagueUsers(ctx context.Context, leagueID string) ([]models.LeagueUser, error) {
	args := m.Called(ctx, leagueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LeagueUser), args.Error(1)
}

// GetMatchups mocks the GetMatchups method.
func (m *MockFantasyGateway) GetMatchups(ctx context.Context, leagueID string, week int) ([]models.Matchup, error) {
	args := m.Called(ctx, leagueID, week)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Matchup), args.Error(1)
}

// GetTransactions mocks the GetTransactions method.
func (m *MockFantasyGateway) GetTransactions(ctx context.Context, leagueID string, week int) ([]models.Transaction, error) {
	args := m.Called(ctx, leagueID, week)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

// GetPlayers mocks the GetPlayers method.
func (m *MockFantasyGateway) GetPlayers(ctx context.Context, sport string) (models.PlayerDirectory, error) {
	args := m.Called(ctx, sport)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.PlayerDirectory), args.Error(1)
}

// GetState mocks the GetState method.
func (m *MockFantasyGateway) GetState(ctx context.Context, sport string) (*models.SportState, error) {
	args := m.Called(ctx, sport)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SportState), args.Error(1)
}

// MockStatsGateway is a mock implementation of stats.Gateway.
type MockStatsGateway struct {
	mock.Mock
}

// SearchPlayers mocks the SearchPlayers method.
func (m *MockStatsGateway) SearchPlayers(ctx context.Context, name string) ([]stats.Player, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stats.Player), args.Error(1)
}

// GetGames mocks the GetGames method.
func (m *MockStatsGateway) GetGames(ctx context.Context, date time.Time) ([]models.Game, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Game), args.Error(1)
}

// GetPlayerStats mocks the GetPlayerStats method.
func (m *MockStatsGateway) GetPlayerStats(ctx context.Context, statsID string, from, to time.Time) ([]models.StatLine, error) {
	args := m.Called(ctx, statsID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StatLine), args.Error(1)
}

// GetSeasonAverages mocks the GetSeasonAverages method.
func (m *MockStatsGateway) GetSeasonAverages(ctx context.Context, statsID string, season int) (*models.SeasonAverage, error) {
	args := m.Called(ctx, statsID, season)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SeasonAverage), args.Error(1)
}
