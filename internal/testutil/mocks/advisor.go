package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rosteriq/advisor-service/internal/domain/models"
	"github.com/rosteriq/advisor-service/internal/services/broadcast"
)

// MockAdvisor is a mock implementation of handlers.Advisor.
type MockAdvisor struct {
	mock.Mock
}

// StartSession mocks the StartSession method.
func (m *MockAdvisor) StartSession(ctx context.Context, userID, leagueID, rosterID, opening string) (*models.ChatSession, *models.ChatMessage, error) {
	args := m.Called(ctx, userID, leagueID, rosterID, opening)
	var session *models.ChatSession
	if v := args.Get(0); v != nil {
		session = v.(*models.ChatSession)
	}
	var reply *models.ChatMessage
	if v := args.Get(1); v != nil {
		reply = v.(*models.ChatMessage)
	}
	return session, reply, args.Error(2)
}

// GetSession mocks the GetSession method.
func (m *MockAdvisor) GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatSession), args.Error(1)
}

// ListSessions mocks the ListSessions method.
func (m *MockAdvisor) ListSessions(ctx context.Context, userID, leagueID string, includeArchived bool) ([]*models.ChatSession, error) {
	args := m.Called(ctx, userID, leagueID, includeArchived)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ChatSession), args.Error(1)
}

// Archive mocks the Archive method.
func (m *MockAdvisor) Archive(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatSession), args.Error(1)
}

// PostMessage mocks the PostMessage method.
func (m *MockAdvisor) PostMessage(ctx context.Context, sessionID, content string) (*models.ChatMessage, error) {
	args := m.Called(ctx, sessionID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatMessage), args.Error(1)
}

// History mocks the History method.
func (m *MockAdvisor) History(ctx context.Context, sessionID string, limit int) ([]*models.ChatMessage, error) {
	args := m.Called(ctx, sessionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ChatMessage), args.Error(1)
}

// Subscribe mocks the Subscribe method.
func (m *MockAdvisor) Subscribe(ctx context.Context, sessionID string) (*broadcast.Listener, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*broadcast.Listener), args.Error(1)
}

// Unsubscribe mocks the Unsubscribe method.
func (m *MockAdvisor) Unsubscribe(l *broadcast.Listener) {
	m.Called(l)
}

// InvalidateLeague mocks the InvalidateLeague method.
func (m *MockAdvisor) InvalidateLeague(ctx context.Context, leagueID string) (int64, error) {
	args := m.Called(ctx, leagueID)
	return args.Get(0).(int64), args.Error(1)
}

// MockPinger is a mock health dependency.
type MockPinger struct {
	mock.Mock
}

// Ping mocks the Ping method.
func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
