package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	domainerrors "github.com/rosteriq/advisor-service/internal/domain/errors"
	"github.com/rosteriq/advisor-service/internal/domain/models"
)

// LeagueData is the data access the tools read from. Transactions must not be
// served from cache.
type LeagueData interface {
	Snapshot(ctx context.Context, leagueID string) (*models.LeagueSnapshot, error)
	Players(ctx context.Context) (models.PlayerDirectory, error)
	State(ctx context.Context) (*models.SportState, error)
	Transactions(ctx context.Context, leagueID string, week int) ([]models.Transaction, error)
}

// Scope is the league and roster a turn runs against.
type Scope struct {
	LeagueID string
	RosterID string
}

// Executor dispatches tool calls to their handlers.
type Executor struct {
	data     LeagueData
	logger   zerolog.Logger
	handlers map[Name]handler
}

type handler func(ctx context.Context, scope Scope, args json.RawMessage) (string, error)

// NewExecutor creates a new tool executor.
func NewExecutor(data LeagueData, logger *zerolog.Logger) (*Executor, error) {
	if data == nil {
		return nil, fmt.Errorf("league data is required")
	}

	e := &Executor{data: data, logger: log.Logger}
	if logger != nil {
		e.logger = *logger
	}
	e.handlers = map[Name]handler{
		SearchAvailablePlayers: e.searchAvailablePlayers,
		GetOpponentRoster:      e.getOpponentRoster,
		GetRecentTransactions:  e.getRecentTransactions,
		GetLeagueRosters:       e.getLeagueRosters,
		GetPlayerDetails:       e.getPlayerDetails,
	}
	return e, nil
}

// Execute runs one call. It never returns a Go error: invalid calls and
// failed lookups come back as error results for the model to read.
func (e *Executor) Execute(ctx context.Context, scope Scope, call Call) Result {
	start := time.Now()
	result := Result{CallID: call.ID, Name: call.Name}

	name, ok := ParseName(call.Name)
	if !ok {
		return e.fail(result, domainerrors.NewInvalidToolError(call.Name, "unknown tool"))
	}

	content, err := e.handlers[name](ctx, scope, call.Arguments)
	if err != nil {
		return e.fail(result, err)
	}

	result.Content = content
	e.logger.Debug().
		Str("tool", call.Name).
		Str("league_id", scope.LeagueID).
		Dur("duration", time.Since(start)).
		Msg("tool executed")
	return result
}

func (e *Executor) fail(result Result, err error) Result {
	result.IsError = true

	domainErr, ok := domainerrors.GetDomainError(err)
	switch {
	case ok && domainErr.Code == domainerrors.ErrCodeInvalidTool:
		result.Code = domainErr.Code
		result.Content = fmt.Sprintf("Invalid call to %s: %s", result.Name, domainErr.Details)
	case ok && domainErr.Code == codeNoSuchTeam:
		result.Code = domainErr.Code
		result.Content = domainErr.Message
	case ok:
		result.Code = domainErr.Code
		result.Content = unavailableLine + ": " + domainErr.Message
	default:
		result.Code = domainerrors.ErrCodeInternal
		result.Content = unavailableLine
	}

	e.logger.Warn().Err(err).Str("tool", result.Name).Str("code", result.Code).Msg("tool call failed")
	return result
}

// decodeArgs parses raw into dst. Absent arguments decode as an empty object;
// unknown fields are ignored.
func decodeArgs(tool Name, raw json.RawMessage, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}

	// Some models send the argument object as a JSON string.
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return domainerrors.NewInvalidToolError(string(tool), "arguments are not valid JSON")
		}
		raw = []byte(inner)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return domainerrors.NewInvalidToolError(string(tool), "arguments must be a JSON object matching the schema: "+err.Error())
	}
	return nil
}

func requireString(tool Name, field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", domainerrors.NewInvalidToolError(string(tool), field+" is required")
	}
	return value, nil
}

func clampLimit(limit *int) int {
	if limit == nil || *limit < 1 {
		return DefaultLimit
	}
	if *limit > MaxLimit {
		return MaxLimit
	}
	return *limit
}
