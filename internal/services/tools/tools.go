// Package tools implements the fixed set of league lookups the model may call
// during a turn.
package tools

import "encoding/json"

// Name identifies a tool. Only the constants below are valid.
type Name string

const (
	SearchAvailablePlayers Name = "search_available_players"
	GetOpponentRoster      Name = "get_opponent_roster"
	GetRecentTransactions  Name = "get_recent_transactions"
	GetLeagueRosters       Name = "get_league_rosters"
	GetPlayerDetails       Name = "get_player_details"
)

// All lists every tool in declaration order.
var All = []Name{
	SearchAvailablePlayers,
	GetOpponentRoster,
	GetRecentTransactions,
	GetLeagueRosters,
	GetPlayerDetails,
}

// ParseName maps a model-supplied name onto the enum.
func ParseName(s string) (Name, bool) {
	for _, n := range All {
		if string(n) == s {
			return n, true
		}
	}
	return "", false
}

// Limits for the optional limit argument.
const (
	DefaultLimit = 10
	MaxLimit     = 25
)

// Definition is a tool declaration with a JSON-schema parameter object.
type Definition struct {
	Name        Name           `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Call is a tool invocation requested by the model.
type Call struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Result is the textual outcome of a Call. IsError marks invalid calls and
// failed lookups; Code carries the matching error code.
type Result struct {
	CallID  string `json:"callId"`
	Name    string `json:"name"`
	Content string `json:"content"`
	IsError bool   `json:"isError"`
	Code    string `json:"code,omitempty"`
}

func object(required []string, props map[string]any) map[string]any {
	schema := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func limitParam(what string) map[string]any {
	return map[string]any{
		"type":        "integer",
		"description": "Maximum number of " + what + " to return (1-25, default 10).",
		"minimum":     1,
		"maximum":     MaxLimit,
	}
}

var definitions = []Definition{
	{
		Name:        SearchAvailablePlayers,
		Description: "List the best players at a position who are not on any roster in the league.",
		Parameters: object([]string{"position"}, map[string]any{
			"position": map[string]any{
				"type":        "string",
				"description": "Position to search, e.g. PG, SG, SF, PF, C, G, F or UTIL.",
			},
			"limit": limitParam("players"),
		}),
	},
	{
		Name:        GetOpponentRoster,
		Description: "Show the roster, record and injuries of another team in the league.",
		Parameters: object([]string{"team_name"}, map[string]any{
			"team_name": map[string]any{
				"type":        "string",
				"description": "Team name or owner display name.",
			},
		}),
	},
	{
		Name:        GetRecentTransactions,
		Description: "List the league's most recent adds, drops and trades, fetched live.",
		Parameters: object(nil, map[string]any{
			"limit": limitParam("transactions"),
		}),
	},
	{
		Name:        GetLeagueRosters,
		Description: "Show league standings with every team's record and points.",
		Parameters:  object(nil, map[string]any{}),
	},
	{
		Name:        GetPlayerDetails,
		Description: "Look up a player's team, position, injury status and who rosters them.",
		Parameters: object([]string{"player_name"}, map[string]any{
			"player_name": map[string]any{
				"type":        "string",
				"description": "Full or partial player name.",
			},
		}),
	},
}

// Definitions returns the declarations of every tool.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}
