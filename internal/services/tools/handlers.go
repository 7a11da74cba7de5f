package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	domainerrors "github.com/rosteriq/advisor-service/internal/domain/errors"
	"github.com/rosteriq/advisor-service/internal/domain/models"
)

// codeNoSuchTeam marks a team lookup that matched no roster.
const codeNoSuchTeam = "NO_SUCH_TEAM"

const unavailableLine = "data unavailable"

// maxCandidates bounds the alternatives listed for an ambiguous player name.
const maxCandidates = 5

// positionGroups expands composite positions.
var positionGroups = map[string][]string{
	"G":    {"PG", "SG"},
	"F":    {"SF", "PF"},
	"UTIL": nil,
	"ANY":  nil,
}

type searchArgs struct {
	Position string `json:"position"`
	Limit    *int   `json:"limit"`
}

type teamArgs struct {
	TeamName string `json:"team_name"`
}

type limitArgs struct {
	Limit *int `json:"limit"`
}

type playerArgs struct {
	PlayerName string `json:"player_name"`
}

func (e *Executor) searchAvailablePlayers(ctx context.Context, scope Scope, raw json.RawMessage) (string, error) {
	var args searchArgs
	if err := decodeArgs(SearchAvailablePlayers, raw, &args); err != nil {
		return "", err
	}
	position, err := requireString(SearchAvailablePlayers, "position", args.Position)
	if err != nil {
		return "", err
	}
	position = strings.ToUpper(position)
	limit := clampLimit(args.Limit)

	snap, err := e.rosters(ctx, scope.LeagueID)
	if err != nil {
		return "", err
	}
	dir, err := e.data.Players(ctx)
	if err != nil {
		return "", err
	}

	rostered := make(map[string]bool)
	for _, r := range snap.Rosters {
		for _, id := range r.Players {
			rostered[id] = true
		}
		for _, id := range r.Reserve {
			rostered[id] = true
		}
	}

	var available []models.Player
	for id, p := range dir {
		if rostered[id] || p.Team == "" || !matchesPosition(p.Position, position) {
			continue
		}
		available = append(available, p)
	}
	if len(available) == 0 {
		return fmt.Sprintf("No available players at position %s.", position), nil
	}

	sort.Slice(available, func(i, j int) bool {
		ri, rj := rankOf(available[i]), rankOf(available[j])
		if ri != rj {
			return ri < rj
		}
		return available[i].FullName < available[j].FullName
	})
	if len(available) > limit {
		available = available[:limit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available players at %s:", position)
	for i, p := range available {
		fmt.Fprintf(&b, "\n%d. %s", i+1, describe(p))
	}
	return b.String(), nil
}

func (e *Executor) getOpponentRoster(ctx context.Context, scope Scope, raw json.RawMessage) (string, error) {
	var args teamArgs
	if err := decodeArgs(GetOpponentRoster, raw, &args); err != nil {
		return "", err
	}
	teamName, err := requireString(GetOpponentRoster, "team_name", args.TeamName)
	if err != nil {
		return "", err
	}

	snap, err := e.rosters(ctx, scope.LeagueID)
	if err != nil {
		return "", err
	}
	roster := findTeam(snap, teamName)
	if roster == nil {
		return "", noSuchTeam(snap, teamName)
	}
	dir, err := e.data.Players(ctx)
	if err != nil {
		return "", err
	}

	owner := snap.Owner(roster)
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s): %d-%d-%d, %.2f pts", owner.Label(), owner.DisplayName, roster.Wins, roster.Losses, roster.Ties, roster.PointsFor)
	writeGroup(&b, "Starters", roster.Starters, dir)
	writeGroup(&b, "Bench", roster.Bench(), dir)
	writeGroup(&b, "IR", roster.Reserve, dir)

	var injured []string
	for _, id := range roster.Players {
		if p, ok := dir[id]; ok && p.InjuryStatus != "" {
			injured = append(injured, p.FullName+" ("+p.InjuryStatus+")")
		}
	}
	if len(injured) > 0 {
		b.WriteString("\nInjuries: " + strings.Join(injured, ", "))
	}
	return b.String(), nil
}

func (e *Executor) getRecentTransactions(ctx context.Context, scope Scope, raw json.RawMessage) (string, error) {
	var args limitArgs
	if err := decodeArgs(GetRecentTransactions, raw, &args); err != nil {
		return "", err
	}
	limit := clampLimit(args.Limit)

	state, err := e.data.State(ctx)
	if err != nil {
		return "", err
	}
	week := state.Week
	if week < 1 {
		week = 1
	}
	weeks := []int{week}
	if week > 1 {
		weeks = append(weeks, week-1)
	}

	var (
		txs     []models.Transaction
		failed  []int
		lastErr error
	)
	for _, w := range weeks {
		batch, err := e.data.Transactions(ctx, scope.LeagueID, w)
		if err != nil {
			e.logger.Warn().Err(err).Str("league_id", scope.LeagueID).Int("week", w).Msg("transactions unavailable")
			failed = append(failed, w)
			lastErr = err
			continue
		}
		txs = append(txs, batch...)
	}
	if len(failed) == len(weeks) {
		return "", lastErr
	}
	if len(txs) == 0 && len(failed) == 0 {
		return "No transactions in the last two weeks.", nil
	}

	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Created.After(txs[j].Created) })
	if len(txs) > limit {
		txs = txs[:limit]
	}

	// Names are best-effort; the transactions themselves are what matter.
	snap, _ := e.rosters(ctx, scope.LeagueID)
	dir, _ := e.data.Players(ctx)

	var b strings.Builder
	b.WriteString("Recent transactions:")
	if len(txs) == 0 {
		b.WriteString("\n- none in the weeks that loaded")
	}
	for _, tx := range txs {
		b.WriteString("\n- " + describeTransaction(tx, snap, dir))
	}
	for _, w := range failed {
		fmt.Fprintf(&b, "\nWeek %d: %s", w, unavailableLine)
	}
	return b.String(), nil
}

func (e *Executor) getLeagueRosters(ctx context.Context, scope Scope, raw json.RawMessage) (string, error) {
	var args struct{}
	if err := decodeArgs(GetLeagueRosters, raw, &args); err != nil {
		return "", err
	}

	snap, err := e.rosters(ctx, scope.LeagueID)
	if err != nil {
		return "", err
	}

	rosters := append([]models.Roster(nil), snap.Rosters...)
	sort.SliceStable(rosters, func(i, j int) bool {
		if rosters[i].Wins != rosters[j].Wins {
			return rosters[i].Wins > rosters[j].Wins
		}
		return rosters[i].PointsFor > rosters[j].PointsFor
	})

	var b strings.Builder
	b.WriteString("Standings:")
	for i := range rosters {
		r := &rosters[i]
		owner := snap.Owner(r)
		fmt.Fprintf(&b, "\n%d. %s (%s) %d-%d-%d, %.2f pts, %d players", i+1, owner.Label(), owner.DisplayName, r.Wins, r.Losses, r.Ties, r.PointsFor, len(r.Players))
		if strconv.Itoa(r.RosterID) == scope.RosterID {
			b.WriteString(" (you)")
		}
	}
	return b.String(), nil
}

func (e *Executor) getPlayerDetails(ctx context.Context, scope Scope, raw json.RawMessage) (string, error) {
	var args playerArgs
	if err := decodeArgs(GetPlayerDetails, raw, &args); err != nil {
		return "", err
	}
	name, err := requireString(GetPlayerDetails, "player_name", args.PlayerName)
	if err != nil {
		return "", err
	}

	dir, err := e.data.Players(ctx)
	if err != nil {
		return "", err
	}
	matches := findPlayers(dir, name)
	switch {
	case len(matches) == 0:
		return fmt.Sprintf("No player named %q.", name), nil
	case len(matches) > 1:
		names := make([]string, 0, maxCandidates)
		for i, p := range matches {
			if i == maxCandidates {
				break
			}
			names = append(names, describe(p))
		}
		return fmt.Sprintf("Several players match %q: %s. Ask about one of them by full name.", name, strings.Join(names, "; ")), nil
	}
	p := matches[0]

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", p.FullName, describeFields(p))
	if p.Status != "" {
		fmt.Fprintf(&b, ", status %s", p.Status)
	}
	if p.InjuryStatus != "" {
		fmt.Fprintf(&b, ", injury %s", p.InjuryStatus)
	} else {
		b.WriteString(", no injury reported")
	}

	snap, err := e.rosters(ctx, scope.LeagueID)
	if err != nil {
		b.WriteString(". League ownership: " + unavailableLine)
		return b.String(), nil
	}
	b.WriteString(". " + ownership(snap, p.ID, scope.RosterID))
	return b.String(), nil
}

func matchesPosition(playerPos, wanted string) bool {
	if group, ok := positionGroups[wanted]; ok {
		if group == nil {
			return true
		}
		for _, g := range group {
			if strings.EqualFold(playerPos, g) {
				return true
			}
		}
		return false
	}
	return strings.EqualFold(playerPos, wanted)
}

func rankOf(p models.Player) int {
	if p.SearchRank > 0 {
		return p.SearchRank
	}
	return 1 << 30
}

func describeFields(p models.Player) string {
	team := p.Team
	if team == "" {
		team = "FA"
	}
	if p.Position == "" {
		return team
	}
	return p.Position + ", " + team
}

func describe(p models.Player) string {
	desc := fmt.Sprintf("%s (%s)", p.FullName, describeFields(p))
	if p.InjuryStatus != "" {
		desc += " [" + p.InjuryStatus + "]"
	}
	return desc
}

func writeGroup(b *strings.Builder, label string, ids []string, dir models.PlayerDirectory) {
	if len(ids) == 0 {
		return
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if p, ok := dir[id]; ok {
			names = append(names, describe(p))
		} else {
			names = append(names, id)
		}
	}
	b.WriteString("\n" + label + ": " + strings.Join(names, ", "))
}

// findTeam matches a team name or owner name, exact first, then by substring.
// rosters loads the league snapshot for tools that need rosters. Missing
// league users only degrade owner labels.
func (e *Executor) rosters(ctx context.Context, leagueID string) (*models.LeagueSnapshot, error) {
	snap, err := e.data.Snapshot(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if snap.RostersErr != nil {
		return nil, snap.RostersErr
	}
	return snap, nil
}

func findTeam(snap *models.LeagueSnapshot, query string) *models.Roster {
	q := strings.ToLower(query)
	var partial *models.Roster
	for i := range snap.Rosters {
		r := &snap.Rosters[i]
		owner := snap.Owner(r)
		label, display := strings.ToLower(owner.Label()), strings.ToLower(owner.DisplayName)
		if label == q || display == q {
			return r
		}
		if partial == nil && (strings.Contains(label, q) || strings.Contains(display, q)) {
			partial = r
		}
	}
	return partial
}

func noSuchTeam(snap *models.LeagueSnapshot, query string) error {
	teams := make([]string, 0, len(snap.Rosters))
	for i := range snap.Rosters {
		teams = append(teams, snap.Owner(&snap.Rosters[i]).Label())
	}
	return &domainerrors.DomainError{
		Code:       codeNoSuchTeam,
		Message:    fmt.Sprintf("No such team %q in this league. Teams: %s.", query, strings.Join(teams, ", ")),
		HTTPStatus: http.StatusNotFound,
	}
}

// findPlayers returns the exact full-name match, or every partial match sorted
// by rank.
func findPlayers(dir models.PlayerDirectory, query string) []models.Player {
	q := strings.ToLower(query)
	var partial []models.Player
	for _, p := range dir {
		name := strings.ToLower(p.FullName)
		if name == q {
			return []models.Player{p}
		}
		if strings.Contains(name, q) {
			partial = append(partial, p)
		}
	}
	sort.Slice(partial, func(i, j int) bool {
		ri, rj := rankOf(partial[i]), rankOf(partial[j])
		if ri != rj {
			return ri < rj
		}
		return partial[i].FullName < partial[j].FullName
	})
	return partial
}

func ownership(snap *models.LeagueSnapshot, playerID, myRosterID string) string {
	for i := range snap.Rosters {
		r := &snap.Rosters[i]
		slot := ""
		switch {
		case contains(r.Starters, playerID):
			slot = "starter"
		case contains(r.Reserve, playerID):
			slot = "IR"
		case contains(r.Players, playerID):
			slot = "bench"
		default:
			continue
		}
		if strconv.Itoa(r.RosterID) == myRosterID {
			return "On your roster (" + slot + ")"
		}
		return fmt.Sprintf("Rostered by %s (%s)", snap.Owner(r).Label(), slot)
	}
	return "Available as a free agent"
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func describeTransaction(tx models.Transaction, snap *models.LeagueSnapshot, dir models.PlayerDirectory) string {
	teamName := func(rosterID int) string {
		if snap != nil {
			if r := snap.RosterByID(strconv.Itoa(rosterID)); r != nil {
				return snap.Owner(r).Label()
			}
		}
		return "Team " + strconv.Itoa(rosterID)
	}
	playerName := func(id string) string {
		if dir != nil {
			return dir.Name(id)
		}
		return id
	}

	var parts []string
	for _, id := range sortedKeys(tx.Adds) {
		parts = append(parts, fmt.Sprintf("%s added %s", teamName(tx.Adds[id]), playerName(id)))
	}
	for _, id := range sortedKeys(tx.Drops) {
		parts = append(parts, fmt.Sprintf("%s dropped %s", teamName(tx.Drops[id]), playerName(id)))
	}
	if len(parts) == 0 {
		parts = append(parts, "no player movement")
	}

	line := fmt.Sprintf("%s %s: %s", tx.Created.Format("2006-01-02"), strings.ReplaceAll(tx.Type, "_", " "), strings.Join(parts, "; "))
	if tx.Status != "" && tx.Status != "complete" {
		line += " (" + tx.Status + ")"
	}
	return line
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
