package briefing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rosteriq/advisor-service/internal/domain/models"
)

const (
	headingRules    = "## League rules & scoring"
	headingRoster   = "## Your roster"
	headingMatchup  = "## This week's matchup"
	headingSchedule = "## Upcoming schedule"
	headingInjuries = "## Injuries"
	headingRecent   = "## Recent performance"
	headingHistory  = "## Historical stats"
)

// topOpponentPlayers bounds the opponent players listed in the matchup section.
const topOpponentPlayers = 3

// headlineStats bounds how many categories a stat line shows.
const headlineStats = 7

func (a *Assembler) rulesSection(_ context.Context, in *input) *Section {
	if in.leagueErr != nil || in.snapshot.League == nil {
		return unavailable(SectionRules, headingRules)
	}
	l := in.snapshot.League

	lines := []string{fmt.Sprintf("League: %s (%s season, %d teams)", l.Name, l.Season, l.TotalRosters)}
	if len(l.RosterPositions) > 0 {
		lines = append(lines, "Roster slots: "+strings.Join(l.RosterPositions, ", "))
	}
	if len(l.ScoringSettings) > 0 {
		parts := make([]string, 0, len(l.ScoringSettings))
		for _, k := range models.StatKeys(l.ScoringSettings) {
			parts = append(parts, fmt.Sprintf("%s %g", k, l.ScoringSettings[k]))
		}
		lines = append(lines, "Scoring: "+strings.Join(parts, ", "))
	}
	if l.PlayoffWeekStart > 0 {
		lines = append(lines, fmt.Sprintf("Playoffs start week %d", l.PlayoffWeekStart))
	}
	return &Section{Name: SectionRules, Heading: headingRules, Lines: lines}
}

func (a *Assembler) rosterSection(_ context.Context, in *input) *Section {
	if in.rostersErr != nil || in.playersErr != nil {
		return unavailable(SectionRoster, headingRoster)
	}
	r := in.myRoster()
	if r == nil {
		return unavailable(SectionRoster, headingRoster)
	}

	owner := in.snapshot.Owner(r)
	heading := fmt.Sprintf("%s: %s (%d-%d-%d, %.2f pts)", headingRoster, owner.Label(), r.Wins, r.Losses, r.Ties, r.PointsFor)

	var lines []string
	for _, id := range r.Starters {
		lines = append(lines, "- Starter: "+describePlayer(in.players, id, true))
	}
	for _, id := range r.Bench() {
		lines = append(lines, "- Bench: "+describePlayer(in.players, id, true))
	}
	for _, id := range r.Reserve {
		lines = append(lines, "- IR: "+describePlayer(in.players, id, true))
	}
	if len(lines) == 0 {
		lines = append(lines, "Roster is empty.")
	}
	return &Section{Name: SectionRoster, Heading: heading, Lines: lines}
}

// matchupSection is omitted (nil) when there is no opponent to describe.
func (a *Assembler) matchupSection(ctx context.Context, in *input) *Section {
	if in.stateErr != nil || in.rostersErr != nil {
		return unavailable(SectionMatchup, headingMatchup)
	}
	if !in.state.InSeason() {
		return nil
	}
	mine := in.myRoster()
	if mine == nil {
		return nil
	}

	matchups, err := a.data.Matchups(ctx, in.session.LeagueID, in.state.Week)
	if err != nil {
		return unavailable(SectionMatchup, headingMatchup)
	}
	me, opp := pairFor(matchups, mine.RosterID)
	if opp == nil {
		return nil
	}
	oppRoster := in.snapshot.RosterByID(fmt.Sprint(opp.RosterID))
	if oppRoster == nil {
		return nil
	}

	myName := in.snapshot.Owner(mine).Label()
	oppOwner := in.snapshot.Owner(oppRoster)

	lines := []string{
		fmt.Sprintf("Opponent: %s (%s, %d-%d-%d)", oppOwner.Label(), oppOwner.DisplayName, oppRoster.Wins, oppRoster.Losses, oppRoster.Ties),
		fmt.Sprintf("Score: %s %.2f - %.2f %s", myName, me.Points, opp.Points, oppOwner.Label()),
	}
	if in.playersErr == nil {
		top := topPlayers(oppRoster, opp, in.players, topOpponentPlayers)
		if len(top) > 0 {
			lines = append(lines, "Opponent top players: "+strings.Join(top, ", "))
		}
	}
	heading := fmt.Sprintf("## Week %d matchup", in.state.Week)
	return &Section{Name: SectionMatchup, Heading: heading, Lines: lines}
}

func (a *Assembler) scheduleSection(ctx context.Context, in *input) *Section {
	if in.rostersErr != nil || in.playersErr != nil {
		return unavailable(SectionSchedule, headingSchedule)
	}
	r := in.myRoster()
	if r == nil {
		return unavailable(SectionSchedule, headingSchedule)
	}

	byTeam := make(map[string][]string)
	for _, id := range r.Players {
		p, ok := in.players[id]
		if !ok || p.Team == "" {
			continue
		}
		byTeam[p.Team] = append(byTeam[p.Team], p.FullName)
	}

	today := startOfDay(in.now)
	counts := make(map[string]int)
	var lines []string
	failed := 0
	for d := 0; d < a.scheduleDays; d++ {
		day := today.AddDate(0, 0, d)
		games, err := a.data.Games(ctx, day)
		if err != nil {
			failed++
			lines = append(lines, fmt.Sprintf("- %s: %s", day.Format("Mon Jan 02"), unavailableLine))
			continue
		}

		var playing []string
		for _, g := range games {
			for team, names := range byTeam {
				if g.Involves(team) {
					playing = append(playing, names...)
				}
			}
		}
		sort.Strings(playing)
		for _, name := range playing {
			counts[name]++
		}
		if len(playing) == 0 {
			lines = append(lines, fmt.Sprintf("- %s: none of your players", day.Format("Mon Jan 02")))
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", day.Format("Mon Jan 02"), strings.Join(playing, ", ")))
	}

	if failed == a.scheduleDays {
		return unavailable(SectionSchedule, headingSchedule)
	}

	if len(counts) > 0 {
		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s %d", name, counts[name]))
		}
		lines = append([]string{fmt.Sprintf("Games in the next %d days: %s", a.scheduleDays, strings.Join(parts, ", "))}, lines...)
	}
	return &Section{Name: SectionSchedule, Heading: headingSchedule, Lines: lines}
}

func (a *Assembler) injuriesSection(_ context.Context, in *input) *Section {
	if in.rostersErr != nil || in.playersErr != nil {
		return unavailable(SectionInjuries, headingInjuries)
	}
	r := in.myRoster()
	if r == nil {
		return unavailable(SectionInjuries, headingInjuries)
	}

	var lines []string
	for _, id := range r.Players {
		p, ok := in.players[id]
		if !ok || p.InjuryStatus == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", describePlayer(in.players, id, false), p.InjuryStatus))
	}
	if len(lines) == 0 {
		lines = append(lines, "No injuries reported on your roster.")
	}
	return &Section{Name: SectionInjuries, Heading: headingInjuries, Lines: lines}
}

func (a *Assembler) recentSection(ctx context.Context, in *input) *Section {
	if in.stateErr != nil || in.rostersErr != nil {
		return unavailable(SectionRecent, headingRecent)
	}
	mine := in.myRoster()
	if mine == nil {
		return unavailable(SectionRecent, headingRecent)
	}
	if !in.state.InSeason() || in.state.Week <= 1 {
		return &Section{Name: SectionRecent, Heading: headingRecent, Lines: []string{"No completed weeks yet."}}
	}

	var lines []string
	for week := in.state.Week - 1; week >= 1 && week >= in.state.Week-a.recentPeriods; week-- {
		matchups, err := a.data.Matchups(ctx, in.session.LeagueID, week)
		if err != nil {
			lines = append(lines, fmt.Sprintf("- Week %d: %s", week, unavailableLine))
			continue
		}
		me, opp := pairFor(matchups, mine.RosterID)
		if me == nil {
			continue
		}

		line := fmt.Sprintf("- Week %d: %.2f pts", week, me.Points)
		if opp != nil {
			oppName := fmt.Sprintf("Team %d", opp.RosterID)
			if r := in.snapshot.RosterByID(fmt.Sprint(opp.RosterID)); r != nil {
				oppName = in.snapshot.Owner(r).Label()
			}
			line += fmt.Sprintf(" vs %s %.2f (%s)", oppName, opp.Points, outcome(me.Points, opp.Points))
		}
		if id, pts, ok := topScorer(me); ok && in.playersErr == nil {
			line += fmt.Sprintf("; top: %s %.2f", in.players.Name(id), pts)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = append(lines, "No results for recent weeks.")
	}
	return &Section{Name: SectionRecent, Heading: headingRecent, Lines: lines}
}

func (a *Assembler) historySection(ctx context.Context, in *input, q HistoryQuery) *Section {
	if in.playersErr != nil {
		return unavailable(SectionHistory, headingHistory)
	}

	var rostered []string
	for _, r := range in.snapshot.Rosters {
		rostered = append(rostered, r.Players...)
	}
	players := MatchPlayers(in.message, in.players, rostered, maxHistoryPlayers)
	if len(players) == 0 {
		return &Section{Name: SectionHistory, Heading: headingHistory, Lines: []string{"No player named in the question."}}
	}

	lines := make([]string, len(players))
	var g errgroup.Group
	for i, p := range players {
		g.Go(func() error {
			lines[i] = a.historyLine(ctx, p, q)
			return nil
		})
	}
	_ = g.Wait()

	return &Section{Name: SectionHistory, Heading: headingHistory, Lines: lines}
}

func (a *Assembler) historyLine(ctx context.Context, p models.Player, q HistoryQuery) string {
	ref, err := a.data.ResolvePlayer(ctx, p)
	if err != nil {
		return fmt.Sprintf("- %s: %s", p.FullName, unavailableLine)
	}

	switch q.Mode {
	case HistoryWindow:
		from, to := q.From.Format(dateLayout), q.To.Format(dateLayout)
		lines, err := a.data.PlayerStats(ctx, ref, q.From, q.To)
		if err != nil {
			return fmt.Sprintf("- %s, %s to %s: %s", p.FullName, from, to, unavailableLine)
		}
		if len(lines) > 0 {
			return fmt.Sprintf("- %s, %s to %s (%d games): %s", p.FullName, from, to, len(lines), formatStats(models.AverageStatLines(lines)))
		}
		avg, err := a.data.SeasonAverage(ctx, ref, q.Seasons[0])
		if err != nil || avg == nil {
			return fmt.Sprintf("- %s: no games between %s and %s", p.FullName, from, to)
		}
		return fmt.Sprintf("- %s: no games between %s and %s; %s season averages (%d games): %s",
			p.FullName, from, to, seasonLabel(avg.Season), avg.GamesPlayed, formatStats(avg.Stats))

	default:
		parts := make([]string, 0, len(q.Seasons))
		for _, season := range q.Seasons {
			avg, err := a.data.SeasonAverage(ctx, ref, season)
			switch {
			case err != nil:
				parts = append(parts, fmt.Sprintf("%s %s", seasonLabel(season), unavailableLine))
			case avg == nil:
				if q.Mode == HistorySeason {
					parts = append(parts, fmt.Sprintf("%s did not play", seasonLabel(season)))
				}
			default:
				parts = append(parts, fmt.Sprintf("%s (%d games): %s", seasonLabel(season), avg.GamesPlayed, formatStats(avg.Stats)))
			}
		}
		if len(parts) == 0 {
			return fmt.Sprintf("- %s: no season averages found", p.FullName)
		}
		return fmt.Sprintf("- %s: %s", p.FullName, strings.Join(parts, "; "))
	}
}

const dateLayout = "2006-01-02"

func seasonLabel(season int) string {
	return fmt.Sprintf("%d-%02d", season, (season+1)%100)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func describePlayer(dir models.PlayerDirectory, id string, withInjury bool) string {
	p, ok := dir[id]
	if !ok {
		return id
	}
	desc := p.FullName
	var tags []string
	if p.Position != "" {
		tags = append(tags, p.Position)
	}
	if p.Team != "" {
		tags = append(tags, p.Team)
	} else {
		tags = append(tags, "FA")
	}
	desc += " (" + strings.Join(tags, ", ") + ")"
	if withInjury && p.InjuryStatus != "" {
		desc += " [" + p.InjuryStatus + "]"
	}
	return desc
}

// pairFor finds rosterID's row and its opponent's row. A zero MatchupID is a
// bye and has no opponent.
func pairFor(matchups []models.Matchup, rosterID int) (me, opp *models.Matchup) {
	for i := range matchups {
		if matchups[i].RosterID == rosterID {
			me = &matchups[i]
			break
		}
	}
	if me == nil || me.MatchupID == 0 {
		return me, nil
	}
	for i := range matchups {
		if matchups[i].MatchupID == me.MatchupID && matchups[i].RosterID != rosterID {
			return me, &matchups[i]
		}
	}
	return me, nil
}

// topPlayers ranks the roster's starters by points this week, falling back to
// directory rank before any points are scored.
func topPlayers(r *models.Roster, m *models.Matchup, dir models.PlayerDirectory, n int) []string {
	ids := append([]string(nil), r.Starters...)
	if len(ids) == 0 {
		ids = append(ids, r.Players...)
	}
	rank := func(id string) int {
		if p, ok := dir[id]; ok && p.SearchRank > 0 {
			return p.SearchRank
		}
		return 1 << 30
	}
	sort.SliceStable(ids, func(i, j int) bool {
		pi, pj := m.PlayersPoints[ids[i]], m.PlayersPoints[ids[j]]
		if pi != pj {
			return pi > pj
		}
		return rank(ids[i]) < rank(ids[j])
	})
	if len(ids) > n {
		ids = ids[:n]
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		desc := describePlayer(dir, id, true)
		if pts, ok := m.PlayersPoints[id]; ok {
			desc += fmt.Sprintf(" %.2f pts", pts)
		}
		out = append(out, desc)
	}
	return out
}

func topScorer(m *models.Matchup) (string, float64, bool) {
	best, bestPts := "", 0.0
	for id, pts := range m.PlayersPoints {
		if best == "" || pts > bestPts || (pts == bestPts && id < best) {
			best, bestPts = id, pts
		}
	}
	return best, bestPts, best != ""
}

func outcome(mine, theirs float64) string {
	switch {
	case mine > theirs:
		return "W"
	case mine < theirs:
		return "L"
	default:
		return "T"
	}
}

func formatStats(stats map[string]float64) string {
	keys := models.StatKeys(stats)
	if len(keys) > headlineStats {
		keys = keys[:headlineStats]
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%.1f %s", stats[k], k))
	}
	return strings.Join(parts, ", ")
}
