package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/rosteriq/advisor-service/internal/api/dto"
	"github.com/rosteriq/advisor-service/internal/domain/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	archivedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Bold(true)

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	contentStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)

// encode writes v in the selected machine-readable format. YAML keys follow
// the API's JSON names.
func (a *app) encode(v any) error {
	return a.encodeAs(a.output, v)
}

func (a *app) encodeAs(format string, v any) error {
	if format == OutputJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(a.out)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(generic)
}

func (a *app) printSession(s *dto.SessionResponse) {
	if s == nil {
		return
	}
	status := s.Status
	if s.Status == string(models.SessionStatusArchived) {
		status = archivedStyle.Render(status)
	}
	fmt.Fprintf(a.out, "%s %s\n", headerStyle.Render("Session"), idStyle.Render(s.ID))
	fmt.Fprintf(a.out, "  league %s  roster %s  %s  %s messages\n",
		s.LeagueID, s.RosterID, status, countStyle.Render(fmt.Sprint(s.MessageCount)))
}

func (a *app) printSessionTable(sessions []*dto.SessionResponse) {
	if len(sessions) == 0 {
		fmt.Fprintln(a.out, "No sessions.")
		return
	}

	fmt.Fprintln(a.out, headerStyle.Render(fmt.Sprintf("%d sessions", len(sessions))))
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLEAGUE\tROSTER\tSTATUS\tMESSAGES\tLAST ACTIVE")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			s.ID, s.LeagueID, s.RosterID, s.Status, s.MessageCount, humanizeSince(s.LastActivityAt))
	}
	_ = w.Flush()
}

func (a *app) printMessages(messages []*dto.MessageResponse) {
	for _, m := range messages {
		label := userStyle.Render("you")
		if m.Role == string(models.RoleAssistant) {
			label = assistantStyle.Render("advisor")
		}
		fmt.Fprintf(a.out, "%s %s\n", label, idStyle.Render(fmt.Sprintf("#%d", m.Seq)))
		fmt.Fprintln(a.out, contentStyle.Render(strings.TrimSpace(m.Content)))

		if note := messageNote(m.Metadata); note != "" {
			fmt.Fprintln(a.out, contentStyle.Render(noteStyle.Render(note)))
		}
	}
}

// messageNote summarizes how an assistant reply was produced.
func messageNote(meta map[string]any) string {
	if len(meta) == 0 {
		return ""
	}
	var parts []string
	if backend, ok := meta[models.MetaBackend].(string); ok && backend != "" {
		parts = append(parts, "via "+backend)
	}
	if used, ok := meta[models.MetaToolsUsed].([]any); ok && len(used) > 0 {
		names := make([]string, 0, len(used))
		for _, u := range used {
			names = append(names, fmt.Sprint(u))
		}
		parts = append(parts, "tools: "+strings.Join(names, ", "))
	}
	if degraded, ok := meta[models.MetaDegraded].(bool); ok && degraded {
		parts = append(parts, "degraded")
	}
	if errCode, ok := meta[models.MetaError].(string); ok && errCode != "" {
		parts = append(parts, "error: "+errCode)
	}
	return strings.Join(parts, " · ")
}

func humanizeSince(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Local().Format("Jan 2 15:04")
	}
}
