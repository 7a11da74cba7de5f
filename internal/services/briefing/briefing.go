package briefing

import (
	"strings"
	"unicode/utf8"
)

// CharsPerToken converts the token budget into characters.
const CharsPerToken = 4

// SectionName identifies a briefing section. Sections are listed in priority
// order; truncation drops from the end.
type SectionName string

const (
	SectionRules    SectionName = "rules"
	SectionRoster   SectionName = "roster"
	SectionMatchup  SectionName = "matchup"
	SectionSchedule SectionName = "schedule"
	SectionInjuries SectionName = "injuries"
	SectionRecent   SectionName = "recent"
	SectionHistory  SectionName = "history"
)

// Priority is the fixed section order.
var Priority = []SectionName{
	SectionRules, SectionRoster, SectionMatchup, SectionSchedule,
	SectionInjuries, SectionRecent, SectionHistory,
}

// unavailableLine replaces the body of a section whose data source failed.
const unavailableLine = "data unavailable"

// Section is one heading plus whole body lines.
type Section struct {
	Name    SectionName `json:"name"`
	Heading string      `json:"heading"`
	Lines   []string    `json:"lines"`
}

// Render returns the section as text.
func (s *Section) Render() string {
	var b strings.Builder
	b.WriteString(s.Heading)
	for _, line := range s.Lines {
		b.WriteByte('\n')
		b.WriteString(line)
	}
	return b.String()
}

// Size is the rendered length in characters.
func (s *Section) Size() int {
	return utf8.RuneCountInString(s.Render())
}

// Unavailable reports whether the section carries only the unavailable marker.
func (s *Section) Unavailable() bool {
	return len(s.Lines) == 1 && s.Lines[0] == unavailableLine
}

// shorten keeps the heading and as many leading lines as fit in limit
// characters. It fails if not even one body line fits.
func (s *Section) shorten(limit int) (*Section, bool) {
	size := utf8.RuneCountInString(s.Heading)
	kept := 0
	for _, line := range s.Lines {
		next := size + 1 + utf8.RuneCountInString(line)
		if next > limit {
			break
		}
		size = next
		kept++
	}
	if kept == 0 {
		return nil, false
	}
	return &Section{Name: s.Name, Heading: s.Heading, Lines: append([]string(nil), s.Lines[:kept]...)}, true
}

func unavailable(name SectionName, heading string) *Section {
	return &Section{Name: name, Heading: heading, Lines: []string{unavailableLine}}
}

// Briefing is the bounded situational summary handed to the model.
type Briefing struct {
	Sections  []Section     `json:"sections"`
	Dropped   []SectionName `json:"dropped,omitempty"`
	Shortened SectionName   `json:"shortened,omitempty"`
	// Historical is set when the message triggered the historical detector.
	Historical bool `json:"historical"`
}

const sectionSeparator = "\n\n"

// String renders the sections in order.
func (b *Briefing) String() string {
	parts := make([]string, 0, len(b.Sections))
	for i := range b.Sections {
		parts = append(parts, b.Sections[i].Render())
	}
	return strings.Join(parts, sectionSeparator)
}

// Size is the rendered length in characters.
func (b *Briefing) Size() int {
	return utf8.RuneCountInString(b.String())
}

// Section returns the named section, or nil if it is absent.
func (b *Briefing) Section(name SectionName) *Section {
	for i := range b.Sections {
		if b.Sections[i].Name == name {
			return &b.Sections[i]
		}
	}
	return nil
}

// Fit bounds sections to maxChars. Whole sections are dropped from the
// lowest-priority end until the last remaining one can be shortened to fit;
// shortening removes whole trailing lines only.
func Fit(sections []Section, maxChars int) *Briefing {
	out := &Briefing{Sections: append([]Section(nil), sections...)}

	for len(out.Sections) > 0 {
		total := out.Size()
		if total <= maxChars {
			break
		}

		last := &out.Sections[len(out.Sections)-1]
		limit := last.Size() - (total - maxChars)
		if short, ok := last.shorten(limit); ok {
			out.Sections[len(out.Sections)-1] = *short
			out.Shortened = short.Name
			break
		}

		out.Dropped = append(out.Dropped, last.Name)
		out.Sections = out.Sections[:len(out.Sections)-1]
	}

	return out
}
