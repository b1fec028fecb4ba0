package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tvfinder/tvfinder/web"
)

// Markup turns view-models into region content.
type Markup interface {
	Shows(cards []ShowCard) (string, error)
	Seasons(groups []SeasonGroup) (string, error)
}

// HTMLMarkup renders regions with the embedded html/template set.
type HTMLMarkup struct {
	tmpl *template.Template
}

// PageData is what the full page template needs.
type PageData struct {
	Term            string
	Shows           template.HTML
	Episodes        template.HTML
	EpisodesVisible bool
	Error           string
}

// HTML parses the embedded templates. It panics if they do not parse, which
// can only happen with a broken build.
func HTML() *HTMLMarkup {
	return &HTMLMarkup{
		tmpl: template.Must(template.ParseFS(web.Templates(), "*.html")),
	}
}

func (m *HTMLMarkup) Shows(cards []ShowCard) (string, error) {
	return m.execute("shows", cards)
}

func (m *HTMLMarkup) Seasons(groups []SeasonGroup) (string, error) {
	return m.execute("seasons", groups)
}

// Page writes the full page around already-rendered region content.
func (m *HTMLMarkup) Page(w io.Writer, data PageData) error {
	return m.tmpl.ExecuteTemplate(w, "page", data)
}

// PageFromRegions assembles PageData from in-memory regions.
func PageFromRegions(ui *UIContext, shows, episodes *MemoryRegion) PageData {
	return PageData{
		Term:            ui.Search.Term(),
		Shows:           template.HTML(shows.Content()),    //nolint:gosec // produced by HTMLMarkup
		Episodes:        template.HTML(episodes.Content()), //nolint:gosec // produced by HTMLMarkup
		EpisodesVisible: episodes.Visible(),
	}
}

func (m *HTMLMarkup) execute(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := m.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

var (
	textTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	textSeason = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	textDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// TextMarkup renders regions for a terminal.
type TextMarkup struct{}

// Text returns the terminal markup.
func Text() TextMarkup {
	return TextMarkup{}
}

func (TextMarkup) Shows(cards []ShowCard) (string, error) {
	if len(cards) == 0 {
		return textDim.Render("No shows found.") + "\n", nil
	}
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(textTitle.Render(c.Name))
		b.WriteString(" " + textDim.Render(fmt.Sprintf("[%d]", c.ID)) + "\n")
		if c.SummaryText != "" {
			b.WriteString("  " + c.SummaryText + "\n")
		}
		b.WriteString("  " + textDim.Render(c.Image) + "\n\n")
	}
	return b.String(), nil
}

func (TextMarkup) Seasons(groups []SeasonGroup) (string, error) {
	var b strings.Builder
	for _, g := range groups {
		b.WriteString(textSeason.Render(g.Label))
		if g.EpisodeCount > 0 {
			b.WriteString(" " + textDim.Render(fmt.Sprintf("(%d episodes)", g.EpisodeCount)))
		}
		b.WriteString("\n")
		for _, e := range g.Episodes {
			b.WriteString("  - " + e.Label + "\n")
		}
	}
	return b.String(), nil
}
