package view

import (
	"fmt"
	"html/template"
	"net/url"

	"github.com/tvfinder/tvfinder/internal/catalog"
)

// ShowCard is the view-model of one show-list entry.
type ShowCard struct {
	ID          int
	Name        string
	Summary     template.HTML
	SummaryText string
	Image       string
	EpisodesURL string
}

// SeasonGroup is one collapsible season with its episodes.
type SeasonGroup struct {
	ID           int
	Number       int
	Label        string
	Image        string
	EpisodeCount int
	Episodes     []EpisodeLine
}

// EpisodeLine is one entry inside a SeasonGroup.
type EpisodeLine struct {
	ID     int
	Name   string
	Season int
	Number int
	Label  string
}

// ShowCards builds show-list entries. term is carried into the per-show
// episodes link so a page without script keeps its show list.
func ShowCards(shows []catalog.Show, term string) []ShowCard {
	cards := make([]ShowCard, 0, len(shows))
	for _, s := range shows {
		cards = append(cards, ShowCard{
			ID:          s.ID,
			Name:        s.Name,
			Summary:     SanitizeSummary(s.Summary),
			SummaryText: SummaryText(s.Summary),
			Image:       catalog.ImageOrDefault(s.Image),
			EpisodesURL: episodesURL(s.ID, term),
		})
	}
	return cards
}

// SeasonGroups pairs seasons with their episode lists by position. Both
// slices must have the same length.
func SeasonGroups(seasons []catalog.Season, episodes [][]catalog.Episode) ([]SeasonGroup, error) {
	if len(seasons) != len(episodes) {
		return nil, fmt.Errorf("have %d seasons but %d episode lists", len(seasons), len(episodes))
	}

	groups := make([]SeasonGroup, 0, len(seasons))
	for i, season := range seasons {
		lines := make([]EpisodeLine, 0, len(episodes[i]))
		for _, e := range episodes[i] {
			lines = append(lines, EpisodeLine{
				ID:     e.ID,
				Name:   e.Name,
				Season: e.Season,
				Number: e.Number,
				Label:  EpisodeLabel(e),
			})
		}
		groups = append(groups, SeasonGroup{
			ID:           season.ID,
			Number:       season.Number,
			Label:        fmt.Sprintf("Season %d", season.Number),
			Image:        catalog.ImageOrDefault(season.Image),
			EpisodeCount: season.EpisodeCount,
			Episodes:     lines,
		})
	}
	return groups, nil
}

// EpisodeLabel formats an episode as "Name (Season S, Number N)".
func EpisodeLabel(e catalog.Episode) string {
	if e.IsSpecial() {
		return fmt.Sprintf("%s (Season %d, Special)", e.Name, e.Season)
	}
	return fmt.Sprintf("%s (Season %d, Number %d)", e.Name, e.Season, e.Number)
}

func episodesURL(showID int, term string) string {
	u := fmt.Sprintf("/shows/%d/episodes", showID)
	if term != "" {
		u += "?q=" + url.QueryEscape(term)
	}
	return u
}
