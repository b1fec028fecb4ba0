// Package view turns normalized catalog records into region content. It
// knows nothing about where regions live: a browser session, a page being
// rendered on the server, or a terminal.
package view

import (
	"github.com/tvfinder/tvfinder/internal/catalog"
)

// Renderer writes shows and season listings into the regions of a UIContext.
// Every call fully replaces the region it targets.
type Renderer struct {
	ui     *UIContext
	markup Markup
}

// NewRenderer creates a renderer over ui using markup for content.
func NewRenderer(ui *UIContext, markup Markup) *Renderer {
	return &Renderer{ui: ui, markup: markup}
}

// UI returns the context the renderer writes into.
func (r *Renderer) UI() *UIContext {
	return r.ui
}

// RenderShows replaces the show list with one entry per show. An empty
// slice clears the list.
func (r *Renderer) RenderShows(shows []catalog.Show) error {
	content, err := r.markup.Shows(ShowCards(shows, r.ui.Search.Term()))
	if err != nil {
		return err
	}
	return r.ui.Shows.Replace(content)
}

// RenderEpisodesBySeason replaces the episode region with one group per
// season, episodes[i] belonging to seasons[i], then reveals the region.
func (r *Renderer) RenderEpisodesBySeason(seasons []catalog.Season, episodes [][]catalog.Episode) error {
	groups, err := SeasonGroups(seasons, episodes)
	if err != nil {
		return err
	}
	content, err := r.markup.Seasons(groups)
	if err != nil {
		return err
	}
	if err := r.ui.Episodes.Replace(content); err != nil {
		return err
	}
	return r.ui.Episodes.SetVisible(true)
}

// HideEpisodes hides the episode region.
func (r *Renderer) HideEpisodes() error {
	return r.ui.Episodes.SetVisible(false)
}
