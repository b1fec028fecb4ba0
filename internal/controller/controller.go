// Package controller drives the two user actions of the finder: searching
// for shows and opening a show's episodes.
package controller

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tvfinder/tvfinder/internal/catalog"
	"github.com/tvfinder/tvfinder/internal/view"
)

// ErrStale is returned when an action finished after a newer one was issued
// for the same region. Its result was dropped.
var ErrStale = errors.New("superseded by a newer request")

// Catalog is the subset of the catalog client the controller needs.
type Catalog interface {
	SearchShows(ctx context.Context, term string) ([]catalog.Show, error)
	ListSeasons(ctx context.Context, showID int) ([]catalog.Season, error)
	ListEpisodesForSeason(ctx context.Context, season catalog.Season) ([]catalog.Episode, error)
}

// Controller runs actions for one UI session.
type Controller struct {
	catalog  Catalog
	renderer *view.Renderer
	logger   zerolog.Logger

	// mu serializes token checks with the render that follows them.
	mu          sync.Mutex
	showsGen    uint64
	episodesGen uint64
}

// New creates a controller that renders through renderer.
func New(cat Catalog, renderer *view.Renderer, logger zerolog.Logger) *Controller {
	return &Controller{
		catalog:  cat,
		renderer: renderer,
		logger:   logger,
	}
}

// Search fetches shows for term, hides any open episode listing and renders
// the result. On failure the show list is left as it was.
func (c *Controller) Search(ctx context.Context, term string) error {
	c.renderer.UI().Search.Submit(term)

	c.mu.Lock()
	c.showsGen++
	c.episodesGen++
	showsGen, episodesGen := c.showsGen, c.episodesGen
	c.mu.Unlock()

	shows, err := c.catalog.SearchShows(ctx, term)
	if err != nil {
		c.logger.Warn().Err(err).Str("term", term).Msg("show search failed")
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if showsGen != c.showsGen {
		c.logger.Debug().Str("term", term).Msg("dropping stale show search")
		return ErrStale
	}
	// A newer ShowEpisodes owns the episode region; leave it visible.
	if episodesGen == c.episodesGen {
		if err := c.renderer.HideEpisodes(); err != nil {
			return err
		}
	}
	if err := c.renderer.RenderShows(shows); err != nil {
		return err
	}

	c.logger.Debug().Str("term", term).Int("shows", len(shows)).Msg("rendered show search")
	return nil
}

// ShowEpisodes fetches the seasons of showID and each season's episodes in
// order, then renders them grouped by season. On failure the episode region
// is left as it was.
func (c *Controller) ShowEpisodes(ctx context.Context, showID int) error {
	c.mu.Lock()
	c.episodesGen++
	gen := c.episodesGen
	c.mu.Unlock()

	seasons, err := c.catalog.ListSeasons(ctx, showID)
	if err != nil {
		c.logger.Warn().Err(err).Int("showId", showID).Msg("season listing failed")
		return err
	}

	episodes := make([][]catalog.Episode, 0, len(seasons))
	for _, season := range seasons {
		list, err := c.catalog.ListEpisodesForSeason(ctx, season)
		if err != nil {
			c.logger.Warn().Err(err).
				Int("showId", showID).
				Int("seasonId", season.ID).
				Msg("episode listing failed")
			return err
		}
		episodes = append(episodes, list)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.episodesGen {
		c.logger.Debug().Int("showId", showID).Msg("dropping stale episode listing")
		return ErrStale
	}
	if err := c.renderer.RenderEpisodesBySeason(seasons, episodes); err != nil {
		return err
	}

	c.logger.Debug().Int("showId", showID).Int("seasons", len(seasons)).Msg("rendered episodes")
	return nil
}
