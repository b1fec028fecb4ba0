package api

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tvfinder/tvfinder/internal/controller"
	"github.com/tvfinder/tvfinder/internal/view"
)

// pageState is one request's worth of UI: a controller writing into
// in-memory regions that are then rendered as a whole page or a fragment.
type pageState struct {
	ui       *view.UIContext
	shows    *view.MemoryRegion
	episodes *view.MemoryRegion
	ctrl     *controller.Controller
}

func (s *Server) newPageState() *pageState {
	ui, shows, episodes := view.NewMemoryUIContext()
	return &pageState{
		ui:       ui,
		shows:    shows,
		episodes: episodes,
		ctrl:     controller.New(s.catalog, view.NewRenderer(ui, s.markup), s.logger),
	}
}

// getPage renders the finder page, running a search first when q is given.
// GET /
func (s *Server) getPage(c echo.Context) error {
	ps := s.newPageState()

	if c.QueryParams().Has("q") {
		if err := ps.ctrl.Search(c.Request().Context(), c.QueryParam("q")); err != nil {
			return s.renderPage(c, ps, err)
		}
	}
	return s.renderPage(c, ps, nil)
}

// getEpisodesPage renders the page with the show list for q and the
// episodes of one show opened.
// GET /shows/:id/episodes
func (s *Server) getEpisodesPage(c echo.Context) error {
	id, err := showID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	ps := s.newPageState()

	if c.QueryParams().Has("q") {
		if err := ps.ctrl.Search(ctx, c.QueryParam("q")); err != nil {
			return s.renderPage(c, ps, err)
		}
	}
	if err := ps.ctrl.ShowEpisodes(ctx, id); err != nil {
		return s.renderPage(c, ps, err)
	}
	return s.renderPage(c, ps, nil)
}

// getShowsFragment returns the show list region's markup.
// GET /fragments/shows?q=
func (s *Server) getShowsFragment(c echo.Context) error {
	ps := s.newPageState()
	if err := ps.ctrl.Search(c.Request().Context(), c.QueryParam("q")); err != nil {
		return catalogError(err)
	}
	return c.HTML(http.StatusOK, ps.shows.Content())
}

// getEpisodesFragment returns the episode region's markup.
// GET /fragments/shows/:id/episodes
func (s *Server) getEpisodesFragment(c echo.Context) error {
	id, err := showID(c)
	if err != nil {
		return err
	}

	ps := s.newPageState()
	if err := ps.ctrl.ShowEpisodes(c.Request().Context(), id); err != nil {
		return catalogError(err)
	}
	return c.HTML(http.StatusOK, ps.episodes.Content())
}

// renderPage writes the full page. A failed action is shown in the status
// line and sets the response status; regions keep what they held before.
func (s *Server) renderPage(c echo.Context, ps *pageState, actionErr error) error {
	data := view.PageFromRegions(ps.ui, ps.shows, ps.episodes)
	status := http.StatusOK
	if actionErr != nil {
		s.logger.Warn().Err(actionErr).Str("uri", c.Request().RequestURI).Msg("page action failed")
		data.Error = userMessage(actionErr)
		status = catalogStatus(actionErr)
	}

	var buf bytes.Buffer
	if err := s.markup.Page(&buf, data); err != nil {
		return err
	}
	return c.HTMLBlob(status, buf.Bytes())
}
