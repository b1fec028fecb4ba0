package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// searchShows returns normalized shows matching q.
// GET /api/v1/shows/search?q=
func (s *Server) searchShows(c echo.Context) error {
	shows, err := s.catalog.SearchShows(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return catalogError(err)
	}
	return c.JSON(http.StatusOK, shows)
}

// listSeasons returns each season of a show with its episodes.
// GET /api/v1/shows/:id/seasons
func (s *Server) listSeasons(c echo.Context) error {
	id, err := showID(c)
	if err != nil {
		return err
	}

	groups, err := s.catalog.ListSeasonEpisodes(c.Request().Context(), id)
	if err != nil {
		return catalogError(err)
	}
	return c.JSON(http.StatusOK, groups)
}

// listEpisodes returns every episode of a show as one list.
// GET /api/v1/shows/:id/episodes
func (s *Server) listEpisodes(c echo.Context) error {
	id, err := showID(c)
	if err != nil {
		return err
	}

	episodes, err := s.catalog.ListEpisodes(c.Request().Context(), id)
	if err != nil {
		return catalogError(err)
	}
	return c.JSON(http.StatusOK, episodes)
}
