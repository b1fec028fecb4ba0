package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tvfinder/tvfinder/internal/health"
	"github.com/tvfinder/tvfinder/web"
)

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	// Page routes work without script; the websocket upgrades them in place.
	s.echo.GET("/", s.getPage)
	s.echo.GET("/shows/:id/episodes", s.getEpisodesPage)

	fragments := s.echo.Group("/fragments")
	fragments.GET("/shows", s.getShowsFragment)
	fragments.GET("/shows/:id/episodes", s.getEpisodesFragment)

	if s.hub != nil {
		s.echo.GET("/ws", s.hub.HandleWebSocket)
	}

	s.echo.StaticFS("/static", web.Static())

	api := s.echo.Group("/api/v1")
	api.GET("/status", s.getStatus)

	shows := api.Group("/shows")
	shows.GET("/search", s.searchShows)
	shows.GET("/:id/seasons", s.listSeasons)
	shows.GET("/:id/episodes", s.listEpisodes)

	if s.health != nil {
		healthHandlers := health.NewHandlers(s.health, map[string]health.CheckFunc{
			s.catalog.Name(): s.catalog.Ping,
		})
		healthHandlers.RegisterRoutes(api.Group("/health"))
	}

	if s.scheduler != nil {
		tasks := api.Group("/scheduler/tasks")
		tasks.GET("", s.listTasks)
		tasks.GET("/:id", s.getTask)
		tasks.POST("/:id/run", s.runTask)
	}

	if s.logs != nil {
		NewLogsHandlers(s.logs).RegisterRoutes(api.Group("/logs"))
	}
}

// showID reads the :id path parameter.
func showID(c echo.Context) (int, error) {
	var id int
	if err := echo.PathParamsBinder(c).Int("id", &id).BindError(); err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid show id")
	}
	return id, nil
}
