package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	apimw "github.com/tvfinder/tvfinder/internal/api/middleware"
	"github.com/tvfinder/tvfinder/internal/catalog"
	"github.com/tvfinder/tvfinder/internal/config"
	"github.com/tvfinder/tvfinder/internal/health"
	"github.com/tvfinder/tvfinder/internal/scheduler"
	"github.com/tvfinder/tvfinder/internal/view"
	"github.com/tvfinder/tvfinder/internal/websocket"
)

// CatalogClient is the catalog the server queries.
type CatalogClient interface {
	Name() string
	SearchShows(ctx context.Context, term string) ([]catalog.Show, error)
	ListSeasons(ctx context.Context, showID int) ([]catalog.Season, error)
	ListEpisodesForSeason(ctx context.Context, season catalog.Season) ([]catalog.Episode, error)
	ListEpisodes(ctx context.Context, showID int) ([]catalog.Episode, error)
	ListSeasonEpisodes(ctx context.Context, showID int) ([]catalog.SeasonEpisodes, error)
	Ping(ctx context.Context) error
}

// Deps are the services the server routes to. Health, Scheduler and Logs
// are optional.
type Deps struct {
	Config    *config.Config
	Catalog   CatalogClient
	Hub       *websocket.Hub
	Health    *health.Service
	Scheduler *scheduler.Scheduler
	Logs      LogsProvider
	Logger    zerolog.Logger
}

// Server handles HTTP requests for the finder page, its fragments, the JSON
// API and websocket sessions.
type Server struct {
	echo      *echo.Echo
	hub       *websocket.Hub
	logger    zerolog.Logger
	cfg       *config.Config
	startTime time.Time

	catalog   CatalogClient
	markup    *view.HTMLMarkup
	sessions  *Sessions
	health    *health.Service
	scheduler *scheduler.Scheduler
	logs      LogsProvider
}

// NewServer creates a new API server instance.
func NewServer(deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		hub:       deps.Hub,
		logger:    deps.Logger,
		cfg:       deps.Config,
		startTime: time.Now(),
		catalog:   deps.Catalog,
		markup:    view.HTML(),
		health:    deps.Health,
		scheduler: deps.Scheduler,
		logs:      deps.Logs,
	}

	if s.hub != nil {
		s.sessions = NewSessions(deps.Catalog, s.markup, deps.Logger)
		s.hub.SetHandler(s.sessions)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown stops accepting requests, then waits for in-flight websocket
// actions until ctx is done. Sessions are cancelled when the hub stops.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	if err := s.echo.Shutdown(ctx); err != nil {
		return err
	}
	if s.sessions != nil {
		return s.sessions.Wait(ctx)
	}
	return nil
}

// ServeHTTP lets the server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(apimw.SecurityHeaders())
	s.echo.Use(middleware.BodyLimit("64K"))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogMethod:    true,
		LogError:     true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Str("requestId", v.RequestID).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Debug().
					Str("method", v.Method).
					Str("uri", v.URI).
					Str("requestId", v.RequestID).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return c.Request().Header.Get("Upgrade") == "websocket"
		},
	}))
}
