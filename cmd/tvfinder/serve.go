package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tvfinder/tvfinder/internal/api"
	"github.com/tvfinder/tvfinder/internal/config"
	"github.com/tvfinder/tvfinder/internal/health"
	"github.com/tvfinder/tvfinder/internal/logger"
	"github.com/tvfinder/tvfinder/internal/scheduler"
	"github.com/tvfinder/tvfinder/internal/scheduler/tasks"
	"github.com/tvfinder/tvfinder/internal/tvmaze"
	"github.com/tvfinder/tvfinder/internal/websocket"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// levelWatcher applies log level changes from config reloads. It compares
// with the last configured level rather than the logger's, which a dev build
// holds at debug.
type levelWatcher struct {
	log     *logger.Logger
	applied string
}

func (w *levelWatcher) onChange(next *config.Config, err error) {
	if err != nil {
		w.log.Warn().Err(err).Msg("ignoring invalid config change")
		return
	}
	if strings.EqualFold(next.Logging.Level, w.applied) {
		return
	}
	if err := w.log.SetLevel(next.Logging.Level); err != nil {
		w.log.Warn().Err(err).Msg("ignoring invalid log level")
		return
	}
	w.applied = next.Logging.Level
	w.log.Info().Str("level", next.Logging.Level).Msg("log level changed")
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.New(logger.FromConfig(cfg.Logging))
	defer log.Close()

	log.Info().
		Str("version", config.Version).
		Str("logLevel", cfg.Logging.Level).
		Str("configFile", loader.ConfigFile()).
		Msg("starting tvfinder")

	watcher := &levelWatcher{log: log, applied: cfg.Logging.Level}
	loader.Watch(watcher.onChange)

	catalog := tvmaze.NewClient(cfg.Catalog, log.WithComponent("tvmaze").Logger)
	hub := websocket.NewHub(log.WithComponent("websocket").Logger)

	slowAfter := time.Duration(cfg.Health.SlowAfterMS) * time.Millisecond
	healthSvc := health.NewService(slowAfter, log.WithComponent("health").Logger)
	healthSvc.SetBroadcaster(hub)

	var sched *scheduler.Scheduler
	if cfg.Health.Enabled {
		var err error
		sched, err = scheduler.New(log.WithComponent("scheduler").Logger)
		if err != nil {
			return err
		}
		if _, err := tasks.RegisterCatalogProbeTask(sched, catalog, healthSvc, cfg.Health, log.WithComponent("scheduler").Logger); err != nil {
			return err
		}
	} else {
		healthSvc.Register(catalog.Name(), catalog.Name())
	}

	server := api.NewServer(api.Deps{
		Config:    cfg,
		Catalog:   catalog,
		Hub:       hub,
		Health:    healthSvc,
		Scheduler: sched,
		Logs:      log,
		Logger:    log.WithComponent("api").Logger,
	})

	go hub.Run(ctx)
	if sched != nil {
		sched.Start()
		defer func() {
			if err := sched.Stop(); err != nil {
				log.Error().Err(err).Msg("scheduler shutdown error")
			}
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.Start(cfg.Server.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("received shutdown signal")
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("server stopped")
			return err
		}
	}

	// The hub stops with ctx and cancels every session; Shutdown then waits
	// for their actions to return.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
	return nil
}
