package tasks

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tvfinder/tvfinder/internal/config"
	"github.com/tvfinder/tvfinder/internal/health"
	"github.com/tvfinder/tvfinder/internal/scheduler"
)

// Pinger is a catalog that can report whether it is reachable.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// CatalogProbeTask checks that the remote catalog answers and records the
// result with the health service.
type CatalogProbeTask struct {
	catalog Pinger
	health  *health.Service
	logger  zerolog.Logger
}

// NewCatalogProbeTask creates a probe for catalog and registers it with the
// health service.
func NewCatalogProbeTask(catalog Pinger, healthSvc *health.Service, logger zerolog.Logger) *CatalogProbeTask {
	healthSvc.Register(catalog.Name(), catalog.Name())
	return &CatalogProbeTask{
		catalog: catalog,
		health:  healthSvc,
		logger:  logger.With().Str("task", "catalog-probe").Logger(),
	}
}

// Run pings the catalog once. A slow answer is recorded as a warning but is
// not a task failure.
func (t *CatalogProbeTask) Run(ctx context.Context) error {
	state, err := t.health.Check(ctx, t.catalog.Name(), t.catalog.Ping)
	if err != nil {
		t.logger.Warn().Err(err).Str("catalog", t.catalog.Name()).Msg("Catalog probe failed")
		return err
	}

	t.logger.Debug().
		Str("catalog", state.ID).
		Str("status", string(state.Status)).
		Int64("latencyMs", state.LatencyMS).
		Msg("Catalog probe passed")
	return nil
}

// RegisterCatalogProbeTask registers the catalog probe with the scheduler.
func RegisterCatalogProbeTask(
	sched *scheduler.Scheduler,
	catalog Pinger,
	healthSvc *health.Service,
	cfg config.HealthConfig,
	logger zerolog.Logger,
) (*CatalogProbeTask, error) {
	task := NewCatalogProbeTask(catalog, healthSvc, logger)

	cron := cfg.ProbeCron
	if cron == "" {
		cron = config.Default().Health.ProbeCron
	}

	err := sched.RegisterTask(scheduler.TaskConfig{
		ID:          "catalog-probe",
		Name:        "Catalog Probe",
		Description: "Checks that the show catalog is reachable",
		Cron:        cron,
		RunOnStart:  cfg.RunOnStart,
		Func:        task.Run,
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}
