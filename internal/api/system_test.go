package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvfinder/tvfinder/internal/config"
	"github.com/tvfinder/tvfinder/internal/logger"
	"github.com/tvfinder/tvfinder/internal/scheduler"
)

func TestSchedulerRoutes(t *testing.T) {
	sched, err := scheduler.New(zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sched.Stop() })

	var runs atomic.Int32
	require.NoError(t, sched.RegisterTask(scheduler.TaskConfig{
		ID:   "catalog-probe",
		Name: "Catalog Probe",
		Cron: "0 0 1 1 *",
		Func: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	}))
	sched.Start()

	srv := NewServer(Deps{
		Config:    config.Default(),
		Catalog:   newFakeCatalog(),
		Scheduler: sched,
		Logger:    zerolog.Nop(),
	})

	rec := get(t, srv, "/api/v1/scheduler/tasks")
	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []scheduler.TaskInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "catalog-probe", tasks[0].ID)

	rec = get(t, srv, "/api/v1/scheduler/tasks/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scheduler/tasks/catalog-probe/run", nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestLogsRoutes(t *testing.T) {
	var out bytes.Buffer
	log := logger.New(logger.Config{Level: "info", Format: "json", Out: &out, RecentSize: 10})
	require.NoError(t, log.SetLevel("info"))
	log.Info().Msg("catalog reachable")

	srv := NewServer(Deps{
		Config:  config.Default(),
		Catalog: newFakeCatalog(),
		Logs:    log,
		Logger:  zerolog.Nop(),
	})

	rec := get(t, srv, "/api/v1/logs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "catalog reachable")

	rec = get(t, srv, "/api/v1/logs/download")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	put := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/logs/level", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		return rec
	}

	rec = put(`{"level":"warn"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, zerolog.WarnLevel, log.Level())

	rec = put(`{"level":"loud"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, zerolog.WarnLevel, log.Level())
}
