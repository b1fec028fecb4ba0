package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tvfinder/tvfinder/internal/config"
)

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// StatusResponse is returned by GET /api/v1/status.
type StatusResponse struct {
	Version   string `json:"version"`
	StartTime string `json:"startTime"`
	Uptime    string `json:"uptime"`
	Catalog   string `json:"catalog"`
	Sessions  int    `json:"sessions"`
	Healthy   bool   `json:"healthy"`
}

func (s *Server) getStatus(c echo.Context) error {
	resp := StatusResponse{
		Version:   config.Version,
		StartTime: s.startTime.Format(time.RFC3339),
		Uptime:    time.Since(s.startTime).Truncate(time.Second).String(),
		Catalog:   s.catalog.Name(),
		Healthy:   true,
	}
	if s.hub != nil {
		resp.Sessions = s.hub.ClientCount()
	}
	if s.health != nil {
		resp.Healthy = s.health.Summary().Healthy
	}
	return c.JSON(http.StatusOK, resp)
}

// listTasks returns all scheduled tasks.
// GET /api/v1/scheduler/tasks
func (s *Server) listTasks(c echo.Context) error {
	return c.JSON(http.StatusOK, s.scheduler.ListTasks())
}

// getTask returns one scheduled task.
// GET /api/v1/scheduler/tasks/:id
func (s *Server) getTask(c echo.Context) error {
	task, err := s.scheduler.GetTask(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, task)
}

// runTask triggers a task immediately.
// POST /api/v1/scheduler/tasks/:id/run
func (s *Server) runTask(c echo.Context) error {
	taskID := c.Param("id")
	if err := s.scheduler.RunNow(taskID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusAccepted, map[string]string{
		"message": "Task started",
		"taskId":  taskID,
	})
}
