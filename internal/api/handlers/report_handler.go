package handlers

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/TWRT/teamwork-tasks/internal/service"
)

type reminderResponse struct {
	TaskID     int    `json:"task_id"`
	AssignedTo string `json:"assigned_to"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

type ReportHandler struct {
	registry *service.TaskRegistry
	notifier *service.Notifier
	lock     sync.Locker
}

func NewReportHandler(registry *service.TaskRegistry, notifier *service.Notifier, lock sync.Locker) *ReportHandler {
	return &ReportHandler{
		registry: registry,
		notifier: notifier,
		lock:     lock,
	}
}

func (h *ReportHandler) Productivity(c echo.Context) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	return c.JSON(http.StatusOK, map[string]any{
		"report": h.registry.ProductivityReport(),
	})
}

// SendReminders answers 503 when no sender is configured; per-task delivery
// failures are listed in the 200 response.
func (h *ReportHandler) SendReminders(c echo.Context) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	if !h.notifier.Configured() {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: service.ErrMailNotConfigured.Error()})
	}

	results := h.notifier.SendReminders(c.Request().Context())
	out := make([]reminderResponse, 0, len(results))
	for _, r := range results {
		res := reminderResponse{
			TaskID:     r.Task.ID,
			AssignedTo: r.Task.AssignedTo,
			Status:     string(r.Status),
		}
		if r.Err != nil {
			res.Error = r.Err.Error()
		}
		out = append(out, res)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"reminders": out,
	})
}
