package api

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/TWRT/teamwork-tasks/internal/api/handlers"
	"github.com/TWRT/teamwork-tasks/internal/service"
)

// SetupRouter registers the API on a new Echo instance. lock serializes
// every registry access, including the ones made by a reminder scheduler
// sharing it.
func SetupRouter(registry *service.TaskRegistry, notifier *service.Notifier, lock sync.Locker) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	taskHandler := handlers.NewTaskHandler(registry, lock)
	memberHandler := handlers.NewMemberHandler(registry, lock)
	reportHandler := handlers.NewReportHandler(registry, notifier, lock)

	e.POST("/tasks", taskHandler.CreateTask)
	e.POST("/tasks/allocate", taskHandler.AllocateTask)
	e.GET("/tasks", taskHandler.ListTasks)
	e.GET("/tasks/upcoming", taskHandler.UpcomingDeadlines)
	e.PATCH("/tasks/:id/status", taskHandler.UpdateStatus)
	e.PATCH("/tasks/:id/assignee", taskHandler.Reassign)

	e.POST("/members", memberHandler.CreateMember)
	e.GET("/members", memberHandler.ListMembers)
	e.GET("/members/:name/todo", memberHandler.ToDoList)

	e.GET("/reports/productivity", reportHandler.Productivity)
	e.POST("/reminders", reportHandler.SendReminders)

	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	return e
}
