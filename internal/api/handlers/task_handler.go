package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/TWRT/teamwork-tasks/internal/models"
	"github.com/TWRT/teamwork-tasks/internal/service"
)

type CreateTaskRequestBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	Priority    string `json:"priority"`
	AssignedTo  string `json:"assigned_to"`
}

type UpdateStatusRequestBody struct {
	Status string `json:"status"`
}

type ReassignRequestBody struct {
	AssignedTo string `json:"assigned_to"`
}

type TaskHandler struct {
	registry *service.TaskRegistry
	lock     sync.Locker
}

func NewTaskHandler(registry *service.TaskRegistry, lock sync.Locker) *TaskHandler {
	return &TaskHandler{
		registry: registry,
		lock:     lock,
	}
}

func (h *TaskHandler) CreateTask(c echo.Context) error {
	var body CreateTaskRequestBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "JSON error: "+err.Error())
	}
	params, err := body.params()
	if err != nil {
		return writeError(c, err)
	}

	h.lock.Lock()
	defer h.lock.Unlock()

	task, err := h.registry.AddTask(c.Request().Context(), params)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, task.Record())
}

// AllocateTask creates a task and gives it to the least loaded member;
// assigned_to in the body is ignored.
func (h *TaskHandler) AllocateTask(c echo.Context) error {
	var body CreateTaskRequestBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "JSON error: "+err.Error())
	}
	params, err := body.params()
	if err != nil {
		return writeError(c, err)
	}

	h.lock.Lock()
	defer h.lock.Unlock()

	task := &models.Task{
		Title:       params.Title,
		Description: params.Description,
		Deadline:    params.Deadline,
		Priority:    params.Priority,
	}
	if err := h.registry.AllocateTask(c.Request().Context(), task); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, task.Record())
}

func (b CreateTaskRequestBody) params() (service.AddTaskParams, error) {
	deadline, err := models.ParseDate(b.Deadline)
	if err != nil {
		return service.AddTaskParams{}, err
	}
	priority, err := models.ParsePriority(b.Priority)
	if err != nil {
		return service.AddTaskParams{}, err
	}
	return service.AddTaskParams{
		Title:       b.Title,
		Description: b.Description,
		Deadline:    deadline,
		Priority:    priority,
		AssignedTo:  strings.TrimSpace(b.AssignedTo),
	}, nil
}

// ListTasks returns every task, or only one priority when ?priority= is set.
func (h *TaskHandler) ListTasks(c echo.Context) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	var tasks []models.Task
	if raw := c.QueryParam("priority"); raw != "" {
		p, err := models.ParsePriority(raw)
		if err != nil {
			return writeError(c, err)
		}
		tasks = h.registry.TasksByPriority(p)
	} else {
		tasks = h.registry.Tasks()
	}
	return c.JSON(http.StatusOK, map[string]any{
		"tasks": models.TaskRecords(tasks),
	})
}

func (h *TaskHandler) UpcomingDeadlines(c echo.Context) error {
	days := service.DefaultReminderWindowDays
	if raw := strings.TrimSpace(c.QueryParam("days")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "invalid days")
		}
		days = n
	}

	h.lock.Lock()
	defer h.lock.Unlock()

	return c.JSON(http.StatusOK, map[string]any{
		"days":  days,
		"tasks": models.TaskRecords(h.registry.UpcomingDeadlines(days)),
	})
}

func (h *TaskHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid task id")
	}
	var body UpdateStatusRequestBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "JSON error: "+err.Error())
	}
	h.lock.Lock()
	defer h.lock.Unlock()

	if err := h.registry.UpdateTaskStatus(c.Request().Context(), id, body.Status); err != nil {
		return writeError(c, err)
	}
	task, _ := h.registry.Task(id)
	return c.JSON(http.StatusOK, task.Record())
}

func (h *TaskHandler) Reassign(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid task id")
	}
	var body ReassignRequestBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "JSON error: "+err.Error())
	}

	h.lock.Lock()
	defer h.lock.Unlock()

	task, err := h.registry.ReassignTask(c.Request().Context(), id, strings.TrimSpace(body.AssignedTo))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, task.Record())
}
