package handlers

import (
	"net/http"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/TWRT/teamwork-tasks/internal/models"
	"github.com/TWRT/teamwork-tasks/internal/service"
)

type CreateMemberRequestBody struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type memberResponse struct {
	models.MemberRecord
	TaskIDs []int `json:"task_ids"`
}

func newMemberResponse(m models.TeamMember) memberResponse {
	ids := make([]int, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		ids = append(ids, t.ID)
	}
	return memberResponse{MemberRecord: m.Record(), TaskIDs: ids}
}

type MemberHandler struct {
	registry *service.TaskRegistry
	lock     sync.Locker
}

func NewMemberHandler(registry *service.TaskRegistry, lock sync.Locker) *MemberHandler {
	return &MemberHandler{
		registry: registry,
		lock:     lock,
	}
}

func (h *MemberHandler) CreateMember(c echo.Context) error {
	var body CreateMemberRequestBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "JSON error: "+err.Error())
	}

	h.lock.Lock()
	defer h.lock.Unlock()

	m, err := h.registry.AddTeamMember(c.Request().Context(), strings.TrimSpace(body.Name), strings.TrimSpace(body.Email))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, newMemberResponse(m))
}

func (h *MemberHandler) ListMembers(c echo.Context) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	members := h.registry.Members()
	out := make([]memberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, newMemberResponse(m))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"members": out,
	})
}

// ToDoList answers 200 with an empty list for unknown members.
func (h *MemberHandler) ToDoList(c echo.Context) error {
	name := c.Param("name")

	h.lock.Lock()
	defer h.lock.Unlock()

	return c.JSON(http.StatusOK, map[string]any{
		"member": name,
		"tasks":  models.TaskRecords(h.registry.ToDoList(name)),
	})
}
