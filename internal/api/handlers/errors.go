package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/TWRT/teamwork-tasks/internal/models"
	"github.com/TWRT/teamwork-tasks/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrMemberAlreadyExists),
		errors.Is(err, service.ErrNoTeamMembers):
		return http.StatusConflict
	case errors.Is(err, service.ErrMemberNotFound),
		errors.Is(err, service.ErrInvalidMember):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrInvalidPriority),
		errors.Is(err, models.ErrInvalidDate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
	}
	return c.JSON(status, errorResponse{Error: err.Error()})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}
