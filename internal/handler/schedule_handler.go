package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-admin-api/internal/dto"
	"github.com/noah-isme/academy-admin-api/internal/service"
	"github.com/noah-isme/academy-admin-api/pkg/response"
)

// ScheduleHandler serves the weekly session grid.
type ScheduleHandler struct {
	schedule *service.ScheduleService
}

// NewScheduleHandler constructs ScheduleHandler.
func NewScheduleHandler(schedule *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule}
}

// Week godoc
// @Summary Weekly sessions of a teacher
// @Description Sessions with their rosters and the attendance of the week starting on the Saturday on or before weekStart
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param semesterId query string true "Semester ID"
// @Param teacherName query string true "Teacher name"
// @Param weekStart query string true "Any date of the week (YYYY-MM-DD)"
// @Success 200 {array} models.SessionView
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /sessions [get]
func (h *ScheduleHandler) Week(c *gin.Context) {
	var q dto.SessionWeekQuery
	if !bindQuery(c, &q, "invalid session query") {
		return
	}
	sessions, err := h.schedule.Week(c.Request.Context(), claimsFromContext(c), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions)
}

// Export godoc
// @Summary Export the weekly grid
// @Tags Sessions
// @Produce application/pdf
// @Produce text/csv
// @Security BearerAuth
// @Param semesterId query string true "Semester ID"
// @Param teacherName query string true "Teacher name"
// @Param weekStart query string true "Any date of the week (YYYY-MM-DD)"
// @Param format query string false "pdf (default) or csv"
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorBody
// @Router /sessions/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	var q dto.SessionWeekQuery
	if !bindQuery(c, &q, "invalid export query") {
		return
	}
	data, contentType, filename, err := h.schedule.Export(c.Request.Context(), claimsFromContext(c), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, contentType, filename, data)
}
