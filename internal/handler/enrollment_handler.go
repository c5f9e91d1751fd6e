package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-admin-api/internal/dto"
	"github.com/noah-isme/academy-admin-api/internal/service"
	"github.com/noah-isme/academy-admin-api/pkg/response"
)

// EnrollmentHandler manages session rosters and attendance.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
	attendance  *service.AttendanceService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService, attendance *service.AttendanceService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, attendance: attendance}
}

// Enroll godoc
// @Summary Enroll a student in a session
// @Tags Enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.EnrollmentRequest true "Enrollment payload"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /session-students [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req dto.EnrollmentRequest
	if !bindJSON(c, &req, "invalid enrollment payload") {
		return
	}
	enrollment, err := h.enrollments.Enroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"enrollment": enrollment})
}

// Remove godoc
// @Summary Remove a student from a session
// @Tags Enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.EnrollmentRequest true "Enrollment payload"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorBody
// @Router /session-students [delete]
func (h *EnrollmentHandler) Remove(c *gin.Context) {
	var req dto.EnrollmentRequest
	if !bindJSON(c, &req, "invalid enrollment payload") {
		return
	}
	if err := h.enrollments.Remove(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, nil)
}

// SetPendingRemoval godoc
// @Summary Flag or unflag an enrollment for removal
// @Tags Enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.PendingRemovalRequest true "Pending removal payload"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /session-students/pending [put]
func (h *EnrollmentHandler) SetPendingRemoval(c *gin.Context) {
	var req dto.PendingRemovalRequest
	if !bindJSON(c, &req, "invalid pending removal payload") {
		return
	}
	if err := h.enrollments.SetPendingRemoval(c.Request.Context(), claimsFromContext(c), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, nil)
}

// RecordAttendance godoc
// @Summary Mark attendance for a session week
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.AttendanceRequest true "Attendance payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /attendance [post]
func (h *EnrollmentHandler) RecordAttendance(c *gin.Context) {
	var req dto.AttendanceRequest
	if !bindJSON(c, &req, "invalid attendance payload") {
		return
	}
	record, err := h.attendance.Record(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"attendance": record})
}
