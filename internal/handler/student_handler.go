package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-admin-api/internal/dto"
	"github.com/noah-isme/academy-admin-api/internal/service"
	"github.com/noah-isme/academy-admin-api/pkg/response"
)

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students *service.StudentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// List godoc
// @Summary List students
// @Description Students ordered by creation date with their active enrollments
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 424 {object} response.ErrorBody
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"students": students})
}

// Get godoc
// @Summary Get student profile
// @Description Full aggregate: level history, evaluations, grades, installments, due-date changes and enrollments
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} models.StudentProfile
// @Failure 404 {object} response.ErrorBody
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateStudentRequest true "Student payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.CreateStudentRequest
	if !bindJSON(c, &req, "invalid student payload") {
		return
	}
	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"student": student})
}

// UpdateLevel godoc
// @Summary Change student level
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param payload body dto.UpdateLevelRequest true "Level payload"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorBody
// @Router /students/{id}/level [put]
func (h *StudentHandler) UpdateLevel(c *gin.Context) {
	var req dto.UpdateLevelRequest
	if !bindJSON(c, &req, "invalid level payload") {
		return
	}
	change, err := h.students.UpdateLevel(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"newLevel": change.NewLevel})
}

// AddGrade godoc
// @Summary Record a grade
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param payload body dto.AddGradeRequest true "Grade payload"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorBody
// @Router /students/{id}/grades [post]
func (h *StudentHandler) AddGrade(c *gin.Context) {
	var req dto.AddGradeRequest
	if !bindJSON(c, &req, "invalid grade payload") {
		return
	}
	grade, err := h.students.AddGrade(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"grade": grade})
}

// AddEvaluation godoc
// @Summary Record an evaluation
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param payload body dto.AddEvaluationRequest true "Evaluation payload"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorBody
// @Router /students/{id}/evaluations [post]
func (h *StudentHandler) AddEvaluation(c *gin.Context) {
	var req dto.AddEvaluationRequest
	if !bindJSON(c, &req, "invalid evaluation payload") {
		return
	}
	evaluation, err := h.students.AddEvaluation(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"evaluation": evaluation})
}
