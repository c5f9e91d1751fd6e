package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-admin-api/internal/dto"
	"github.com/noah-isme/academy-admin-api/internal/service"
	"github.com/noah-isme/academy-admin-api/pkg/response"
)

// AssistantHandler exposes the AI helpers.
type AssistantHandler struct {
	assistant *service.AssistantService
}

// NewAssistantHandler constructs AssistantHandler.
func NewAssistantHandler(assistant *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

// SuggestGrade godoc
// @Summary Suggest a grade
// @Tags Assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.GradeSuggestionRequest true "Grade inputs"
// @Success 200 {object} models.GradeSuggestion
// @Failure 503 {object} response.ErrorBody
// @Router /assistant/grade-suggestions [post]
func (h *AssistantHandler) SuggestGrade(c *gin.Context) {
	var req dto.GradeSuggestionRequest
	if !bindJSON(c, &req, "invalid grade suggestion payload") {
		return
	}
	out, err := h.assistant.SuggestGrade(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, out)
}

// SuggestSchedule godoc
// @Summary Suggest an optimized schedule
// @Tags Assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ScheduleSuggestionRequest true "Schedule inputs"
// @Success 200 {object} models.ScheduleSuggestion
// @Failure 503 {object} response.ErrorBody
// @Router /assistant/schedule-suggestions [post]
func (h *AssistantHandler) SuggestSchedule(c *gin.Context) {
	var req dto.ScheduleSuggestionRequest
	if !bindJSON(c, &req, "invalid schedule suggestion payload") {
		return
	}
	out, err := h.assistant.SuggestSchedule(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, out)
}
