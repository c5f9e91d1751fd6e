package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-admin-api/internal/dto"
	"github.com/noah-isme/academy-admin-api/internal/service"
	"github.com/noah-isme/academy-admin-api/pkg/response"
)

// TeacherRequestHandler serves the request approval workflow.
type TeacherRequestHandler struct {
	requests *service.TeacherRequestService
}

// NewTeacherRequestHandler constructs TeacherRequestHandler.
func NewTeacherRequestHandler(requests *service.TeacherRequestService) *TeacherRequestHandler {
	return &TeacherRequestHandler{requests: requests}
}

// List godoc
// @Summary List teacher requests
// @Description Newest first. Teachers only see their own requests.
// @Tags TeacherRequests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /teacher-requests [get]
func (h *TeacherRequestHandler) List(c *gin.Context) {
	requests, err := h.requests.List(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"requests": requests})
}

// Create godoc
// @Summary File a teacher request
// @Tags TeacherRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateTeacherRequest true "Request payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Router /teacher-requests [post]
func (h *TeacherRequestHandler) Create(c *gin.Context) {
	var req dto.CreateTeacherRequest
	if !bindJSON(c, &req, "invalid request payload") {
		return
	}
	created, err := h.requests.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"request": created})
}

// Review godoc
// @Summary Approve or deny a request
// @Description Approving a remove-student request flags the enrollment for removal in the same transaction
// @Tags TeacherRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ReviewTeacherRequest true "Review payload"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /teacher-requests [put]
func (h *TeacherRequestHandler) Review(c *gin.Context) {
	var req dto.ReviewTeacherRequest
	if !bindJSON(c, &req, "invalid review payload") {
		return
	}
	reviewed, err := h.requests.Review(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"message": fmt.Sprintf("Request %s successfully", reviewed.Status),
		"request": reviewed,
	})
}
