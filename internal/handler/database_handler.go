package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-admin-api/internal/service"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
	"github.com/noah-isme/academy-admin-api/pkg/response"
)

// DatabaseHandler exposes the bootstrap endpoint.
type DatabaseHandler struct {
	database *service.DatabaseService
}

// NewDatabaseHandler constructs DatabaseHandler.
func NewDatabaseHandler(database *service.DatabaseService) *DatabaseHandler {
	return &DatabaseHandler{database: database}
}

// Initialize godoc
// @Summary Initialize the database
// @Description Applies schema migrations and seeds reference data into empty tables
// @Tags System
// @Produce json
// @Success 200 {object} models.InitializeResult
// @Failure 500 {object} map[string]interface{}
// @Router /database/initialize [post]
func (h *DatabaseHandler) Initialize(c *gin.Context) {
	result, err := h.database.Initialize(c.Request.Context())
	if err != nil {
		appErr := appErrors.FromError(err)
		response.JSON(c, appErr.Status, gin.H{
			"error":           appErr.Message,
			"code":            appErr.Code,
			"message":         appErr.Cause(),
			"connected":       result.Connected,
			"seedingComplete": result.SeedingComplete,
		})
		return
	}
	response.JSON(c, http.StatusOK, result)
}
