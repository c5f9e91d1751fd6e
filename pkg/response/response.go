package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
)

// ErrorBody is the error contract shared by every endpoint.
type ErrorBody struct {
	Error               string `json:"error"`
	Code                string `json:"code"`
	Message             string `json:"message,omitempty"`
	NeedsInitialization bool   `json:"needsInitialization,omitempty"`
}

// Reporter receives server side failures before they are written to the client.
type Reporter func(c *gin.Context, err *appErrors.Error)

var reporter Reporter

// SetReporter installs the hook invoked for every 5xx response.
func SetReporter(r Reporter) {
	reporter = r
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}

// JSON sends a payload as-is.
func JSON(c *gin.Context, status int, payload interface{}) {
	noStore(c)
	c.JSON(status, payload)
}

// Success merges `success: true` into the given fields.
func Success(c *gin.Context, status int, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	JSON(c, status, body)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, fields gin.H) {
	Success(c, http.StatusCreated, fields)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	body := ErrorBody{Error: appErr.Message, Code: appErr.Code}
	switch {
	case appErr.Status == http.StatusFailedDependency:
		body.NeedsInitialization = true
	case appErr.Status >= http.StatusInternalServerError:
		body.Message = appErr.Cause()
		if reporter != nil {
			reporter(c, appErr)
		}
	case appErr.Status == http.StatusBadRequest:
		body.Message = appErr.Cause()
	}
	noStore(c)
	c.AbortWithStatusJSON(appErr.Status, body)
}

// File streams a rendered document as an attachment.
func File(c *gin.Context, contentType, filename string, data []byte) {
	noStore(c)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}
