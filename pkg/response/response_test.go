package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
)

func TestErrorNeedsInitialization(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, &pq.Error{Code: "42P01", Message: `relation "semesters" does not exist`})

	require.Equal(t, http.StatusFailedDependency, w.Code)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.NeedsInitialization)
	assert.NotEmpty(t, body.Error)
}

func TestErrorExposesDriverMessageAndReports(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reported *appErrors.Error
	SetReporter(func(_ *gin.Context, err *appErrors.Error) { reported = err })
	t.Cleanup(func() { SetReporter(nil) })

	Error(c, appErrors.Wrap(errors.New("connection refused"), appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "failed to list students", body.Error)
	assert.Equal(t, "connection refused", body.Message)
	require.NotNil(t, reported)
}

func TestSuccessMergesFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, http.StatusOK, gin.H{"invoiceNumber": "INV-1"})

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "INV-1", body["invoiceNumber"])
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}
