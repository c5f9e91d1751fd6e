package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-admin-api/internal/models"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
)

type validatorStub struct {
	claims *models.JWTClaims
}

func (v validatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return v.claims, nil
}

type auditStub struct {
	logs []*models.AuditLog
	err  error
}

func (a *auditStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	a.logs = append(a.logs, log)
	return a.err
}

func newRouter(claims *models.JWTClaims, handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{JWT(validatorStub{claims: claims})}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		userID, _ := c.Get("userID")
		c.JSON(http.StatusOK, gin.H{"userID": userID})
	})
	r.POST("/students/:id", chain...)
	return r
}

func serve(r *gin.Engine, auth string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/students/STU001", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWT(t *testing.T) {
	claims := &models.JWTClaims{UserID: "1", Roles: models.RoleList{models.RoleAdmin}, ActiveRole: models.RoleAdmin}
	r := newRouter(claims)

	assert.Equal(t, http.StatusUnauthorized, serve(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Bearer bad").Code)

	w := serve(r, "Bearer good")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userID":"1"`)
}

func TestRequireRoles(t *testing.T) {
	cases := []struct {
		name   string
		claims *models.JWTClaims
		want   int
	}{
		{"admin allowed", &models.JWTClaims{Roles: models.RoleList{models.RoleAdmin}, ActiveRole: models.RoleAdmin}, http.StatusOK},
		{"teacher denied", &models.JWTClaims{Roles: models.RoleList{models.RoleTeacher}, ActiveRole: models.RoleTeacher}, http.StatusForbidden},
		{"active role not assigned", &models.JWTClaims{Roles: models.RoleList{models.RoleTeacher}, ActiveRole: models.RoleAdmin}, http.StatusForbidden},
		{"second role active", &models.JWTClaims{Roles: models.RoleList{models.RoleTeacher, models.RoleUpperManagement}, ActiveRole: models.RoleUpperManagement}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRouter(tc.claims, RequireRoles(models.RoleAdmin, models.RoleUpperManagement))
			assert.Equal(t, tc.want, serve(r, "Bearer good").Code)
		})
	}
}

func TestAuditRecordsSuccessfulWrites(t *testing.T) {
	claims := &models.JWTClaims{UserID: "1", Roles: models.RoleList{models.RoleAdmin}, ActiveRole: models.RoleAdmin}
	writer := &auditStub{err: errors.New("disk full")}
	r := newRouter(claims, Audit(writer, nil, models.AuditActionLevelChanged, "students", "id"))

	w := serve(r, "Bearer good")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, writer.logs, 1)
	assert.Equal(t, models.AuditActionLevelChanged, writer.logs[0].Action)
	require.NotNil(t, writer.logs[0].ResourceID)
	assert.Equal(t, "STU001", *writer.logs[0].ResourceID)
	assert.Equal(t, "1", *writer.logs[0].UserID)

	serve(r, "Bearer bad")
	assert.Len(t, writer.logs, 1)
}

type observerStub struct {
	routes []string
}

func (o *observerStub) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	o.routes = append(o.routes, method+" "+route)
}

func TestMetricsLabelsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	obs := &observerStub{}
	r := gin.New()
	r.Use(Metrics(obs))
	r.GET("/students/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/students/STU001", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/wp-admin", nil))

	assert.Equal(t, []string{"GET /students/:id", "GET unmatched"}, obs.routes)
}
