package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/academy-admin-api/internal/middleware"
	"github.com/noah-isme/academy-admin-api/internal/models"
	"github.com/noah-isme/academy-admin-api/internal/repository"
	"github.com/noah-isme/academy-admin-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
	binding.EnableDecoderDisallowUnknownFields = true
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

type userRepoStub struct {
	user *models.User
}

func (r *userRepoStub) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if r.user != nil && r.user.Username == username {
		return r.user, nil
	}
	return nil, sql.ErrNoRows
}

func (r *userRepoStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error { return nil }

func newAuthHandlerForTest(t *testing.T) *AuthHandler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("12345"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &userRepoStub{user: &models.User{ID: "6", Username: "nahad", Name: "Nahad", PasswordHash: string(hash), Roles: models.RoleList{models.RoleTeacher}}}
	svc := service.NewAuthService(repo, nil, nil, service.AuthConfig{AccessTokenSecret: "secret", AccessTokenExpiry: time.Hour, Issuer: "test"})
	return NewAuthHandler(svc)
}

func TestAuthHandlerLogin(t *testing.T) {
	h := newAuthHandlerForTest(t)

	c, w := newGinContext(http.MethodPost, "/auth/login", []byte(`{"username":"nahad","password":"12345"}`))
	h.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "teacher", user["activeRole"])
}

func TestAuthHandlerLoginRejectsUnknownFields(t *testing.T) {
	h := newAuthHandlerForTest(t)

	c, w := newGinContext(http.MethodPost, "/auth/login", []byte(`{"username":"nahad","password":"12345","role":"admin"}`))
	h.Login(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeBody(t, w)["code"])
}

func TestAuthHandlerMe(t *testing.T) {
	h := newAuthHandlerForTest(t)

	c, w := newGinContext(http.MethodGet, "/auth/me", nil)
	h.Me(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	c, w = newGinContext(http.MethodGet, "/auth/me", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "1", Username: "admin1", Roles: models.RoleList{models.RoleAdmin}, ActiveRole: models.RoleAdmin})
	h.Me(c)
	require.Equal(t, http.StatusOK, w.Code)
	user := decodeBody(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "admin1", user["username"])
}

type requestRepoStub struct {
	request *models.TeacherRequest
	applied []repository.ReviewParams
}

func (r *requestRepoStub) List(ctx context.Context, filter models.RequestFilter) ([]models.TeacherRequest, error) {
	return []models.TeacherRequest{*r.request}, nil
}

func (r *requestRepoStub) FindByID(ctx context.Context, id string) (*models.TeacherRequest, error) {
	if r.request == nil || r.request.ID != id {
		return nil, sql.ErrNoRows
	}
	copied := *r.request
	return &copied, nil
}

func (r *requestRepoStub) Create(ctx context.Context, req *models.TeacherRequest) error { return nil }

func (r *requestRepoStub) ApplyReview(ctx context.Context, p repository.ReviewParams) (int64, error) {
	r.applied = append(r.applied, p)
	r.request.Status = p.To
	return 1, nil
}

func TestTeacherRequestHandlerReview(t *testing.T) {
	session, student := "Saturday-13", "STU002"
	repo := &requestRepoStub{request: &models.TeacherRequest{
		ID: "REQ001", Type: models.RequestRemoveStudent, Status: models.RequestPending,
		TeacherName: "Nahad", SessionID: &session, StudentID: &student, SemesterID: "fall-2024",
	}}
	h := NewTeacherRequestHandler(service.NewTeacherRequestService(repo, nil, nil, service.NewClock(time.UTC), nil, nil))

	c, w := newGinContext(http.MethodPut, "/teacher-requests", []byte(`{"requestId":"REQ001","action":"approved"}`))
	h.Review(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Request approved successfully", decodeBody(t, w)["message"])
	require.Len(t, repo.applied, 1)
	assert.Equal(t, &session, repo.applied[0].FlagSessionID)

	c, w = newGinContext(http.MethodPut, "/teacher-requests", []byte(`{"requestId":"REQ001","action":"denied"}`))
	h.Review(c)
	require.Equal(t, http.StatusConflict, w.Code)

	c, w = newGinContext(http.MethodPut, "/teacher-requests", []byte(`{"requestId":"REQ404","action":"denied"}`))
	h.Review(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

type semesterRepoStub struct {
	err error
}

func (r *semesterRepoStub) List(ctx context.Context) ([]models.Semester, error) {
	return nil, r.err
}

func (r *semesterRepoStub) FindByID(ctx context.Context, id string) (*models.Semester, error) {
	return nil, r.err
}

func (r *semesterRepoStub) ListRoster(ctx context.Context, semesterID string) ([]models.RosterRow, error) {
	return nil, r.err
}

func TestSemesterHandlerReportsMissingTables(t *testing.T) {
	repo := &semesterRepoStub{err: &pq.Error{Code: "42P01", Message: `relation "semesters" does not exist`}}
	h := NewSemesterHandler(service.NewSemesterService(repo, repo, nil, nil))

	c, w := newGinContext(http.MethodGet, "/semesters", nil)
	h.List(c)

	require.Equal(t, http.StatusFailedDependency, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["needsInitialization"])
	assert.Equal(t, "DATABASE_NOT_INITIALIZED", body["code"])
}

type migratorStub struct{ err error }

func (m migratorStub) Up(ctx context.Context) (int64, error) { return 1, m.err }

type seedRepoStub struct{}

func (seedRepoStub) Ping(ctx context.Context) error { return nil }

func (seedRepoStub) Seed(ctx context.Context, fixture models.SeedFixture) ([]string, error) {
	return []string{"users"}, nil
}

func TestDatabaseHandlerInitialize(t *testing.T) {
	ok := NewDatabaseHandler(service.NewDatabaseService(migratorStub{}, seedRepoStub{}, "12345", nil))
	c, w := newGinContext(http.MethodPost, "/database/initialize", nil)
	ok.Initialize(c)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["connected"])
	assert.Equal(t, true, body["seedingComplete"])

	broken := NewDatabaseHandler(service.NewDatabaseService(migratorStub{err: errors.New("permission denied")}, seedRepoStub{}, "12345", nil))
	c, w = newGinContext(http.MethodPost, "/database/initialize", nil)
	broken.Initialize(c)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, true, body["connected"])
	assert.Equal(t, false, body["seedingComplete"])
	assert.Contains(t, body["message"], "permission denied")
}

func TestAssistantHandlerDisabled(t *testing.T) {
	h := NewAssistantHandler(service.NewAssistantService(nil, time.Second, nil, nil))

	c, w := newGinContext(http.MethodPost, "/assistant/grade-suggestions", []byte(`{"attendanceRecords":"a","evaluations":"b","subject":"Oud"}`))
	h.SuggestGrade(c)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
