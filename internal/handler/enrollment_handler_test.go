package handler

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-admin-api/internal/middleware"
	"github.com/noah-isme/academy-admin-api/internal/models"
	"github.com/noah-isme/academy-admin-api/internal/service"
)

type sessionFinderStub struct {
	sessions map[string]models.Session
}

func (s sessionFinderStub) FindByID(ctx context.Context, id string) (*models.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &session, nil
}

type enrollmentFinderStub struct{}

func (enrollmentFinderStub) Find(ctx context.Context, sessionID, studentID string) (*models.Enrollment, error) {
	if studentID != "STU001" {
		return nil, sql.ErrNoRows
	}
	return &models.Enrollment{ID: models.EnrollmentID(sessionID, studentID), SessionID: sessionID, StudentID: studentID}, nil
}

type attendanceRepoStub struct {
	stored []models.Attendance
}

func (r *attendanceRepoStub) Upsert(ctx context.Context, record *models.Attendance) error {
	record.ID = "att-1"
	r.stored = append(r.stored, *record)
	return nil
}

func newAttendanceHandlerForTest(repo *attendanceRepoStub) *EnrollmentHandler {
	sessions := sessionFinderStub{sessions: map[string]models.Session{
		"Saturday-13": {ID: "Saturday-13", TeacherName: "نهاد", DayOfWeek: "Saturday", TimeSlot: "1:00 PM - 3:00 PM"},
	}}
	svc := service.NewAttendanceService(repo, sessions, enrollmentFinderStub{}, nil, nil)
	return NewEnrollmentHandler(nil, svc)
}

func TestEnrollmentHandlerRecordAttendance(t *testing.T) {
	repo := &attendanceRepoStub{}
	h := newAttendanceHandlerForTest(repo)

	c, w := newGinContext(http.MethodPost, "/attendance", []byte(`{"sessionId":"Saturday-13","studentId":"STU001","weekStartDate":"2024-10-07","status":"late","note":"traffic"}`))
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "6", Name: "نهاد", Roles: models.RoleList{models.RoleTeacher}, ActiveRole: models.RoleTeacher})
	h.RecordAttendance(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	record := body["attendance"].(map[string]interface{})
	assert.Equal(t, "att-1", record["id"])
	assert.Equal(t, "2024-10-05", record["weekStartDate"])
	assert.Equal(t, "late", record["status"])

	require.Len(t, repo.stored, 1)
	require.NotNil(t, repo.stored[0].Note)
	assert.Equal(t, "traffic", *repo.stored[0].Note)
}

func TestEnrollmentHandlerRecordAttendanceRejections(t *testing.T) {
	repo := &attendanceRepoStub{}
	h := newAttendanceHandlerForTest(repo)
	admin := &models.JWTClaims{UserID: "1", Roles: models.RoleList{models.RoleAdmin}, ActiveRole: models.RoleAdmin}
	otherTeacher := &models.JWTClaims{UserID: "7", Name: "حازم", Roles: models.RoleList{models.RoleTeacher}, ActiveRole: models.RoleTeacher}

	cases := []struct {
		name   string
		claims *models.JWTClaims
		body   string
		status int
	}{
		{"unknown field", admin, `{"sessionId":"Saturday-13","studentId":"STU001","weekStartDate":"2024-10-05","status":"present","grade":"A"}`, http.StatusBadRequest},
		{"invalid status", admin, `{"sessionId":"Saturday-13","studentId":"STU001","weekStartDate":"2024-10-05","status":"sick"}`, http.StatusBadRequest},
		{"foreign session", otherTeacher, `{"sessionId":"Saturday-13","studentId":"STU001","weekStartDate":"2024-10-05","status":"present"}`, http.StatusForbidden},
		{"not enrolled", admin, `{"sessionId":"Saturday-13","studentId":"STU009","weekStartDate":"2024-10-05","status":"present"}`, http.StatusNotFound},
		{"unknown session", admin, `{"sessionId":"Friday-10","studentId":"STU001","weekStartDate":"2024-10-05","status":"present"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := newGinContext(http.MethodPost, "/attendance", []byte(tc.body))
			c.Set(middleware.ContextUserKey, tc.claims)
			h.RecordAttendance(c)

			require.Equal(t, tc.status, w.Code)
			assert.NotEmpty(t, decodeBody(t, w)["code"])
		})
	}
	assert.Empty(t, repo.stored)
}
