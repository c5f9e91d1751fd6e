package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-admin-api/internal/dto"
	"github.com/noah-isme/academy-admin-api/internal/models"
	"github.com/noah-isme/academy-admin-api/internal/repository"
)

type stubEnrollmentRepo struct {
	rows      map[string]models.Enrollment
	createErr error
	created   *models.Enrollment
}

func newStubEnrollmentRepo(pairs ...[2]string) *stubEnrollmentRepo {
	repo := &stubEnrollmentRepo{rows: map[string]models.Enrollment{}}
	for _, p := range pairs {
		repo.rows[models.EnrollmentID(p[0], p[1])] = models.Enrollment{SessionID: p[0], StudentID: p[1]}
	}
	return repo
}

func (s *stubEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = enrollment
	s.rows[models.EnrollmentID(enrollment.SessionID, enrollment.StudentID)] = *enrollment
	return nil
}

func (s *stubEnrollmentRepo) Find(ctx context.Context, sessionID, studentID string) (*models.Enrollment, error) {
	if e, ok := s.rows[models.EnrollmentID(sessionID, studentID)]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubEnrollmentRepo) Delete(ctx context.Context, sessionID, studentID string) (bool, error) {
	key := models.EnrollmentID(sessionID, studentID)
	if _, ok := s.rows[key]; !ok {
		return false, nil
	}
	delete(s.rows, key)
	return true, nil
}

func (s *stubEnrollmentRepo) SetPendingRemoval(ctx context.Context, sessionID, studentID string, pending bool) (bool, error) {
	key := models.EnrollmentID(sessionID, studentID)
	e, ok := s.rows[key]
	if !ok {
		return false, nil
	}
	e.PendingRemoval = pending
	s.rows[key] = e
	return true, nil
}

type stubSessionFinder struct {
	sessions map[string]models.Session
}

func (s *stubSessionFinder) FindByID(ctx context.Context, id string) (*models.Session, error) {
	if se, ok := s.sessions[id]; ok {
		return &se, nil
	}
	return nil, sql.ErrNoRows
}

func hudaSessions() *stubSessionFinder {
	return &stubSessionFinder{sessions: map[string]models.Session{
		"SES1": {ID: "SES1", TeacherName: "Ms. Huda"},
		"SES2": {ID: "SES2", TeacherName: "Mr. Karim"},
	}}
}

func TestEnrollmentServiceEnroll(t *testing.T) {
	repo := newStubEnrollmentRepo()
	svc := NewEnrollmentService(repo, hudaSessions(), nil, nil, nil)

	enrollment, err := svc.Enroll(context.Background(), dto.EnrollmentRequest{SessionID: "SES1", StudentID: "STU001"})
	require.NoError(t, err)

	assert.Equal(t, "SES1", enrollment.SessionID)
	require.NotNil(t, repo.created)
	assert.False(t, repo.created.PendingRemoval)
}

func TestEnrollmentServiceEnrollErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{repository.ErrSessionNotFound, http.StatusNotFound},
		{repository.ErrStudentNotFound, http.StatusNotFound},
		{repository.ErrAlreadyEnrolled, http.StatusConflict},
		{sql.ErrConnDone, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		repo := newStubEnrollmentRepo()
		repo.createErr = tc.err
		svc := NewEnrollmentService(repo, hudaSessions(), nil, nil, nil)

		_, err := svc.Enroll(context.Background(), dto.EnrollmentRequest{SessionID: "SES1", StudentID: "STU001"})
		requireStatus(t, err, tc.status)
	}

	svc := NewEnrollmentService(newStubEnrollmentRepo(), hudaSessions(), nil, nil, nil)
	_, err := svc.Enroll(context.Background(), dto.EnrollmentRequest{SessionID: "SES1"})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestEnrollmentServiceRemove(t *testing.T) {
	repo := newStubEnrollmentRepo([2]string{"SES1", "STU001"})
	svc := NewEnrollmentService(repo, hudaSessions(), nil, nil, nil)

	require.NoError(t, svc.Remove(context.Background(), dto.EnrollmentRequest{SessionID: "SES1", StudentID: "STU001"}))
	assert.Empty(t, repo.rows)

	err := svc.Remove(context.Background(), dto.EnrollmentRequest{SessionID: "SES1", StudentID: "STU001"})
	requireStatus(t, err, http.StatusNotFound)
}

func TestEnrollmentServiceSetPendingRemoval(t *testing.T) {
	repo := newStubEnrollmentRepo([2]string{"SES1", "STU001"}, [2]string{"SES2", "STU002"})
	svc := NewEnrollmentService(repo, hudaSessions(), nil, nil, nil)
	teacher := &models.JWTClaims{Name: "Ms. Huda", ActiveRole: models.RoleTeacher}
	flag := true

	err := svc.SetPendingRemoval(context.Background(), teacher, dto.PendingRemovalRequest{SessionID: "SES1", StudentID: "STU001", PendingRemoval: &flag})
	require.NoError(t, err)
	assert.True(t, repo.rows[models.EnrollmentID("SES1", "STU001")].PendingRemoval)

	err = svc.SetPendingRemoval(context.Background(), teacher, dto.PendingRemovalRequest{SessionID: "SES2", StudentID: "STU002", PendingRemoval: &flag})
	requireStatus(t, err, http.StatusForbidden)

	admin := &models.JWTClaims{ActiveRole: models.RoleAdmin}
	err = svc.SetPendingRemoval(context.Background(), admin, dto.PendingRemovalRequest{SessionID: "SES2", StudentID: "STU009", PendingRemoval: &flag})
	requireStatus(t, err, http.StatusNotFound)

	err = svc.SetPendingRemoval(context.Background(), admin, dto.PendingRemovalRequest{SessionID: "SES9", StudentID: "STU001", PendingRemoval: &flag})
	requireStatus(t, err, http.StatusNotFound)

	err = svc.SetPendingRemoval(context.Background(), admin, dto.PendingRemovalRequest{SessionID: "SES1", StudentID: "STU001"})
	requireStatus(t, err, http.StatusBadRequest)
}
