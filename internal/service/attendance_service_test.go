package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-admin-api/internal/dto"
	"github.com/noah-isme/academy-admin-api/internal/models"
)

type stubAttendanceRepo struct {
	records map[string]models.Attendance
	err     error
}

func (s *stubAttendanceRepo) Upsert(ctx context.Context, record *models.Attendance) error {
	if s.err != nil {
		return s.err
	}
	if s.records == nil {
		s.records = map[string]models.Attendance{}
	}
	s.records[record.SessionID+"|"+record.StudentID+"|"+record.WeekStartDate.String()] = *record
	return nil
}

func TestAttendanceServiceRecordUpsertsPerWeek(t *testing.T) {
	repo := &stubAttendanceRepo{}
	svc := NewAttendanceService(repo, hudaSessions(), newStubEnrollmentRepo([2]string{"SES1", "STU001"}), nil, nil)
	admin := &models.JWTClaims{ActiveRole: models.RoleAdmin}

	record, err := svc.Record(context.Background(), admin, dto.AttendanceRequest{
		SessionID:     "SES1",
		StudentID:     "STU001",
		WeekStartDate: mustDate(t, "2024-03-12"),
		Status:        models.AttendancePresent,
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09", record.WeekStartDate.String())

	note := "  arrived 10 minutes late "
	_, err = svc.Record(context.Background(), admin, dto.AttendanceRequest{
		SessionID:     "SES1",
		StudentID:     "STU001",
		WeekStartDate: mustDate(t, "2024-03-09"),
		Status:        models.AttendanceLate,
		Note:          &note,
	})
	require.NoError(t, err)

	require.Len(t, repo.records, 1)
	stored := repo.records["SES1|STU001|2024-03-09"]
	assert.Equal(t, models.AttendanceLate, stored.Status)
	require.NotNil(t, stored.Note)
	assert.Equal(t, "arrived 10 minutes late", *stored.Note)
}

func TestAttendanceServiceRecordRejects(t *testing.T) {
	repo := &stubAttendanceRepo{}
	svc := NewAttendanceService(repo, hudaSessions(), newStubEnrollmentRepo([2]string{"SES1", "STU001"}, [2]string{"SES2", "STU002"}), nil, nil)
	teacher := &models.JWTClaims{Name: "Ms. Huda", ActiveRole: models.RoleTeacher}
	week := mustDate(t, "2024-03-09")

	_, err := svc.Record(context.Background(), teacher, dto.AttendanceRequest{SessionID: "SES1", StudentID: "STU001", WeekStartDate: week, Status: "sleeping"})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.Record(context.Background(), teacher, dto.AttendanceRequest{SessionID: "SES1", StudentID: "STU001", Status: models.AttendanceAbsent})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.Record(context.Background(), teacher, dto.AttendanceRequest{SessionID: "SES2", StudentID: "STU002", WeekStartDate: week, Status: models.AttendanceAbsent})
	requireStatus(t, err, http.StatusForbidden)

	_, err = svc.Record(context.Background(), teacher, dto.AttendanceRequest{SessionID: "SES1", StudentID: "STU002", WeekStartDate: week, Status: models.AttendanceAbsent})
	requireStatus(t, err, http.StatusNotFound)

	repo.err = errors.New("db down")
	_, err = svc.Record(context.Background(), teacher, dto.AttendanceRequest{SessionID: "SES1", StudentID: "STU001", WeekStartDate: week, Status: models.AttendanceExcused})
	requireStatus(t, err, http.StatusInternalServerError)
	assert.Empty(t, repo.records)
}
