package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-admin-api/internal/dto"
	"github.com/noah-isme/academy-admin-api/internal/models"
)

type stubSessionGridRepo struct {
	rows  []models.SessionGridRow
	err   error
	query models.WeekQuery
}

func (s *stubSessionGridRepo) ListWeekGrid(ctx context.Context, q models.WeekQuery) ([]models.SessionGridRow, error) {
	s.query = q
	return s.rows, s.err
}

func boolPtr(b bool) *bool { return &b }

func TestGridRow(t *testing.T) {
	cases := map[string]int{
		"9:00 AM":             0,
		"1:00 PM - 3:00 PM":   4,
		"9:00 PM":             12,
		"11:30 pm":            12,
		"7:00 AM":             0,
		"12:00 PM":            3,
		"12:00 AM":            0,
		"10:15":               1,
		"12:00 - 1:00":        0,
		"after lunch":         0,
		"":                    0,
		"Sat 4:00PM - 5:00PM": 7,
	}
	for label, want := range cases {
		assert.Equal(t, want, GridRow(label), label)
	}
}

func gridRows() []models.SessionGridRow {
	present := models.AttendancePresent
	return []models.SessionGridRow{
		{SessionID: "SES1", DayOfWeek: "Saturday", TimeSlot: "1:00 PM - 2:00 PM", Duration: decimal.NewFromInt(1), Type: models.SessionPractical,
			StudentID: strPtr("STU001"), StudentName: strPtr("Ahmed"), PendingRemoval: boolPtr(false), AttendanceStatus: &present},
		{SessionID: "SES1", DayOfWeek: "Saturday", TimeSlot: "1:00 PM - 2:00 PM", Duration: decimal.NewFromInt(1), Type: models.SessionPractical,
			StudentID: strPtr("STU002"), StudentName: strPtr("Sara"), PendingRemoval: boolPtr(true)},
		{SessionID: "SES2", DayOfWeek: "Sunday", TimeSlot: "9:00 AM", Duration: decimal.NewFromFloat(1.5), Type: models.SessionTheory},
	}
}

func TestAssembleSessions(t *testing.T) {
	views := AssembleSessions(gridRows())
	require.Len(t, views, 2)

	assert.Equal(t, "SES1", views[0].ID)
	assert.Equal(t, 4, views[0].StartRow)
	require.Len(t, views[0].Students, 2)
	assert.Equal(t, "Ahmed", views[0].Students[0].Name)
	require.NotNil(t, views[0].Students[0].Attendance)
	assert.Equal(t, models.AttendancePresent, *views[0].Students[0].Attendance)
	assert.Nil(t, views[0].Students[1].Attendance)
	assert.True(t, views[0].Students[1].PendingRemoval)

	assert.Equal(t, "SES2", views[1].ID)
	assert.Equal(t, 0, views[1].StartRow)
	assert.NotNil(t, views[1].Students)
	assert.Empty(t, views[1].Students)
}

func TestAssembleSessionsEmpty(t *testing.T) {
	views := AssembleSessions(nil)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestScheduleServiceWeekNormalizesToSaturday(t *testing.T) {
	repo := &stubSessionGridRepo{rows: gridRows()}
	svc := NewScheduleService(repo, nil, nil, nil)

	views, err := svc.Week(context.Background(), &models.JWTClaims{ActiveRole: models.RoleAdmin}, dto.SessionWeekQuery{SemesterID: "SEM1", TeacherName: "Ms. Huda", WeekStart: "2024-03-13"})
	require.NoError(t, err)

	assert.Len(t, views, 2)
	assert.Equal(t, "2024-03-09", repo.query.WeekStart.String())
	assert.Equal(t, "Ms. Huda", repo.query.TeacherName)
}

func TestScheduleServiceWeekTeacherScope(t *testing.T) {
	repo := &stubSessionGridRepo{}
	svc := NewScheduleService(repo, nil, nil, nil)
	teacher := &models.JWTClaims{Name: "Ms. Huda", ActiveRole: models.RoleTeacher}

	_, err := svc.Week(context.Background(), teacher, dto.SessionWeekQuery{SemesterID: "SEM1", TeacherName: "Mr. Karim", WeekStart: "2024-03-09"})
	requireStatus(t, err, http.StatusForbidden)

	_, err = svc.Week(context.Background(), teacher, dto.SessionWeekQuery{SemesterID: "SEM1", TeacherName: "ms. huda", WeekStart: "2024-03-09"})
	assert.NoError(t, err)
}

func TestScheduleServiceWeekErrors(t *testing.T) {
	repo := &stubSessionGridRepo{err: errors.New("boom")}
	svc := NewScheduleService(repo, nil, nil, nil)
	admin := &models.JWTClaims{ActiveRole: models.RoleAdmin}

	_, err := svc.Week(context.Background(), admin, dto.SessionWeekQuery{SemesterID: "SEM1", TeacherName: "Ms. Huda", WeekStart: "03/09/2024"})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.Week(context.Background(), admin, dto.SessionWeekQuery{TeacherName: "Ms. Huda", WeekStart: "2024-03-09"})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.Week(context.Background(), admin, dto.SessionWeekQuery{SemesterID: "SEM1", TeacherName: "Ms. Huda", WeekStart: "2024-03-09"})
	requireStatus(t, err, http.StatusInternalServerError)
}

func TestScheduleServiceExport(t *testing.T) {
	svc := NewScheduleService(&stubSessionGridRepo{rows: gridRows()}, nil, nil, nil)
	admin := &models.JWTClaims{ActiveRole: models.RoleAdmin}
	q := dto.SessionWeekQuery{SemesterID: "SEM1", TeacherName: "Ms. Huda", WeekStart: "2024-03-09", Format: "csv"}

	data, contentType, filename, err := svc.Export(context.Background(), admin, q)
	require.NoError(t, err)
	assert.Equal(t, ContentTypeCSV, contentType)
	assert.Equal(t, "sessions-ms-huda-20240309.csv", filename)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Saturday,1:00 PM - 2:00 PM,,practical,Sara,,yes", lines[2])
	assert.Equal(t, "Sunday,9:00 AM,,theory,,,", lines[3])

	q.Format = ""
	data, contentType, filename, err = svc.Export(context.Background(), admin, q)
	require.NoError(t, err)
	assert.Equal(t, ContentTypePDF, contentType)
	assert.True(t, strings.HasSuffix(filename, ".pdf"))
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestBuildMasterSchedule(t *testing.T) {
	rows := []models.RosterRow{
		{Session: models.Session{ID: "SES1", TeacherName: "Ms. Huda", DayOfWeek: "Saturday", TimeSlot: "1:00 PM"}, StudentID: strPtr("STU001"), StudentName: strPtr("Ahmed")},
		{Session: models.Session{ID: "SES1", TeacherName: "Ms. Huda", DayOfWeek: "Saturday", TimeSlot: "1:00 PM"}, StudentID: strPtr("STU002"), StudentName: strPtr("Sara")},
		{Session: models.Session{ID: "SES2", TeacherName: "Ms. Huda", DayOfWeek: "Saturday", TimeSlot: "3:00 PM"}},
		{Session: models.Session{ID: "SES3", TeacherName: "Mr. Karim", DayOfWeek: "Monday", TimeSlot: "10:00 AM"}, StudentID: strPtr("STU003"), StudentName: strPtr("Omar")},
	}

	tree := BuildMasterSchedule(rows)

	require.Len(t, tree, 2)
	saturday := tree["Ms. Huda"]["Saturday"]
	require.Len(t, saturday, 2)
	assert.Len(t, saturday[0].Students, 2)
	assert.Equal(t, 6, saturday[1].StartRow)
	assert.NotNil(t, saturday[1].Students)
	assert.Equal(t, "Omar", tree["Mr. Karim"]["Monday"][0].Students[0].Name)
}
