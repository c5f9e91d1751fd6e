package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-admin-api/internal/models"
)

type stubSemesterRepo struct {
	items []models.Semester
	calls int
}

func (s *stubSemesterRepo) List(ctx context.Context) ([]models.Semester, error) {
	s.calls++
	return s.items, nil
}

func (s *stubSemesterRepo) FindByID(ctx context.Context, id string) (*models.Semester, error) {
	for _, item := range s.items {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, sql.ErrNoRows
}

type stubRosterReader struct {
	rows []models.RosterRow
}

func (s *stubRosterReader) ListRoster(ctx context.Context, semesterID string) ([]models.RosterRow, error) {
	return s.rows, nil
}

func TestSemesterServiceListUsesCache(t *testing.T) {
	repo := &stubSemesterRepo{items: []models.Semester{{ID: "SEM1", Name: "Spring 2024", IsActive: true}}}
	cache := NewCacheService(newMemoryCache(), nil, 0, nil, true)
	svc := NewSemesterService(repo, &stubRosterReader{}, cache, nil)

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	second, err := svc.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.NotNil(t, second[0].Teachers)
}

func TestSemesterServiceSchedule(t *testing.T) {
	repo := &stubSemesterRepo{items: []models.Semester{{ID: "SEM1", Name: "Spring 2024", Teachers: models.TeacherList{"Ms. Huda"}}}}
	roster := &stubRosterReader{rows: []models.RosterRow{
		{Session: models.Session{ID: "SES1", TeacherName: "Ms. Huda", DayOfWeek: "Saturday", TimeSlot: "2:00 PM"}, StudentID: strPtr("STU001"), StudentName: strPtr("Ahmed")},
	}}
	svc := NewSemesterService(repo, roster, nil, nil)

	schedule, err := svc.Schedule(context.Background(), "SEM1")
	require.NoError(t, err)

	assert.Equal(t, "Spring 2024", schedule.Name)
	sessions := schedule.MasterSchedule["Ms. Huda"]["Saturday"]
	require.Len(t, sessions, 1)
	assert.Equal(t, 5, sessions[0].StartRow)
	assert.Equal(t, "Ahmed", sessions[0].Students[0].Name)

	_, err = svc.Schedule(context.Background(), "SEM9")
	requireStatus(t, err, http.StatusNotFound)
}
