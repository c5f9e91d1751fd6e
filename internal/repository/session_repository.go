package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academy-admin-api/internal/models"
)

// dayOrder sorts day names in academy week order (Saturday first).
const dayOrder = `CASE se.day_of_week
	WHEN 'Saturday' THEN 0 WHEN 'Sunday' THEN 1 WHEN 'Monday' THEN 2 WHEN 'Tuesday' THEN 3
	WHEN 'Wednesday' THEN 4 WHEN 'Thursday' THEN 5 WHEN 'Friday' THEN 6 ELSE 7 END`

// SessionRepository reads recurring sessions and their weekly rosters.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// ListWeekGrid returns one row per session x enrolled student, with the
// student's attendance for the requested week when recorded. Sessions without
// enrollments yield a single row with null student columns.
func (r *SessionRepository) ListWeekGrid(ctx context.Context, q models.WeekQuery) ([]models.SessionGridRow, error) {
	query := `SELECT
	se.id AS session_id,
	se.day_of_week,
	se.time_slot,
	se.duration,
	se.specialization,
	se.type,
	se.note,
	st.id AS student_id,
	st.name AS student_name,
	ss.pending_removal,
	a.status AS attendance_status,
	a.note AS attendance_note
FROM sessions se
LEFT JOIN session_students ss ON ss.session_id = se.id
LEFT JOIN students st ON st.id = ss.student_id
LEFT JOIN attendance a ON a.session_id = se.id AND a.student_id = st.id AND a.week_start_date = $3
WHERE se.semester_id = $1 AND se.teacher_name = $2
ORDER BY ` + dayOrder + `, se.time_slot ASC, st.name ASC`

	var rows []models.SessionGridRow
	if err := r.db.SelectContext(ctx, &rows, query, q.SemesterID, q.TeacherName, q.WeekStart); err != nil {
		return nil, fmt.Errorf("list session grid: %w", err)
	}
	return rows, nil
}

// FindByID fetches a session. sql.ErrNoRows is returned untouched.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	const query = `SELECT id, semester_id, teacher_name, day_of_week, time_slot, duration, specialization, type, note, created_at, updated_at
FROM sessions WHERE id = $1`
	var session models.Session
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// ListRoster returns every session of the semester joined to its active students.
func (r *SessionRepository) ListRoster(ctx context.Context, semesterID string) ([]models.RosterRow, error) {
	query := `SELECT se.id, se.semester_id, se.teacher_name, se.day_of_week, se.time_slot, se.duration,
	se.specialization, se.type, se.note, se.created_at, se.updated_at,
	st.id AS student_id, st.name AS student_name
FROM sessions se
LEFT JOIN session_students ss ON ss.session_id = se.id AND ss.pending_removal = false
LEFT JOIN students st ON st.id = ss.student_id
WHERE se.semester_id = $1
ORDER BY se.teacher_name ASC, ` + dayOrder + `, se.time_slot ASC, st.name ASC`

	var rows []models.RosterRow
	if err := r.db.SelectContext(ctx, &rows, query, semesterID); err != nil {
		return nil, fmt.Errorf("list semester roster: %w", err)
	}
	return rows, nil
}
