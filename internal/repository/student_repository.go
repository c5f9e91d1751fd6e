package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academy-admin-api/internal/models"
)

const studentColumns = `s.id, s.id_prefix, s.name, s.gender, s.username, s.dob, s.nationality, s.instrument_interest,
	s.enrollment_date, s.level, s.payment_plan, s.subscription_start_date, s.preferred_pay_day, s.avatar,
	s.created_at, s.updated_at`

// StudentRepository manages persistence for student records and their audit trails.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns every student with active enrollments packed as
// "sessionId:semesterId:teacher" triples separated by '|'.
func (r *StudentRepository) List(ctx context.Context) ([]models.StudentListRow, error) {
	query := `SELECT ` + studentColumns + `,
	string_agg(ss.session_id || ':' || ses.semester_id || ':' || ses.teacher_name, '|' ORDER BY ss.session_id) AS enrolled_sessions
FROM students s
LEFT JOIN session_students ss ON ss.student_id = s.id AND ss.pending_removal = false
LEFT JOIN sessions ses ON ses.id = ss.session_id
GROUP BY s.id
ORDER BY s.created_at DESC, s.id ASC`

	var rows []models.StudentListRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return rows, nil
}

// FindByID fetches the base student row. sql.ErrNoRows is returned untouched.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students s WHERE s.id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// Exists reports whether a student with the id is stored.
func (r *StudentRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, `SELECT 1 FROM students WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student: %w", err)
	}
	return true, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	if student.PaymentPlan == "" {
		student.PaymentPlan = models.PlanNone
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, id_prefix, name, gender, username, dob, nationality, instrument_interest,
	enrollment_date, level, payment_plan, subscription_start_date, preferred_pay_day, avatar, created_at, updated_at)
VALUES (:id, :id_prefix, :name, :gender, :username, :dob, :nationality, :instrument_interest,
	:enrollment_date, :level, :payment_plan, :subscription_start_date, :preferred_pay_day, :avatar, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// UpdateLevel changes the student's level and appends the level history row atomically.
func (r *StudentRepository) UpdateLevel(ctx context.Context, change *models.LevelChange) (err error) {
	if change.ID == "" {
		change.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	change.CreatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin level transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `UPDATE students SET level = $1, updated_at = $2 WHERE id = $3`, change.NewLevel, now, change.StudentID)
	if err != nil {
		return fmt.Errorf("update student level: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update student level: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	const insert = `INSERT INTO level_history (id, student_id, previous_level, new_level, change_date, review_comments, created_at)
VALUES (:id, :student_id, :previous_level, :new_level, :change_date, :review_comments, :created_at)`
	if _, err = tx.NamedExecContext(ctx, insert, change); err != nil {
		return fmt.Errorf("insert level history: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit level change: %w", err)
	}
	return nil
}

// ListLevelHistory returns level changes, newest first.
func (r *StudentRepository) ListLevelHistory(ctx context.Context, studentID string) ([]models.LevelChange, error) {
	const query = `SELECT id, student_id, previous_level, new_level, change_date, review_comments, created_at
FROM level_history WHERE student_id = $1 ORDER BY change_date DESC, created_at DESC`
	var items []models.LevelChange
	if err := r.db.SelectContext(ctx, &items, query, studentID); err != nil {
		return nil, fmt.Errorf("list level history: %w", err)
	}
	return items, nil
}

// ListDueDateChanges returns pay-day migrations, newest first.
func (r *StudentRepository) ListDueDateChanges(ctx context.Context, studentID string) ([]models.DueDateChange, error) {
	const query = `SELECT id, student_id, change_date, old_day, new_day, created_at
FROM due_date_changes WHERE student_id = $1 ORDER BY change_date DESC, created_at DESC`
	var items []models.DueDateChange
	if err := r.db.SelectContext(ctx, &items, query, studentID); err != nil {
		return nil, fmt.Errorf("list due date changes: %w", err)
	}
	return items, nil
}

// ListActiveEnrollments returns the sessions the student attends without a pending removal.
func (r *StudentRepository) ListActiveEnrollments(ctx context.Context, studentID string) ([]models.EnrolledSession, error) {
	const query = `SELECT ss.session_id, ses.semester_id, ses.teacher_name
FROM session_students ss
JOIN sessions ses ON ses.id = ss.session_id
WHERE ss.student_id = $1 AND ss.pending_removal = false`
	var items []models.EnrolledSession
	if err := r.db.SelectContext(ctx, &items, query, studentID); err != nil {
		return nil, fmt.Errorf("list active enrollments: %w", err)
	}
	return items, nil
}
