package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academy-admin-api/internal/models"
)

var (
	// ErrSessionNotFound is returned when the referenced session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrStudentNotFound is returned when the referenced student does not exist.
	ErrStudentNotFound = errors.New("student not found")
	// ErrAlreadyEnrolled is returned when the session/student pair already exists.
	ErrAlreadyEnrolled = errors.New("student already enrolled in session")
)

// EnrollmentRepository handles the session_students junction table.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create enrolls a student in a session inside a transaction that first
// verifies both sides exist.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) (err error) {
	now := time.Now().UTC()
	if enrollment.ID == "" {
		enrollment.ID = models.EnrollmentID(enrollment.SessionID, enrollment.StudentID)
	}
	enrollment.CreatedAt = now
	enrollment.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin enrollment transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var found int
	if err = tx.GetContext(ctx, &found, `SELECT 1 FROM sessions WHERE id = $1 FOR SHARE`, enrollment.SessionID); err != nil {
		if err == sql.ErrNoRows {
			return ErrSessionNotFound
		}
		return fmt.Errorf("check session: %w", err)
	}
	if err = tx.GetContext(ctx, &found, `SELECT 1 FROM students WHERE id = $1 FOR SHARE`, enrollment.StudentID); err != nil {
		if err == sql.ErrNoRows {
			return ErrStudentNotFound
		}
		return fmt.Errorf("check student: %w", err)
	}

	const insert = `INSERT INTO session_students (id, session_id, student_id, pending_removal, created_at, updated_at)
VALUES (:id, :session_id, :student_id, :pending_removal, :created_at, :updated_at)
ON CONFLICT (session_id, student_id) DO NOTHING`
	res, err := tx.NamedExecContext(ctx, insert, enrollment)
	if err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}
	if affected == 0 {
		return ErrAlreadyEnrolled
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit enrollment: %w", err)
	}
	return nil
}

// Find returns the enrollment of a pair. sql.ErrNoRows is returned untouched.
func (r *EnrollmentRepository) Find(ctx context.Context, sessionID, studentID string) (*models.Enrollment, error) {
	const query = `SELECT id, session_id, student_id, pending_removal, created_at, updated_at
FROM session_students WHERE session_id = $1 AND student_id = $2`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, sessionID, studentID); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Delete removes the enrollment row. It reports whether a row was removed.
func (r *EnrollmentRepository) Delete(ctx context.Context, sessionID, studentID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM session_students WHERE session_id = $1 AND student_id = $2`, sessionID, studentID)
	if err != nil {
		return false, fmt.Errorf("delete enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete enrollment: %w", err)
	}
	return affected > 0, nil
}

// SetPendingRemoval flags or clears the enrollment. It reports whether a row matched.
func (r *EnrollmentRepository) SetPendingRemoval(ctx context.Context, sessionID, studentID string, pending bool) (bool, error) {
	const query = `UPDATE session_students SET pending_removal = $1, updated_at = $2 WHERE session_id = $3 AND student_id = $4`
	res, err := r.db.ExecContext(ctx, query, pending, time.Now().UTC(), sessionID, studentID)
	if err != nil {
		return false, fmt.Errorf("set pending removal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set pending removal: %w", err)
	}
	return affected > 0, nil
}
