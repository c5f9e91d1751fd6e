package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academy-admin-api/internal/models"
)

// AttendanceRepository stores weekly attendance marks.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Upsert writes the mark for (session, student, week), replacing status and
// note of an existing row. record.ID and record.CreatedAt are set from the
// stored row, so a repeated mark keeps its original identity.
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.Attendance) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	const query = `INSERT INTO attendance (id, session_id, student_id, week_start_date, status, note, created_at, updated_at)
VALUES (:id, :session_id, :student_id, :week_start_date, :status, :note, :created_at, :updated_at)
ON CONFLICT (session_id, student_id, week_start_date)
DO UPDATE SET status = EXCLUDED.status, note = EXCLUDED.note, updated_at = EXCLUDED.updated_at
RETURNING id, created_at`
	rows, err := r.db.NamedQueryContext(ctx, query, record)
	if err != nil {
		return fmt.Errorf("upsert attendance: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return fmt.Errorf("upsert attendance: %w", err)
		}
		return fmt.Errorf("upsert attendance: no row returned")
	}
	if err := rows.Scan(&record.ID, &record.CreatedAt); err != nil {
		return fmt.Errorf("scan attendance: %w", err)
	}
	return rows.Err()
}
