package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academy-admin-api/internal/models"
)

// ErrStaleRequest is returned when a request changed state between read and review.
var ErrStaleRequest = errors.New("teacher request was modified concurrently")

const requestColumns = `id, type, status, request_date, teacher_id, teacher_name, student_id, student_name,
	session_id, session_time, day, reason, semester_id, created_at, updated_at`

// TeacherRequestRepository persists the teacher request workflow.
type TeacherRequestRepository struct {
	db *sqlx.DB
}

// NewTeacherRequestRepository constructs the repository.
func NewTeacherRequestRepository(db *sqlx.DB) *TeacherRequestRepository {
	return &TeacherRequestRepository{db: db}
}

// List returns requests, most recent request date first.
func (r *TeacherRequestRepository) List(ctx context.Context, filter models.RequestFilter) ([]models.TeacherRequest, error) {
	query := strings.Builder{}
	query.WriteString(`SELECT ` + requestColumns + ` FROM requests WHERE 1=1`)

	var args []interface{}
	if filter.TeacherName != "" {
		args = append(args, filter.TeacherName)
		fmt.Fprintf(&query, " AND teacher_name = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		fmt.Fprintf(&query, " AND status = $%d", len(args))
	}
	query.WriteString(" ORDER BY request_date DESC, created_at DESC")

	var items []models.TeacherRequest
	if err := r.db.SelectContext(ctx, &items, query.String(), args...); err != nil {
		return nil, fmt.Errorf("list teacher requests: %w", err)
	}
	return items, nil
}

// FindByID fetches a request. sql.ErrNoRows is returned untouched.
func (r *TeacherRequestRepository) FindByID(ctx context.Context, id string) (*models.TeacherRequest, error) {
	var item models.TeacherRequest
	if err := r.db.GetContext(ctx, &item, `SELECT `+requestColumns+` FROM requests WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create stores a new request.
func (r *TeacherRequestRepository) Create(ctx context.Context, req *models.TeacherRequest) error {
	if req.ID == "" {
		req.ID = "REQ-" + uuid.NewString()
	}
	now := time.Now().UTC()
	req.CreatedAt = now
	req.UpdatedAt = now
	const query = `INSERT INTO requests (id, type, status, request_date, teacher_id, teacher_name, student_id, student_name,
	session_id, session_time, day, reason, semester_id, created_at, updated_at)
VALUES (:id, :type, :status, :request_date, :teacher_id, :teacher_name, :student_id, :student_name,
	:session_id, :session_time, :day, :reason, :semester_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("create teacher request: %w", err)
	}
	return nil
}

// ReviewParams describes a status transition and its enrollment side effect.
type ReviewParams struct {
	RequestID string
	From      models.RequestStatus
	To        models.RequestStatus
	// FlagSessionID and FlagStudentID, when both set, mark the enrollment as pending removal.
	FlagSessionID *string
	FlagStudentID *string
}

// ApplyReview updates the status guarded by the expected current status and
// applies the enrollment flag in the same transaction. It returns the number of
// enrollment rows flagged.
func (r *TeacherRequestRepository) ApplyReview(ctx context.Context, p ReviewParams) (flagged int64, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin review transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `UPDATE requests SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`, p.To, now, p.RequestID, p.From)
	if err != nil {
		return 0, fmt.Errorf("update request status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update request status: %w", err)
	}
	if affected == 0 {
		return 0, ErrStaleRequest
	}

	if p.FlagSessionID != nil && p.FlagStudentID != nil {
		const flag = `UPDATE session_students SET pending_removal = true, updated_at = $1 WHERE session_id = $2 AND student_id = $3`
		flagRes, execErr := tx.ExecContext(ctx, flag, now, *p.FlagSessionID, *p.FlagStudentID)
		if execErr != nil {
			return 0, fmt.Errorf("flag enrollment for removal: %w", execErr)
		}
		if flagged, err = flagRes.RowsAffected(); err != nil {
			return 0, fmt.Errorf("flag enrollment for removal: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit review: %w", err)
	}
	return flagged, nil
}
