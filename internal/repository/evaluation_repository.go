package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academy-admin-api/internal/models"
)

// EvaluationRepository persists multi-criteria evaluations.
type EvaluationRepository struct {
	db *sqlx.DB
}

// NewEvaluationRepository constructs the repository.
func NewEvaluationRepository(db *sqlx.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// Create inserts an evaluation; criteria are stored as JSONB.
func (r *EvaluationRepository) Create(ctx context.Context, evaluation *models.Evaluation) error {
	if evaluation.ID == "" {
		evaluation.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	evaluation.CreatedAt = now
	evaluation.UpdatedAt = now
	const query = `INSERT INTO evaluations (id, student_id, evaluation_date, evaluator, criteria_json, notes, created_at, updated_at)
VALUES (:id, :student_id, :evaluation_date, :evaluator, :criteria_json, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, evaluation); err != nil {
		return fmt.Errorf("create evaluation: %w", err)
	}
	return nil
}

// ListByStudent returns evaluations, newest first.
func (r *EvaluationRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Evaluation, error) {
	const query = `SELECT id, student_id, evaluation_date, evaluator, criteria_json, notes, created_at, updated_at
FROM evaluations WHERE student_id = $1 ORDER BY evaluation_date DESC, created_at DESC`
	var items []models.Evaluation
	if err := r.db.SelectContext(ctx, &items, query, studentID); err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	return items, nil
}
