package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academy-admin-api/internal/models"
)

// SemesterRepository reads teaching periods.
type SemesterRepository struct {
	db *sqlx.DB
}

// NewSemesterRepository constructs the repository.
func NewSemesterRepository(db *sqlx.DB) *SemesterRepository {
	return &SemesterRepository{db: db}
}

// List returns semesters with active ones first, then newest start date.
func (r *SemesterRepository) List(ctx context.Context) ([]models.Semester, error) {
	const query = `SELECT id, name, start_date, end_date, teachers_json, is_active, created_at, updated_at
FROM semesters ORDER BY is_active DESC, start_date DESC`
	var items []models.Semester
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}
	return items, nil
}

// FindByID fetches one semester. sql.ErrNoRows is returned untouched.
func (r *SemesterRepository) FindByID(ctx context.Context, id string) (*models.Semester, error) {
	const query = `SELECT id, name, start_date, end_date, teachers_json, is_active, created_at, updated_at
FROM semesters WHERE id = $1`
	var item models.Semester
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}
