package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academy-admin-api/internal/models"
)

// SeedRepository loads reference data into tables that are still empty.
type SeedRepository struct {
	db *sqlx.DB
}

// NewSeedRepository constructs the repository.
func NewSeedRepository(db *sqlx.DB) *SeedRepository {
	return &SeedRepository{db: db}
}

// Ping verifies the connection is usable.
func (r *SeedRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type seedStep struct {
	table string
	query string
	rows  func() []interface{}
}

// Seed inserts each fixture collection whose table is empty, in one transaction.
// It returns the names of the tables that were seeded.
func (r *SeedRepository) Seed(ctx context.Context, fixture models.SeedFixture) (seeded []string, err error) {
	now := time.Now().UTC()
	steps := []seedStep{
		{
			table: "users",
			query: `INSERT INTO users (id, username, name, password_hash, roles, created_at, updated_at)
VALUES (:id, :username, :name, :password_hash, :roles, :created_at, :updated_at)`,
			rows: func() []interface{} {
				out := make([]interface{}, 0, len(fixture.Users))
				for i := range fixture.Users {
					fixture.Users[i].CreatedAt, fixture.Users[i].UpdatedAt = now, now
					out = append(out, &fixture.Users[i])
				}
				return out
			},
		},
		{
			table: "semesters",
			query: `INSERT INTO semesters (id, name, start_date, end_date, teachers_json, is_active, created_at, updated_at)
VALUES (:id, :name, :start_date, :end_date, :teachers_json, :is_active, :created_at, :updated_at)`,
			rows: func() []interface{} {
				out := make([]interface{}, 0, len(fixture.Semesters))
				for i := range fixture.Semesters {
					fixture.Semesters[i].CreatedAt, fixture.Semesters[i].UpdatedAt = now, now
					out = append(out, &fixture.Semesters[i])
				}
				return out
			},
		},
		{
			table: "sessions",
			query: `INSERT INTO sessions (id, semester_id, teacher_name, day_of_week, time_slot, duration, specialization, type, note, created_at, updated_at)
VALUES (:id, :semester_id, :teacher_name, :day_of_week, :time_slot, :duration, :specialization, :type, :note, :created_at, :updated_at)`,
			rows: func() []interface{} {
				out := make([]interface{}, 0, len(fixture.Sessions))
				for i := range fixture.Sessions {
					fixture.Sessions[i].CreatedAt, fixture.Sessions[i].UpdatedAt = now, now
					out = append(out, &fixture.Sessions[i])
				}
				return out
			},
		},
		{
			table: "students",
			query: `INSERT INTO students (id, id_prefix, name, gender, username, dob, nationality, instrument_interest,
	enrollment_date, level, payment_plan, subscription_start_date, preferred_pay_day, avatar, created_at, updated_at)
VALUES (:id, :id_prefix, :name, :gender, :username, :dob, :nationality, :instrument_interest,
	:enrollment_date, :level, :payment_plan, :subscription_start_date, :preferred_pay_day, :avatar, :created_at, :updated_at)`,
			rows: func() []interface{} {
				out := make([]interface{}, 0, len(fixture.Students))
				for i := range fixture.Students {
					fixture.Students[i].CreatedAt, fixture.Students[i].UpdatedAt = now, now
					if fixture.Students[i].PaymentPlan == "" {
						fixture.Students[i].PaymentPlan = models.PlanNone
					}
					out = append(out, &fixture.Students[i])
				}
				return out
			},
		},
		{
			table: "session_students",
			query: `INSERT INTO session_students (id, session_id, student_id, pending_removal, created_at, updated_at)
VALUES (:id, :session_id, :student_id, :pending_removal, :created_at, :updated_at)
ON CONFLICT (session_id, student_id) DO NOTHING`,
			rows: func() []interface{} {
				out := make([]interface{}, 0, len(fixture.Enrollments))
				for i := range fixture.Enrollments {
					e := &fixture.Enrollments[i]
					e.CreatedAt, e.UpdatedAt = now, now
					if e.ID == "" {
						e.ID = models.EnrollmentID(e.SessionID, e.StudentID)
					}
					out = append(out, e)
				}
				return out
			},
		},
		{
			table: "requests",
			query: `INSERT INTO requests (id, type, status, request_date, teacher_id, teacher_name, student_id, student_name,
	session_id, session_time, day, reason, semester_id, created_at, updated_at)
VALUES (:id, :type, :status, :request_date, :teacher_id, :teacher_name, :student_id, :student_name,
	:session_id, :session_time, :day, :reason, :semester_id, :created_at, :updated_at)`,
			rows: func() []interface{} {
				out := make([]interface{}, 0, len(fixture.Requests))
				for i := range fixture.Requests {
					fixture.Requests[i].CreatedAt, fixture.Requests[i].UpdatedAt = now, now
					out = append(out, &fixture.Requests[i])
				}
				return out
			},
		},
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, step := range steps {
		var count int
		// Table names come from the fixed list above.
		if err = tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM `+step.table); err != nil {
			return nil, fmt.Errorf("count %s: %w", step.table, err)
		}
		if count > 0 {
			continue
		}
		rows := step.rows()
		for _, row := range rows {
			if _, err = tx.NamedExecContext(ctx, step.query, row); err != nil {
				return nil, fmt.Errorf("seed %s: %w", step.table, err)
			}
		}
		if len(rows) > 0 {
			seeded = append(seeded, step.table)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit seed: %w", err)
	}
	return seeded, nil
}
