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

const installmentColumns = `id, student_id, due_date, amount, status, payment_date, grace_period_until, invoice_number, payment_method, created_at, updated_at`

// InstallmentRepository persists payment schedules. Writes that touch a
// student's whole schedule lock the student row first so concurrent plan and
// pay-day changes for the same student serialize.
type InstallmentRepository struct {
	db *sqlx.DB
}

// NewInstallmentRepository constructs the repository.
func NewInstallmentRepository(db *sqlx.DB) *InstallmentRepository {
	return &InstallmentRepository{db: db}
}

// PlanAssignment carries a regenerated schedule.
type PlanAssignment struct {
	StudentID    string
	Plan         models.PaymentPlan
	StartDate    models.Date
	Installments []models.Installment
}

func lockStudent(ctx context.Context, tx *sqlx.Tx, studentID string) error {
	var id string
	if err := tx.GetContext(ctx, &id, `SELECT id FROM students WHERE id = $1 FOR UPDATE`, studentID); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("lock student: %w", err)
	}
	return nil
}

// ReplacePlan stores the plan selection and swaps the student's installments
// for the given set in one transaction.
func (r *InstallmentRepository) ReplacePlan(ctx context.Context, assignment PlanAssignment) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin plan transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = lockStudent(ctx, tx, assignment.StudentID); err != nil {
		return err
	}

	now := time.Now().UTC()
	const updateStudent = `UPDATE students SET payment_plan = $1, subscription_start_date = $2, updated_at = $3 WHERE id = $4`
	if _, err = tx.ExecContext(ctx, updateStudent, assignment.Plan, assignment.StartDate, now, assignment.StudentID); err != nil {
		return fmt.Errorf("update payment plan: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM installments WHERE student_id = $1`, assignment.StudentID); err != nil {
		return fmt.Errorf("delete installments: %w", err)
	}

	const insert = `INSERT INTO installments (id, student_id, due_date, amount, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)`
	for _, inst := range assignment.Installments {
		if _, err = tx.ExecContext(ctx, insert, inst.ID, assignment.StudentID, inst.DueDate, inst.Amount, inst.Status, now); err != nil {
			return fmt.Errorf("insert installment %s: %w", inst.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit payment plan: %w", err)
	}
	return nil
}

type dueRow struct {
	ID      string      `db:"id"`
	DueDate models.Date `db:"due_date"`
}

// MigrateDueDay moves unpaid installments due today or later to the new day of
// their month, records the preferred day and appends the audit row.
// It returns the number of installments moved.
func (r *InstallmentRepository) MigrateDueDay(ctx context.Context, m models.DueDayMigration) (moved int, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin due day transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = lockStudent(ctx, tx, m.StudentID); err != nil {
		return 0, err
	}

	const selectDue = `SELECT id, due_date FROM installments
WHERE student_id = $1 AND status = 'unpaid' AND due_date >= $2
ORDER BY due_date ASC FOR UPDATE`
	var rows []dueRow
	if err = tx.SelectContext(ctx, &rows, selectDue, m.StudentID, m.Today); err != nil {
		return 0, fmt.Errorf("select future installments: %w", err)
	}

	now := time.Now().UTC()
	const updateDue = `UPDATE installments SET due_date = $1, updated_at = $2 WHERE id = $3`
	for _, row := range rows {
		if _, err = tx.ExecContext(ctx, updateDue, row.DueDate.WithDay(m.NewDay), now, row.ID); err != nil {
			return 0, fmt.Errorf("move installment %s: %w", row.ID, err)
		}
	}

	if _, err = tx.ExecContext(ctx, `UPDATE students SET preferred_pay_day = $1, updated_at = $2 WHERE id = $3`, m.NewDay, now, m.StudentID); err != nil {
		return 0, fmt.Errorf("update preferred pay day: %w", err)
	}

	changeID := m.ChangeID
	if changeID == "" {
		changeID = uuid.NewString()
	}
	const insertChange = `INSERT INTO due_date_changes (id, student_id, change_date, old_day, new_day, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err = tx.ExecContext(ctx, insertChange, changeID, m.StudentID, m.Today, m.OldDay, m.NewDay, now); err != nil {
		return 0, fmt.Errorf("insert due date change: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit due day change: %w", err)
	}
	return len(rows), nil
}

// FindByID fetches an installment. sql.ErrNoRows is returned untouched.
func (r *InstallmentRepository) FindByID(ctx context.Context, id string) (*models.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE id = $1`
	var inst models.Installment
	if err := r.db.GetContext(ctx, &inst, query, id); err != nil {
		return nil, err
	}
	return &inst, nil
}

// ListByStudent returns a student's installments, latest due date first.
func (r *InstallmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE student_id = $1 ORDER BY due_date DESC`
	var items []models.Installment
	if err := r.db.SelectContext(ctx, &items, query, studentID); err != nil {
		return nil, fmt.Errorf("list installments: %w", err)
	}
	return items, nil
}

// ListAll returns every installment grouped by student, earliest due date first.
func (r *InstallmentRepository) ListAll(ctx context.Context) ([]models.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments ORDER BY student_id ASC, due_date ASC`
	var items []models.Installment
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list all installments: %w", err)
	}
	return items, nil
}

// MarkPaid settles an unpaid installment. It reports false when the row was
// already paid or does not exist.
func (r *InstallmentRepository) MarkPaid(ctx context.Context, record models.PaymentRecord) (bool, error) {
	const query = `UPDATE installments
SET status = 'paid', payment_date = $1, payment_method = $2, invoice_number = $3, updated_at = $4
WHERE id = $5 AND status <> 'paid'`
	res, err := r.db.ExecContext(ctx, query, record.PaymentDate, record.Method, record.InvoiceNumber, time.Now().UTC(), record.InstallmentID)
	if err != nil {
		return false, fmt.Errorf("mark installment paid: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark installment paid: %w", err)
	}
	return affected > 0, nil
}

// SetGracePeriod stores the extended effective due date.
func (r *InstallmentRepository) SetGracePeriod(ctx context.Context, id string, until models.Date) error {
	const query = `UPDATE installments SET grace_period_until = $1, updated_at = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, until, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("set grace period: %w", err)
	}
	return nil
}
