package service

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin-api/internal/dto"
	"github.com/noah-isme/academy-admin-api/internal/models"
	"github.com/noah-isme/academy-admin-api/internal/repository"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
	"github.com/noah-isme/academy-admin-api/pkg/export"
	"github.com/noah-isme/academy-admin-api/pkg/jobs"
)

type installmentRepository interface {
	ReplacePlan(ctx context.Context, assignment repository.PlanAssignment) error
	MigrateDueDay(ctx context.Context, migration models.DueDayMigration) (int, error)
	FindByID(ctx context.Context, id string) (*models.Installment, error)
	ListAll(ctx context.Context) ([]models.Installment, error)
	MarkPaid(ctx context.Context, record models.PaymentRecord) (bool, error)
	SetGracePeriod(ctx context.Context, id string, until models.Date) error
}

type paymentStudentReader interface {
	List(ctx context.Context) ([]models.StudentListRow, error)
}

type invoiceEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// JobTypeInvoice identifies invoice rendering jobs.
const JobTypeInvoice = "invoice.render"

// Export content types.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv"
	ContentTypePDF  = "application/pdf"
)

// PaymentService manages payment plans, installments and their reporting.
type PaymentService struct {
	repo      installmentRepository
	students  paymentStudentReader
	queue     invoiceEnqueuer
	cache     *CacheService
	metrics   *MetricsService
	clock     Clock
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentService constructs PaymentService. queue may be nil, in which case
// invoices are rendered on first download only.
func NewPaymentService(repo installmentRepository, students paymentStudentReader, queue invoiceEnqueuer, cache *CacheService, metrics *MetricsService, clock Clock, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		repo:      repo,
		students:  students,
		queue:     queue,
		cache:     cache,
		metrics:   metrics,
		clock:     clock,
		validator: validate,
		logger:    logger,
	}
}

// AssignPlan stores the plan and replaces every installment of the student
// with a freshly generated schedule.
func (s *PaymentService) AssignPlan(ctx context.Context, req dto.AssignPlanRequest) ([]models.Installment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment plan payload")
	}

	installments, err := GenerateInstallments(req.StudentID, req.Plan, req.StartDate)
	if err != nil {
		return nil, err
	}

	err = s.repo.ReplacePlan(ctx, repository.PlanAssignment{
		StudentID:    req.StudentID,
		Plan:         req.Plan,
		StartDate:    req.StartDate,
		Installments: installments,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign payment plan")
	}

	s.logger.Info("payment plan assigned",
		zap.String("student_id", req.StudentID),
		zap.String("plan", string(req.Plan)),
		zap.Int("installments", len(installments)))
	s.cache.Evict(ctx, CacheKeyStudents)
	return installments, nil
}

// ChangeDueDates moves unpaid installments due today or later to the preferred day.
func (s *PaymentService) ChangeDueDates(ctx context.Context, req dto.ChangeDueDatesRequest) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid due date payload")
	}

	oldDay := 1
	if req.CurrentPreferredDay != nil {
		oldDay = *req.CurrentPreferredDay
	}

	moved, err := s.repo.MigrateDueDay(ctx, models.DueDayMigration{
		StudentID: req.StudentID,
		NewDay:    req.PreferredDay,
		OldDay:    oldDay,
		Today:     s.clock.Today(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to change due dates")
	}

	s.logger.Info("due dates migrated",
		zap.String("student_id", req.StudentID),
		zap.Int("old_day", oldDay),
		zap.Int("new_day", req.PreferredDay),
		zap.Int("moved", moved))
	s.cache.Evict(ctx, CacheKeyStudents)
	return moved, nil
}

// NewInvoiceNumber formats INV-YYYYMMDD-<8 hex>.
func NewInvoiceNumber(day models.Date) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate invoice suffix: %w", err)
	}
	return fmt.Sprintf("INV-%s-%s", day.Format("20060102"), hex.EncodeToString(id[:4])), nil
}

// MarkPaid settles an unpaid installment and schedules its invoice.
func (s *PaymentService) MarkPaid(ctx context.Context, req dto.MarkPaidRequest) (*models.Installment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	inst, err := s.repo.FindByID(ctx, req.InstallmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "installment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load installment")
	}
	if inst.Status == models.InstallmentPaid {
		return nil, appErrors.Clone(appErrors.ErrConflict, "installment already paid")
	}

	today := s.clock.Today()
	number, err := NewInvoiceNumber(today)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue invoice number")
	}

	record := models.PaymentRecord{
		InstallmentID: inst.ID,
		Method:        req.PaymentMethod,
		PaymentDate:   today,
		InvoiceNumber: number,
	}
	updated, err := s.repo.MarkPaid(ctx, record)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark installment as paid")
	}
	if !updated {
		return nil, appErrors.Clone(appErrors.ErrConflict, "installment already paid")
	}

	inst.Status = models.InstallmentPaid
	inst.PaymentDate = &record.PaymentDate
	inst.PaymentMethod = &record.Method
	inst.InvoiceNumber = &record.InvoiceNumber

	s.metrics.RecordPayment(req.PaymentMethod)
	s.cache.Evict(ctx, CacheKeyStudents)
	s.enqueueInvoice(inst.ID, number)
	return inst, nil
}

func (s *PaymentService) enqueueInvoice(installmentID, number string) {
	if s.queue == nil {
		return
	}
	job := jobs.Job{ID: number, Type: JobTypeInvoice, Payload: installmentID}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue invoice rendering",
			zap.String("installment_id", installmentID),
			zap.String("invoice_number", number),
			zap.Error(err))
	}
}

// SetGracePeriod extends the effective due date of an installment.
func (s *PaymentService) SetGracePeriod(ctx context.Context, req dto.GracePeriodRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grace period payload")
	}
	if req.GracePeriodDate.IsZero() {
		return appErrors.Clone(appErrors.ErrValidation, "gracePeriodDate is required")
	}

	inst, err := s.repo.FindByID(ctx, req.InstallmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "installment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load installment")
	}
	if req.GracePeriodDate.Before(inst.DueDate) {
		return appErrors.Clone(appErrors.ErrValidation, "grace period must not end before the due date")
	}

	if err := s.repo.SetGracePeriod(ctx, inst.ID, req.GracePeriodDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "installment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set grace period")
	}
	s.cache.Evict(ctx, CacheKeyStudents)
	return nil
}

// ListStudents returns every student with installments, category and totals.
func (s *PaymentService) ListStudents(ctx context.Context) ([]models.PaymentStudent, error) {
	rows, err := s.students.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list installments")
	}

	today := s.clock.Today()
	byStudent := make(map[string][]models.Installment, len(rows))
	for _, inst := range all {
		inst.Status = inst.StatusOn(today)
		byStudent[inst.StudentID] = append(byStudent[inst.StudentID], inst)
	}

	result := make([]models.PaymentStudent, 0, len(rows))
	for _, row := range rows {
		installments := byStudent[row.ID]
		if installments == nil {
			installments = []models.Installment{}
		}
		enrolled := ParseEnrolledSessions(row.EnrolledSessions)
		result = append(result, models.PaymentStudent{
			Student:      row.Student,
			EnrolledIn:   enrolled,
			Installments: installments,
			Category:     Categorize(row.PaymentPlan, len(enrolled) > 0, installments),
			Summary:      Summarize(installments),
		})
	}
	return result, nil
}

// Categorize places a student on the payments dashboard. Installments must
// carry their derived status.
func Categorize(plan models.PaymentPlan, active bool, installments []models.Installment) models.PaymentCategory {
	if !active {
		if len(installments) > 0 {
			return models.CategoryCancelled
		}
		return models.CategoryInactive
	}
	if plan == "" || plan == models.PlanNone || len(installments) == 0 {
		return models.CategoryPlanNotSet
	}
	for _, inst := range installments {
		if inst.Status == models.InstallmentOverdue {
			return models.CategoryOverdue
		}
	}
	return models.CategoryUpToDate
}

// Summarize totals paid and outstanding amounts. The next due date is the
// earliest effective due date among the unpaid installments.
func Summarize(installments []models.Installment) models.PaymentSummary {
	summary := models.PaymentSummary{Paid: decimal.Zero, Due: decimal.Zero}
	for _, inst := range installments {
		if inst.Status == models.InstallmentPaid {
			summary.Paid = summary.Paid.Add(inst.Amount)
			continue
		}
		summary.Due = summary.Due.Add(inst.Amount)
		due := inst.EffectiveDueDate()
		if summary.NextDueDate == nil || due.Before(*summary.NextDueDate) {
			summary.NextDueDate = &due
		}
	}
	return summary
}

var installmentExportHeaders = []string{"Student ID", "Student", "Installment", "Due Date", "Amount", "Status", "Grace Until", "Payment Date", "Method", "Invoice"}

// Export renders every installment as xlsx (default) or csv.
func (s *PaymentService) Export(ctx context.Context, q dto.ExportQuery) ([]byte, string, string, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export format")
	}

	students, err := s.ListStudents(ctx)
	if err != nil {
		return nil, "", "", err
	}

	dataset := export.Dataset{Headers: installmentExportHeaders}
	for _, st := range students {
		items := append([]models.Installment(nil), st.Installments...)
		sort.SliceStable(items, func(i, j int) bool { return items[i].DueDate.Before(items[j].DueDate) })
		for _, inst := range items {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"Student ID":   st.ID,
				"Student":      st.Name,
				"Installment":  inst.ID,
				"Due Date":     inst.DueDate.String(),
				"Amount":       inst.Amount.StringFixed(2),
				"Status":       string(inst.Status),
				"Grace Until":  dateString(inst.GracePeriodUntil),
				"Payment Date": dateString(inst.PaymentDate),
				"Method":       methodString(inst.PaymentMethod),
				"Invoice":      derefString(inst.InvoiceNumber),
			})
		}
	}

	stamp := s.clock.Today().Format("20060102")
	if q.Format == "csv" {
		data, err := export.NewCSVExporter().Render(dataset)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return data, ContentTypeCSV, "installments-" + stamp + ".csv", nil
	}

	data, err := export.NewXLSXExporter("Installments").Render(dataset)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render xlsx")
	}
	return data, ContentTypeXLSX, "installments-" + stamp + ".xlsx", nil
}

func dateString(d *models.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func methodString(m *models.PaymentMethod) string {
	if m == nil {
		return ""
	}
	return string(*m)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
