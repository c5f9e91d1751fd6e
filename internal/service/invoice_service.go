package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin-api/internal/models"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
	"github.com/noah-isme/academy-admin-api/pkg/export"
	"github.com/noah-isme/academy-admin-api/pkg/jobs"
)

type invoiceInstallmentReader interface {
	FindByID(ctx context.Context, id string) (*models.Installment, error)
}

type invoiceStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type invoiceStore interface {
	Save(name string, data []byte) (string, error)
	Read(name string) ([]byte, error)
	Exists(name string) bool
}

type urlSigner interface {
	Generate(ref, relPath string) (string, time.Time, error)
	Parse(token string) (ref, relPath string, err error)
}

// InvoiceCurrency is printed next to every amount.
const InvoiceCurrency = "SAR"

// InvoiceService renders payment receipts and hands out signed download links.
type InvoiceService struct {
	installments invoiceInstallmentReader
	students     invoiceStudentReader
	store        invoiceStore
	signer       urlSigner
	metrics      *MetricsService
	downloadPath string
	clock        Clock
	logger       *zap.Logger
}

// NewInvoiceService constructs InvoiceService. downloadPath is the public
// route serving PDFs, without the token query.
func NewInvoiceService(installments invoiceInstallmentReader, students invoiceStudentReader, store invoiceStore, signer urlSigner, metrics *MetricsService, downloadPath string, clock Clock, logger *zap.Logger) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		installments: installments,
		students:     students,
		store:        store,
		signer:       signer,
		metrics:      metrics,
		downloadPath: downloadPath,
		clock:        clock,
		logger:       logger,
	}
}

// InvoicePath is the storage location of an installment's receipt.
func InvoicePath(inst *models.Installment) string {
	day := inst.DueDate
	if inst.PaymentDate != nil && !inst.PaymentDate.IsZero() {
		day = *inst.PaymentDate
	}
	return fmt.Sprintf("%s/%s.pdf", day.Format("2006/01"), derefString(inst.InvoiceNumber))
}

func (s *InvoiceService) loadPaid(ctx context.Context, installmentID string) (*models.Installment, error) {
	inst, err := s.installments.FindByID(ctx, installmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "installment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load installment")
	}
	if inst.Status != models.InstallmentPaid || inst.InvoiceNumber == nil || *inst.InvoiceNumber == "" {
		return nil, appErrors.Clone(appErrors.ErrConflict, "installment has no invoice")
	}
	return inst, nil
}

// Render produces the receipt PDF and stores it, returning its path.
func (s *InvoiceService) Render(ctx context.Context, installmentID string) (string, []byte, error) {
	inst, err := s.loadPaid(ctx, installmentID)
	if err != nil {
		return "", nil, err
	}

	studentName := inst.StudentID
	if student, err := s.students.FindByID(ctx, inst.StudentID); err == nil {
		studentName = student.Name
	} else if !errors.Is(err, sql.ErrNoRows) {
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	data, err := export.RenderInvoice(export.Invoice{
		Number:        *inst.InvoiceNumber,
		IssuedOn:      s.clock.Today().String(),
		StudentID:     inst.StudentID,
		StudentName:   studentName,
		InstallmentID: inst.ID,
		DueDate:       inst.DueDate.String(),
		PaymentDate:   dateString(inst.PaymentDate),
		PaymentMethod: methodString(inst.PaymentMethod),
		Amount:        inst.Amount.StringFixed(2),
		Currency:      InvoiceCurrency,
	})
	if err != nil {
		s.metrics.RecordInvoiceRender(false)
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render invoice")
	}

	relPath := InvoicePath(inst)
	if _, err := s.store.Save(relPath, data); err != nil {
		s.metrics.RecordInvoiceRender(false)
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store invoice")
	}
	s.metrics.RecordInvoiceRender(true)
	return relPath, data, nil
}

// HandleJob renders the invoice referenced by a queued job.
func (s *InvoiceService) HandleJob(ctx context.Context, job jobs.Job) error {
	installmentID, ok := job.Payload.(string)
	if !ok || installmentID == "" {
		s.logger.Error("invoice job without installment id", zap.String("job_id", job.ID))
		return nil
	}
	relPath, _, err := s.Render(ctx, installmentID)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && appErr.Status < 500 {
			s.logger.Warn("invoice job skipped", zap.String("installment_id", installmentID), zap.Error(err))
			return nil
		}
		return err
	}
	s.logger.Info("invoice rendered", zap.String("installment_id", installmentID), zap.String("path", relPath))
	return nil
}

// Link returns a signed, expiring download URL for the installment's invoice.
func (s *InvoiceService) Link(ctx context.Context, installmentID string) (*models.InvoiceLink, error) {
	inst, err := s.loadPaid(ctx, installmentID)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Generate(inst.ID, InvoicePath(inst))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign invoice link")
	}
	return &models.InvoiceLink{
		InvoiceNumber: *inst.InvoiceNumber,
		URL:           s.downloadPath + "?token=" + url.QueryEscape(token),
		ExpiresAt:     expiresAt.UTC(),
	}, nil
}

// Download resolves a signed token to the PDF bytes, rendering the invoice
// when the background job has not produced it yet.
func (s *InvoiceService) Download(ctx context.Context, token string) ([]byte, string, error) {
	if token == "" {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "token is required")
	}
	installmentID, relPath, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid or expired download link")
	}

	filename := path.Base(relPath)
	if s.store.Exists(relPath) {
		data, err := s.store.Read(relPath)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read invoice")
		}
		return data, filename, nil
	}

	rendered, data, err := s.Render(ctx, installmentID)
	if err != nil {
		return nil, "", err
	}
	if rendered != relPath {
		return nil, "", appErrors.Clone(appErrors.ErrForbidden, "invoice link no longer valid")
	}
	return data, filename, nil
}
