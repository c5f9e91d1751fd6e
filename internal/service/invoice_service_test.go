package service

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-admin-api/internal/models"
	"github.com/noah-isme/academy-admin-api/pkg/jobs"
	"github.com/noah-isme/academy-admin-api/pkg/storage"
)

type stubStudentFinder struct {
	students map[string]models.Student
}

func (s *stubStudentFinder) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if st, ok := s.students[id]; ok {
		return &st, nil
	}
	return nil, sql.ErrNoRows
}

func paidInstallment(t *testing.T) models.Installment {
	inst := unpaid(t, "STU001-inst-0", "STU001", "2024-01-15")
	inst.Status = models.InstallmentPaid
	day := mustDate(t, "2024-01-20")
	method := models.PaymentCash
	number := "INV-20240120-ab12cd34"
	inst.PaymentDate = &day
	inst.PaymentMethod = &method
	inst.InvoiceNumber = &number
	return inst
}

func newInvoiceServiceForTest(t *testing.T, items ...models.Installment) (*InvoiceService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	students := &stubStudentFinder{students: map[string]models.Student{"STU001": {ID: "STU001", Name: "Ahmed Ali"}}}
	clock := fixedClock(time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC))
	svc := NewInvoiceService(newStubInstallmentRepo(items...), students, store, signer, nil, "/api/payments/invoices/download", clock, nil)
	return svc, store
}

func TestInvoicePath(t *testing.T) {
	inst := paidInstallment(t)
	assert.Equal(t, "2024/01/INV-20240120-ab12cd34.pdf", InvoicePath(&inst))
}

func TestInvoiceServiceHandleJobStoresPDF(t *testing.T) {
	inst := paidInstallment(t)
	svc, store := newInvoiceServiceForTest(t, inst)

	err := svc.HandleJob(context.Background(), jobs.Job{ID: *inst.InvoiceNumber, Type: JobTypeInvoice, Payload: inst.ID})
	require.NoError(t, err)

	data, err := store.Read(InvoicePath(&inst))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestInvoiceServiceLinkAndDownload(t *testing.T) {
	inst := paidInstallment(t)
	svc, _ := newInvoiceServiceForTest(t, inst)

	link, err := svc.Link(context.Background(), inst.ID)
	require.NoError(t, err)
	assert.Equal(t, *inst.InvoiceNumber, link.InvoiceNumber)
	require.True(t, strings.HasPrefix(link.URL, "/api/payments/invoices/download?token="))

	parsed, err := url.Parse(link.URL)
	require.NoError(t, err)

	data, filename, err := svc.Download(context.Background(), parsed.Query().Get("token"))
	require.NoError(t, err)
	assert.Equal(t, "INV-20240120-ab12cd34.pdf", filename)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestInvoiceServiceRejectsUnpaidAndBadTokens(t *testing.T) {
	svc, _ := newInvoiceServiceForTest(t, unpaid(t, "STU001-inst-1", "STU001", "2024-02-15"))

	_, err := svc.Link(context.Background(), "STU001-inst-1")
	requireStatus(t, err, http.StatusConflict)

	_, err = svc.Link(context.Background(), "missing")
	requireStatus(t, err, http.StatusNotFound)

	_, _, err = svc.Download(context.Background(), "forged.token.value.sig")
	requireStatus(t, err, http.StatusForbidden)

	_, _, err = svc.Download(context.Background(), "")
	requireStatus(t, err, http.StatusBadRequest)
}

func TestInvoiceServiceHandleJobSkipsUnpaid(t *testing.T) {
	svc, _ := newInvoiceServiceForTest(t, unpaid(t, "STU001-inst-1", "STU001", "2024-02-15"))

	err := svc.HandleJob(context.Background(), jobs.Job{ID: "x", Payload: "STU001-inst-1"})

	assert.NoError(t, err)
}
