package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-admin-api/internal/models"
	"github.com/noah-isme/academy-admin-api/internal/repository"
	"github.com/noah-isme/academy-admin-api/internal/service"
)

type installmentRepoStub struct {
	items map[string]*models.Installment
	paid  []models.PaymentRecord
}

func (r *installmentRepoStub) ReplacePlan(ctx context.Context, assignment repository.PlanAssignment) error {
	return nil
}

func (r *installmentRepoStub) MigrateDueDay(ctx context.Context, migration models.DueDayMigration) (int, error) {
	return 0, nil
}

func (r *installmentRepoStub) FindByID(ctx context.Context, id string) (*models.Installment, error) {
	inst, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *inst
	return &copied, nil
}

func (r *installmentRepoStub) ListAll(ctx context.Context) ([]models.Installment, error) {
	return nil, nil
}

func (r *installmentRepoStub) MarkPaid(ctx context.Context, record models.PaymentRecord) (bool, error) {
	inst := r.items[record.InstallmentID]
	if inst.Status == models.InstallmentPaid {
		return false, nil
	}
	inst.Status = models.InstallmentPaid
	r.paid = append(r.paid, record)
	return true, nil
}

func (r *installmentRepoStub) SetGracePeriod(ctx context.Context, id string, until models.Date) error {
	return nil
}

func newPaymentHandlerForTest(repo *installmentRepoStub) *PaymentHandler {
	clock := service.Clock{
		Now:      func() time.Time { return time.Date(2024, time.October, 2, 10, 0, 0, 0, time.UTC) },
		Location: time.UTC,
	}
	svc := service.NewPaymentService(repo, nil, nil, nil, nil, clock, nil, nil)
	return NewPaymentHandler(svc, nil)
}

func unpaidInstallment(id string) *models.Installment {
	return &models.Installment{
		ID:        id,
		StudentID: "STU001",
		DueDate:   models.NewDate(time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC)),
		Amount:    decimal.NewFromInt(500),
		Status:    models.InstallmentUnpaid,
	}
}

func TestPaymentHandlerMarkPaid(t *testing.T) {
	repo := &installmentRepoStub{items: map[string]*models.Installment{"STU001-inst-1": unpaidInstallment("STU001-inst-1")}}
	h := newPaymentHandlerForTest(repo)

	c, w := newGinContext(http.MethodPost, "/payments/mark-paid", []byte(`{"installmentId":"STU001-inst-1","paymentMethod":"mada"}`))
	h.MarkPaid(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	number, _ := body["invoiceNumber"].(string)
	assert.True(t, strings.HasPrefix(number, "INV-20241002-"), number)

	inst := body["installment"].(map[string]interface{})
	assert.Equal(t, "paid", inst["status"])
	assert.Equal(t, "mada", inst["paymentMethod"])
	assert.Equal(t, "2024-10-02", inst["paymentDate"])
	require.Len(t, repo.paid, 1)
	assert.Equal(t, number, repo.paid[0].InvoiceNumber)

	c, w = newGinContext(http.MethodPost, "/payments/mark-paid", []byte(`{"installmentId":"STU001-inst-1","paymentMethod":"cash"}`))
	h.MarkPaid(c)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", decodeBody(t, w)["code"])
}

func TestPaymentHandlerMarkPaidRejectsBadPayloads(t *testing.T) {
	repo := &installmentRepoStub{items: map[string]*models.Installment{"i1": unpaidInstallment("i1")}}
	h := newPaymentHandlerForTest(repo)

	c, w := newGinContext(http.MethodPost, "/payments/mark-paid", []byte(`{"installmentId":"i1","paymentMethod":"cash","amount":500}`))
	h.MarkPaid(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeBody(t, w)["code"])

	c, w = newGinContext(http.MethodPost, "/payments/mark-paid", []byte(`{"installmentId":"i1","paymentMethod":"cheque"}`))
	h.MarkPaid(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newGinContext(http.MethodPost, "/payments/mark-paid", []byte(`{"installmentId":"missing","paymentMethod":"cash"}`))
	h.MarkPaid(c)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, repo.paid)
}
