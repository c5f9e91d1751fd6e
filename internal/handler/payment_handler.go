package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-admin-api/internal/dto"
	"github.com/noah-isme/academy-admin-api/internal/service"
	"github.com/noah-isme/academy-admin-api/pkg/response"
)

// PaymentHandler exposes installment management and invoices.
type PaymentHandler struct {
	payments *service.PaymentService
	invoices *service.InvoiceService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(payments *service.PaymentService, invoices *service.InvoiceService) *PaymentHandler {
	return &PaymentHandler{payments: payments, invoices: invoices}
}

// Students godoc
// @Summary Students with installments and payment category
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.PaymentStudent
// @Router /payments/students [get]
func (h *PaymentHandler) Students(c *gin.Context) {
	students, err := h.payments.ListStudents(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}

// AssignPlan godoc
// @Summary Assign a payment plan
// @Description Replaces every installment of the student with the generated schedule
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.AssignPlanRequest true "Plan payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /payments/assign-plan [post]
func (h *PaymentHandler) AssignPlan(c *gin.Context) {
	var req dto.AssignPlanRequest
	if !bindJSON(c, &req, "invalid plan payload") {
		return
	}
	installments, err := h.payments.AssignPlan(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"installments": installments})
}

// ChangeDueDates godoc
// @Summary Move future unpaid installments to a new day of month
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ChangeDueDatesRequest true "Due day payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /payments/change-due-dates [post]
func (h *PaymentHandler) ChangeDueDates(c *gin.Context) {
	var req dto.ChangeDueDatesRequest
	if !bindJSON(c, &req, "invalid due date payload") {
		return
	}
	moved, err := h.payments.ChangeDueDates(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": moved})
}

// MarkPaid godoc
// @Summary Record an installment payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.MarkPaidRequest true "Payment payload"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /payments/mark-paid [post]
func (h *PaymentHandler) MarkPaid(c *gin.Context) {
	var req dto.MarkPaidRequest
	if !bindJSON(c, &req, "invalid payment payload") {
		return
	}
	inst, err := h.payments.MarkPaid(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"invoiceNumber": inst.InvoiceNumber, "installment": inst})
}

// SetGracePeriod godoc
// @Summary Grant a grace period
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.GracePeriodRequest true "Grace period payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /payments/set-grace-period [post]
func (h *PaymentHandler) SetGracePeriod(c *gin.Context) {
	var req dto.GracePeriodRequest
	if !bindJSON(c, &req, "invalid grace period payload") {
		return
	}
	if err := h.payments.SetGracePeriod(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, nil)
}

// Export godoc
// @Summary Export installments
// @Tags Payments
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Security BearerAuth
// @Param format query string false "xlsx (default) or csv"
// @Success 200 {file} file
// @Router /payments/export [get]
func (h *PaymentHandler) Export(c *gin.Context) {
	var q dto.ExportQuery
	if !bindQuery(c, &q, "invalid export query") {
		return
	}
	data, contentType, filename, err := h.payments.Export(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, contentType, filename, data)
}

// InvoiceLink godoc
// @Summary Signed invoice download link
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Installment ID"
// @Success 200 {object} models.InvoiceLink
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /payments/installments/{id}/invoice [get]
func (h *PaymentHandler) InvoiceLink(c *gin.Context) {
	link, err := h.invoices.Link(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, link)
}

// DownloadInvoice godoc
// @Summary Download an invoice PDF
// @Tags Payments
// @Produce application/pdf
// @Param token query string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} response.ErrorBody
// @Router /payments/invoices/download [get]
func (h *PaymentHandler) DownloadInvoice(c *gin.Context) {
	data, filename, err := h.invoices.Download(c.Request.Context(), c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, "application/pdf", filename, data)
}
