package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/academy-admin-api/internal/models"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
)

// planTerms describes how a plan is split into installments.
type planTerms struct {
	count       int
	monthsApart int
	amount      decimal.Decimal
}

var paymentPlans = map[models.PaymentPlan]planTerms{
	models.PlanMonthly:   {count: 12, monthsApart: 1, amount: decimal.NewFromInt(500)},
	models.PlanQuarterly: {count: 4, monthsApart: 3, amount: decimal.NewFromInt(1500)},
	models.PlanYearly:    {count: 1, monthsApart: 12, amount: decimal.NewFromInt(5500)},
}

// InstallmentID is the deterministic id of the i-th installment of a student.
func InstallmentID(studentID string, i int) string {
	return fmt.Sprintf("%s-inst-%d", studentID, i)
}

// GenerateInstallments builds the unpaid schedule for a plan starting at start.
// Every due date is derived from start directly so month-end clamping does not drift.
func GenerateInstallments(studentID string, plan models.PaymentPlan, start models.Date) ([]models.Installment, error) {
	terms, ok := paymentPlans[plan]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported payment plan %q", plan))
	}
	if start.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startDate is required")
	}

	installments := make([]models.Installment, 0, terms.count)
	for i := 0; i < terms.count; i++ {
		installments = append(installments, models.Installment{
			ID:        InstallmentID(studentID, i),
			StudentID: studentID,
			DueDate:   start.AddMonths(i * terms.monthsApart),
			Amount:    terms.amount,
			Status:    models.InstallmentUnpaid,
		})
	}
	return installments, nil
}
