package dto

import "github.com/noah-isme/academy-admin-api/internal/models"

// AssignPlanRequest selects a payment plan and regenerates installments.
type AssignPlanRequest struct {
	StudentID string             `json:"studentId" validate:"required"`
	Plan      models.PaymentPlan `json:"plan" validate:"required,oneof=monthly quarterly yearly"`
	StartDate models.Date        `json:"startDate"`
}

// ChangeDueDatesRequest moves future unpaid installments to a new day of month.
type ChangeDueDatesRequest struct {
	StudentID           string `json:"studentId" validate:"required"`
	PreferredDay        int    `json:"preferredDay" validate:"required,min=1,max=28"`
	CurrentPreferredDay *int   `json:"currentPreferredDay,omitempty" validate:"omitempty,min=1,max=31"`
}

// MarkPaidRequest settles an installment.
type MarkPaidRequest struct {
	InstallmentID string               `json:"installmentId" validate:"required"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod" validate:"required,oneof=visa mada cash transfer"`
}

// GracePeriodRequest extends the effective due date of an installment.
type GracePeriodRequest struct {
	InstallmentID   string      `json:"installmentId" validate:"required"`
	GracePeriodDate models.Date `json:"gracePeriodDate"`
}

// ExportQuery selects the export format.
type ExportQuery struct {
	Format string `form:"format" validate:"omitempty,oneof=xlsx csv"`
}
