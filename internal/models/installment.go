package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are emitted as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// PaymentPlan is the billing cadence selected for a student.
type PaymentPlan string

const (
	PlanMonthly   PaymentPlan = "monthly"
	PlanQuarterly PaymentPlan = "quarterly"
	PlanYearly    PaymentPlan = "yearly"
	PlanNone      PaymentPlan = "none"
)

// InstallmentStatus is the payment state of an installment. Overdue is never stored.
type InstallmentStatus string

const (
	InstallmentUnpaid  InstallmentStatus = "unpaid"
	InstallmentPaid    InstallmentStatus = "paid"
	InstallmentOverdue InstallmentStatus = "overdue"
)

// PaymentMethod enumerates accepted payment channels.
type PaymentMethod string

const (
	PaymentVisa     PaymentMethod = "visa"
	PaymentMada     PaymentMethod = "mada"
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
)

// Installment is one scheduled payment owned by a student.
type Installment struct {
	ID               string            `db:"id" json:"id"`
	StudentID        string            `db:"student_id" json:"studentId"`
	DueDate          Date              `db:"due_date" json:"dueDate"`
	Amount           decimal.Decimal   `db:"amount" json:"amount"`
	Status           InstallmentStatus `db:"status" json:"status"`
	PaymentDate      *Date             `db:"payment_date" json:"paymentDate,omitempty"`
	GracePeriodUntil *Date             `db:"grace_period_until" json:"gracePeriodUntil,omitempty"`
	InvoiceNumber    *string           `db:"invoice_number" json:"invoiceNumber,omitempty"`
	PaymentMethod    *PaymentMethod    `db:"payment_method" json:"paymentMethod,omitempty"`
	CreatedAt        time.Time         `db:"created_at" json:"-"`
	UpdatedAt        time.Time         `db:"updated_at" json:"-"`
}

// EffectiveDueDate is the grace date when granted, otherwise the due date.
func (i Installment) EffectiveDueDate() Date {
	if i.GracePeriodUntil != nil && !i.GracePeriodUntil.IsZero() {
		return *i.GracePeriodUntil
	}
	return i.DueDate
}

// StatusOn derives the status shown to clients for the given day.
func (i Installment) StatusOn(today Date) InstallmentStatus {
	if i.Status == InstallmentPaid {
		return InstallmentPaid
	}
	if i.EffectiveDueDate().Before(today) {
		return InstallmentOverdue
	}
	return InstallmentUnpaid
}

// DueDateChange records a preferred-pay-day migration.
type DueDateChange struct {
	ID         string    `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"studentId"`
	ChangeDate Date      `db:"change_date" json:"changeDate"`
	OldDay     int       `db:"old_day" json:"oldDay"`
	NewDay     int       `db:"new_day" json:"newDay"`
	CreatedAt  time.Time `db:"created_at" json:"-"`
}

// DueDayMigration carries the inputs of a preferred-pay-day change.
type DueDayMigration struct {
	StudentID string
	NewDay    int
	OldDay    int
	Today     Date
	ChangeID  string
}

// PaymentRecord carries the fields written when an installment is settled.
type PaymentRecord struct {
	InstallmentID string
	Method        PaymentMethod
	PaymentDate   Date
	InvoiceNumber string
}

// PaymentCategory groups students on the payments dashboard.
type PaymentCategory string

const (
	CategoryCancelled  PaymentCategory = "cancelled"
	CategoryPlanNotSet PaymentCategory = "plan-not-set"
	CategoryOverdue    PaymentCategory = "overdue"
	CategoryUpToDate   PaymentCategory = "up-to-date"
	CategoryInactive   PaymentCategory = "inactive"
)

// PaymentSummary totals a student's installments.
type PaymentSummary struct {
	Paid        decimal.Decimal `json:"paid"`
	Due         decimal.Decimal `json:"due"`
	NextDueDate *Date           `json:"nextDueDate,omitempty"`
}

// PaymentStudent is a student row on the payments dashboard.
type PaymentStudent struct {
	Student
	EnrolledIn   []EnrolledSession `json:"enrolledIn"`
	Installments []Installment     `json:"installments"`
	Category     PaymentCategory   `json:"category"`
	Summary      PaymentSummary    `json:"summary"`
}

// InvoiceLink is a signed, expiring download location for a rendered invoice.
type InvoiceLink struct {
	InvoiceNumber string    `json:"invoiceNumber"`
	URL           string    `json:"url"`
	ExpiresAt     time.Time `json:"expiresAt"`
}
