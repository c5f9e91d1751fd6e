package models

import "time"

// Audit actions recorded for administrative writes.
const (
	AuditActionLogin          = "LOGIN"
	AuditActionPlanAssigned   = "PAYMENT_PLAN_ASSIGN"
	AuditActionDueDayChanged  = "DUE_DAY_CHANGE"
	AuditActionPaymentMarked  = "INSTALLMENT_PAID"
	AuditActionGraceGranted   = "GRACE_PERIOD_SET"
	AuditActionRequestReview  = "REQUEST_REVIEW"
	AuditActionEnrollmentEdit = "ENROLLMENT_EDIT"
	AuditActionLevelChanged   = "LEVEL_CHANGE"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"userId,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resourceId,omitempty"`
	NewValues  []byte    `db:"new_values" json:"newValues,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ipAddress"`
	UserAgent  string    `db:"user_agent" json:"userAgent"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
