package dto

import "github.com/noah-isme/academy-admin-api/internal/models"

// SessionWeekQuery selects the weekly grid of one teacher.
type SessionWeekQuery struct {
	SemesterID  string `form:"semesterId" validate:"required"`
	TeacherName string `form:"teacherName" validate:"required"`
	WeekStart   string `form:"weekStart" validate:"required"`
	Format      string `form:"format" validate:"omitempty,oneof=pdf csv"`
}

// AttendanceRequest marks a student for one session week.
type AttendanceRequest struct {
	SessionID     string                  `json:"sessionId" validate:"required"`
	StudentID     string                  `json:"studentId" validate:"required"`
	WeekStartDate models.Date             `json:"weekStartDate"`
	Status        models.AttendanceStatus `json:"status" validate:"required,oneof=present absent late excused"`
	Note          *string                 `json:"note,omitempty"`
}

// EnrollmentRequest identifies a session/student pair.
type EnrollmentRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	StudentID string `json:"studentId" validate:"required"`
}

// PendingRemovalRequest toggles the pending-removal flag of an enrollment.
type PendingRemovalRequest struct {
	SessionID      string `json:"sessionId" validate:"required"`
	StudentID      string `json:"studentId" validate:"required"`
	PendingRemoval *bool  `json:"pendingRemoval" validate:"required"`
}
