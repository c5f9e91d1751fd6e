package dto

import "github.com/noah-isme/academy-admin-api/internal/models"

// GradeSuggestionRequest feeds the grade suggestion helper.
type GradeSuggestionRequest struct {
	AttendanceRecords string `json:"attendanceRecords" validate:"required"`
	Evaluations       string `json:"evaluations" validate:"required"`
	Subject           string `json:"subject" validate:"required"`
}

// ScheduleSuggestionRequest feeds the schedule optimizer helper.
type ScheduleSuggestionRequest struct {
	StudentAvailabilities []models.StudentAvailability `json:"studentAvailabilities" validate:"required,min=1,dive"`
	TeacherExpertise      map[string]string            `json:"teacherExpertise" validate:"required,min=1"`
	ClassroomCapacity     []models.ClassroomCapacity   `json:"classroomCapacity" validate:"required,min=1,dive"`
}
