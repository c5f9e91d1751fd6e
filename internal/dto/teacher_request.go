package dto

import "github.com/noah-isme/academy-admin-api/internal/models"

// CreateTeacherRequest files a new request for admin review.
type CreateTeacherRequest struct {
	Type        models.RequestType `json:"type" validate:"required,oneof=remove-student change-time add-student"`
	TeacherID   string             `json:"teacherId"`
	TeacherName string             `json:"teacherName"`
	SemesterID  string             `json:"semesterId" validate:"required"`
	StudentID   string             `json:"studentId" validate:"required_if=Type remove-student"`
	StudentName string             `json:"studentName"`
	SessionID   string             `json:"sessionId" validate:"required_if=Type remove-student,required_if=Type change-time"`
	SessionTime string             `json:"sessionTime"`
	Day         string             `json:"day"`
	Reason      string             `json:"reason" validate:"required"`
}

// ReviewTeacherRequest approves or denies a pending request.
type ReviewTeacherRequest struct {
	RequestID string               `json:"requestId" validate:"required"`
	Action    models.RequestStatus `json:"action" validate:"required,oneof=approved denied"`
}
