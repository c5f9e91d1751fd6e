package models

import "time"

// Enrollment links a student to a session.
type Enrollment struct {
	ID             string    `db:"id" json:"id"`
	SessionID      string    `db:"session_id" json:"sessionId"`
	StudentID      string    `db:"student_id" json:"studentId"`
	PendingRemoval bool      `db:"pending_removal" json:"pendingRemoval"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// EnrollmentID derives the deterministic row id of a session/student pair.
func EnrollmentID(sessionID, studentID string) string {
	return sessionID + "-" + studentID
}
