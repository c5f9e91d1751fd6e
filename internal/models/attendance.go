package models

import "time"

// AttendanceStatus captures a student's presence for one session week.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// Attendance is keyed by session, student and week start.
type Attendance struct {
	ID            string           `db:"id" json:"id"`
	SessionID     string           `db:"session_id" json:"sessionId"`
	StudentID     string           `db:"student_id" json:"studentId"`
	WeekStartDate Date             `db:"week_start_date" json:"weekStartDate"`
	Status        AttendanceStatus `db:"status" json:"status"`
	Note          *string          `db:"note" json:"note,omitempty"`
	CreatedAt     time.Time        `db:"created_at" json:"-"`
	UpdatedAt     time.Time        `db:"updated_at" json:"-"`
}
