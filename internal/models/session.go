package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionType distinguishes instrument practice from theory classes.
type SessionType string

const (
	SessionPractical SessionType = "practical"
	SessionTheory    SessionType = "theory"
)

// Session is a recurring weekly class slot owned by one teacher.
type Session struct {
	ID             string          `db:"id" json:"id"`
	SemesterID     string          `db:"semester_id" json:"semesterId"`
	TeacherName    string          `db:"teacher_name" json:"teacherName"`
	DayOfWeek      string          `db:"day_of_week" json:"day"`
	TimeSlot       string          `db:"time_slot" json:"time"`
	Duration       decimal.Decimal `db:"duration" json:"duration"`
	Specialization *string         `db:"specialization" json:"specialization,omitempty"`
	Type           SessionType     `db:"type" json:"type"`
	Note           *string         `db:"note" json:"note,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"-"`
	UpdatedAt      time.Time       `db:"updated_at" json:"-"`
}

// SessionGridRow is one row of the session x enrollment x attendance outer join.
type SessionGridRow struct {
	SessionID        string            `db:"session_id"`
	DayOfWeek        string            `db:"day_of_week"`
	TimeSlot         string            `db:"time_slot"`
	Duration         decimal.Decimal   `db:"duration"`
	Specialization   *string           `db:"specialization"`
	Type             SessionType       `db:"type"`
	Note             *string           `db:"note"`
	StudentID        *string           `db:"student_id"`
	StudentName      *string           `db:"student_name"`
	PendingRemoval   *bool             `db:"pending_removal"`
	AttendanceStatus *AttendanceStatus `db:"attendance_status"`
	AttendanceNote   *string           `db:"attendance_note"`
}

// SessionStudentView is a roster entry inside a session view.
type SessionStudentView struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Attendance     *AttendanceStatus `json:"attendance"`
	Note           *string           `json:"note,omitempty"`
	PendingRemoval bool              `json:"pendingRemoval"`
}

// SessionView is a session placed on the weekly grid with its roster.
type SessionView struct {
	ID             string               `json:"id"`
	Time           string               `json:"time"`
	Duration       decimal.Decimal      `json:"duration"`
	Specialization *string              `json:"specialization,omitempty"`
	Type           SessionType          `json:"type"`
	Note           *string              `json:"note,omitempty"`
	Day            string               `json:"day"`
	StartRow       int                  `json:"startRow"`
	Students       []SessionStudentView `json:"students"`
}

// WeekQuery selects the grid for one teacher and week.
type WeekQuery struct {
	SemesterID  string
	TeacherName string
	WeekStart   Date
}

// RosterRow is an active enrollment joined to its session, used for the master schedule.
type RosterRow struct {
	Session
	StudentID   *string `db:"student_id"`
	StudentName *string `db:"student_name"`
}
