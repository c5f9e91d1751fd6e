package models

import "time"

// RequestType enumerates what a teacher is asking for.
type RequestType string

const (
	RequestRemoveStudent RequestType = "remove-student"
	RequestChangeTime    RequestType = "change-time"
	RequestAddStudent    RequestType = "add-student"
)

// RequestStatus is the review state of a teacher request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestDenied   RequestStatus = "denied"
)

// Terminal reports whether the status can no longer change.
func (s RequestStatus) Terminal() bool {
	return s == RequestApproved || s == RequestDenied
}

// TeacherRequest is the persisted row of the requests table.
type TeacherRequest struct {
	ID          string        `db:"id"`
	Type        RequestType   `db:"type"`
	Status      RequestStatus `db:"status"`
	RequestDate Date          `db:"request_date"`
	TeacherID   string        `db:"teacher_id"`
	TeacherName string        `db:"teacher_name"`
	StudentID   *string       `db:"student_id"`
	StudentName *string       `db:"student_name"`
	SessionID   *string       `db:"session_id"`
	SessionTime *string       `db:"session_time"`
	Day         *string       `db:"day"`
	Reason      *string       `db:"reason"`
	SemesterID  string        `db:"semester_id"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
}

// RequestDetails is the nested detail block of a request view.
type RequestDetails struct {
	StudentID   *string `json:"studentId,omitempty"`
	StudentName *string `json:"studentName,omitempty"`
	SessionID   *string `json:"sessionId,omitempty"`
	SessionTime *string `json:"sessionTime,omitempty"`
	Day         *string `json:"day,omitempty"`
	Reason      *string `json:"reason,omitempty"`
	SemesterID  string  `json:"semesterId"`
}

// TeacherRequestView is the client facing shape of a request.
type TeacherRequestView struct {
	ID          string         `json:"id"`
	Type        RequestType    `json:"type"`
	Status      RequestStatus  `json:"status"`
	Date        Date           `json:"date"`
	TeacherID   string         `json:"teacherId"`
	TeacherName string         `json:"teacherName"`
	Details     RequestDetails `json:"details"`
}

// View converts the row into its client representation.
func (r TeacherRequest) View() TeacherRequestView {
	return TeacherRequestView{
		ID:          r.ID,
		Type:        r.Type,
		Status:      r.Status,
		Date:        r.RequestDate,
		TeacherID:   r.TeacherID,
		TeacherName: r.TeacherName,
		Details: RequestDetails{
			StudentID:   r.StudentID,
			StudentName: r.StudentName,
			SessionID:   r.SessionID,
			SessionTime: r.SessionTime,
			Day:         r.Day,
			Reason:      r.Reason,
			SemesterID:  r.SemesterID,
		},
	}
}

// RequestFilter narrows the request listing.
type RequestFilter struct {
	TeacherName string
	Status      RequestStatus
}
