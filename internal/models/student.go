package models

import "time"

// Student is the persisted student record.
type Student struct {
	ID                    string      `db:"id" json:"id"`
	IDPrefix              *string     `db:"id_prefix" json:"idPrefix,omitempty"`
	Name                  string      `db:"name" json:"name"`
	Gender                *string     `db:"gender" json:"gender,omitempty"`
	Username              *string     `db:"username" json:"username,omitempty"`
	DOB                   *Date       `db:"dob" json:"dob,omitempty"`
	Nationality           *string     `db:"nationality" json:"nationality,omitempty"`
	InstrumentInterest    *string     `db:"instrument_interest" json:"instrumentInterest,omitempty"`
	EnrollmentDate        *Date       `db:"enrollment_date" json:"enrollmentDate,omitempty"`
	Level                 string      `db:"level" json:"level"`
	PaymentPlan           PaymentPlan `db:"payment_plan" json:"paymentPlan"`
	SubscriptionStartDate *Date       `db:"subscription_start_date" json:"subscriptionStartDate,omitempty"`
	PreferredPayDay       *int        `db:"preferred_pay_day" json:"preferredPayDay,omitempty"`
	Avatar                *string     `db:"avatar" json:"avatar,omitempty"`
	CreatedAt             time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt             time.Time   `db:"updated_at" json:"updatedAt"`
}

// EnrolledSession is a compact reference to an active enrollment.
type EnrolledSession struct {
	SessionID  string `db:"session_id" json:"sessionId"`
	SemesterID string `db:"semester_id" json:"semesterId"`
	Teacher    string `db:"teacher_name" json:"teacher"`
}

// StudentListRow is a student joined with its packed active enrollments.
type StudentListRow struct {
	Student
	EnrolledSessions *string `db:"enrolled_sessions"`
}

// StudentSummary is the list view of a student.
type StudentSummary struct {
	Student
	EnrolledIn []EnrolledSession `json:"enrolledIn"`
}

// LevelChange records a level transition.
type LevelChange struct {
	ID             string    `db:"id" json:"id"`
	StudentID      string    `db:"student_id" json:"studentId"`
	PreviousLevel  *string   `db:"previous_level" json:"previousLevel,omitempty"`
	NewLevel       string    `db:"new_level" json:"newLevel"`
	ChangeDate     Date      `db:"change_date" json:"date"`
	ReviewComments *string   `db:"review_comments" json:"review,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"-"`
}

// StudentProfile is the full aggregate returned by the detail endpoint.
type StudentProfile struct {
	Student
	LevelHistory   []LevelChange     `json:"levelHistory"`
	Evaluations    []Evaluation      `json:"evaluations"`
	Grades         []Grade           `json:"grades"`
	Installments   []Installment     `json:"installments"`
	DueDateChanges []DueDateChange   `json:"dueDateChanges"`
	EnrolledIn     []EnrolledSession `json:"enrolledIn"`
}
