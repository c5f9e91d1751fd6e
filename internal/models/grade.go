package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// GradeType enumerates the kinds of graded work.
type GradeType string

const (
	GradeTest       GradeType = "test"
	GradeAssignment GradeType = "assignment"
	GradeQuiz       GradeType = "quiz"
)

// Attachment is an optional file captured with a grade.
type Attachment struct {
	Name    string `json:"name" validate:"required"`
	Type    string `json:"type" validate:"required"`
	DataURL string `json:"dataUrl" validate:"required"`
}

// Value marshals the attachment for persistence.
func (a *Attachment) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal attachment: %w", err)
	}
	return data, nil
}

// Scan unmarshals the JSONB column.
func (a *Attachment) Scan(value interface{}) error {
	return scanJSON(value, a, "attachment")
}

// Grade is a scored piece of work.
type Grade struct {
	ID         string      `db:"id" json:"id"`
	StudentID  string      `db:"student_id" json:"studentId"`
	Subject    string      `db:"subject" json:"subject"`
	Type       GradeType   `db:"type" json:"type"`
	Title      string      `db:"title" json:"title"`
	Score      float64     `db:"score" json:"score"`
	MaxScore   float64     `db:"max_score" json:"maxScore"`
	Date       Date        `db:"grade_date" json:"date"`
	Attachment *Attachment `db:"attachment_json" json:"attachment,omitempty"`
	Notes      *string     `db:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time   `db:"created_at" json:"-"`
	UpdatedAt  time.Time   `db:"updated_at" json:"-"`
}

// Criterion is one scored dimension of an evaluation.
type Criterion struct {
	Name  string  `json:"name" validate:"required"`
	Score float64 `json:"score" validate:"gte=0"`
}

// CriteriaList is stored as a JSONB array.
type CriteriaList []Criterion

// Value marshals the criteria for persistence.
func (l CriteriaList) Value() (driver.Value, error) {
	if l == nil {
		l = CriteriaList{}
	}
	data, err := json.Marshal([]Criterion(l))
	if err != nil {
		return nil, fmt.Errorf("marshal criteria: %w", err)
	}
	return data, nil
}

// Scan unmarshals the JSONB column.
func (l *CriteriaList) Scan(value interface{}) error {
	return scanJSON(value, l, "criteria")
}

// Evaluation is a multi-criteria assessment of a student.
type Evaluation struct {
	ID        string       `db:"id" json:"id"`
	StudentID string       `db:"student_id" json:"studentId"`
	Date      Date         `db:"evaluation_date" json:"date"`
	Evaluator string       `db:"evaluator" json:"evaluator"`
	Criteria  CriteriaList `db:"criteria_json" json:"criteria"`
	Notes     *string      `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time    `db:"created_at" json:"-"`
	UpdatedAt time.Time    `db:"updated_at" json:"-"`
}
