package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TeacherList is the JSONB array of teacher names attached to a semester.
type TeacherList []string

// Value marshals the list for persistence.
func (l TeacherList) Value() (driver.Value, error) {
	if l == nil {
		l = TeacherList{}
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("marshal teachers: %w", err)
	}
	return data, nil
}

// Scan unmarshals the JSONB column.
func (l *TeacherList) Scan(value interface{}) error {
	return scanJSON(value, l, "teachers")
}

// Semester is a teaching period with its roster of teachers.
type Semester struct {
	ID        string      `db:"id" json:"id"`
	Name      string      `db:"name" json:"name"`
	StartDate Date        `db:"start_date" json:"startDate"`
	EndDate   Date        `db:"end_date" json:"endDate"`
	Teachers  TeacherList `db:"teachers_json" json:"teachers"`
	IsActive  bool        `db:"is_active" json:"isActive"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time   `db:"updated_at" json:"updatedAt"`
}

// MasterSchedule is the derived teacher -> day -> sessions tree of a semester.
type MasterSchedule map[string]map[string][]SessionView

// SemesterSchedule wraps a semester with its derived master schedule.
type SemesterSchedule struct {
	Semester
	MasterSchedule MasterSchedule `json:"masterSchedule"`
}
