package models

// SeedFixture is the reference data loaded into an empty database.
type SeedFixture struct {
	Users       []User
	Semesters   []Semester
	Sessions    []Session
	Students    []Student
	Enrollments []Enrollment
	Requests    []TeacherRequest
}

// InitializeResult reports the outcome of a database bootstrap.
type InitializeResult struct {
	Connected       bool     `json:"connected"`
	SeedingComplete bool     `json:"seedingComplete"`
	Message         string   `json:"message"`
	SchemaVersion   int64    `json:"schemaVersion,omitempty"`
	SeededTables    []string `json:"seededTables,omitempty"`
}
