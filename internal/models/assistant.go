package models

// GradeSuggestion is the model's proposed grade and rationale.
type GradeSuggestion struct {
	SuggestedGrade string `json:"suggestedGrade"`
	Reasoning      string `json:"reasoning"`
}

// StudentAvailability lists the free slots of one student.
type StudentAvailability struct {
	StudentID    string   `json:"studentId" validate:"required"`
	Availability []string `json:"availability" validate:"required,min=1"`
}

// ClassroomCapacity describes a room the optimizer may assign.
type ClassroomCapacity struct {
	ClassroomID string `json:"classroomId" validate:"required"`
	Capacity    int    `json:"capacity" validate:"gt=0"`
	Subject     string `json:"subject" validate:"required"`
}

// ScheduledClass is one assignment in an optimized schedule.
type ScheduledClass struct {
	TimeSlot    string `json:"timeSlot"`
	ClassroomID string `json:"classroomId"`
	TeacherID   string `json:"teacherId"`
	StudentID   string `json:"studentId"`
	Subject     string `json:"subject"`
}

// ScheduleSuggestion is the optimizer's proposal.
type ScheduleSuggestion struct {
	OptimizedSchedule  []ScheduledClass `json:"optimizedSchedule"`
	ConflictResolution string           `json:"conflictResolution"`
}
