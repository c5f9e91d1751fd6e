package dto

import "github.com/noah-isme/academy-admin-api/internal/models"

// CreateStudentRequest registers a new student.
type CreateStudentRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Level string `json:"level" validate:"required,max=100"`
}

// UpdateLevelRequest moves a student to a new level.
type UpdateLevelRequest struct {
	NewLevel     string `json:"newLevel" validate:"required,max=100"`
	Review       string `json:"review"`
	CurrentLevel string `json:"currentLevel" validate:"max=100"`
}

// AddGradeRequest records a graded piece of work.
type AddGradeRequest struct {
	Subject    string             `json:"subject" validate:"required"`
	Type       models.GradeType   `json:"type" validate:"required,oneof=test assignment quiz"`
	Title      string             `json:"title" validate:"required"`
	Score      float64            `json:"score" validate:"gte=0"`
	MaxScore   float64            `json:"maxScore" validate:"gt=0,gtefield=Score"`
	Date       models.Date        `json:"date"`
	Attachment *models.Attachment `json:"attachment,omitempty" validate:"omitempty"`
	Notes      string             `json:"notes"`
}

// AddEvaluationRequest records a multi-criteria evaluation.
type AddEvaluationRequest struct {
	Date      models.Date        `json:"date"`
	Evaluator string             `json:"evaluator" validate:"required"`
	Criteria  []models.Criterion `json:"criteria" validate:"required,min=1,dive"`
	Notes     string             `json:"notes"`
}
