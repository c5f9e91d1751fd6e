package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin-api/internal/dto"
	"github.com/noah-isme/academy-admin-api/internal/models"
	"github.com/noah-isme/academy-admin-api/pkg/assistant"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
)

// textGenerator is a single prompt/response call to a language model.
type textGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const gradePrompt = `You are an assistant that suggests grades for music academy students based on their attendance records and evaluations.

Subject: %s
Attendance Records: %s
Evaluations: %s

Provide a suggested grade and the reasoning behind it.
Respond with a single JSON object: {"suggestedGrade": "", "reasoning": ""}`

const schedulePrompt = `You are an assistant that creates an optimized weekly class schedule for a music academy.

Inputs:
- Student Availabilities: %s
- Teacher Expertise: %s
- Classroom Capacity: %s

Task:
1. Assign each student to a teacher and a classroom within their availability.
2. The teacher's expertise must match the subject of the class.
3. Never exceed a classroom's capacity in any time slot.
4. Minimize conflicts and maximize room utilization.
5. Summarize how conflicts were resolved.

Respond with a single JSON object: {"optimizedSchedule": [{"timeSlot": "", "classroomId": "", "teacherId": "", "studentId": "", "subject": ""}], "conflictResolution": ""}`

// AssistantService wraps the grade and schedule suggestion prompts.
type AssistantService struct {
	generator textGenerator
	timeout   time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssistantService constructs AssistantService. A nil generator disables
// both helpers.
func NewAssistantService(generator textGenerator, timeout time.Duration, validate *validator.Validate, logger *zap.Logger) *AssistantService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &AssistantService{generator: generator, timeout: timeout, validator: validate, logger: logger}
}

// SuggestGrade proposes a grade from free-text attendance and evaluation notes.
func (s *AssistantService) SuggestGrade(ctx context.Context, req dto.GradeSuggestionRequest) (*models.GradeSuggestion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade suggestion payload")
	}
	prompt := fmt.Sprintf(gradePrompt, req.Subject, req.AttendanceRecords, req.Evaluations)

	var out models.GradeSuggestion
	if err := s.ask(ctx, "grade", prompt, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.SuggestedGrade) == "" {
		return nil, appErrors.New(appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "assistant returned no grade")
	}
	return &out, nil
}

// SuggestSchedule proposes a class schedule for the supplied constraints.
func (s *AssistantService) SuggestSchedule(ctx context.Context, req dto.ScheduleSuggestionRequest) (*models.ScheduleSuggestion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule suggestion payload")
	}
	prompt, err := buildSchedulePrompt(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to prepare schedule prompt")
	}

	var out models.ScheduleSuggestion
	if err := s.ask(ctx, "schedule", prompt, &out); err != nil {
		return nil, err
	}
	if out.OptimizedSchedule == nil {
		out.OptimizedSchedule = []models.ScheduledClass{}
	}
	return &out, nil
}

func (s *AssistantService) ask(ctx context.Context, flow, prompt string, dest interface{}) error {
	if s.generator == nil {
		return appErrors.Clone(appErrors.ErrServiceUnavailable, "assistant is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("assistant call failed", zap.String("flow", flow), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) {
			return appErrors.Wrap(err, appErrors.ErrServiceUnavailable.Code, appErrors.ErrServiceUnavailable.Status, "assistant timed out")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "assistant call failed")
	}

	payload := assistant.ExtractJSON(raw)
	if payload == "" {
		s.logger.Warn("assistant reply without json", zap.String("flow", flow), zap.Int("length", len(raw)))
		return appErrors.New(appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "assistant returned malformed output")
	}
	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "assistant returned malformed output")
	}
	s.logger.Info("assistant call completed", zap.String("flow", flow), zap.Duration("elapsed", time.Since(start)))
	return nil
}

func buildSchedulePrompt(req dto.ScheduleSuggestionRequest) (string, error) {
	students, err := json.Marshal(req.StudentAvailabilities)
	if err != nil {
		return "", fmt.Errorf("encode student availabilities: %w", err)
	}
	teachers, err := json.Marshal(req.TeacherExpertise)
	if err != nil {
		return "", fmt.Errorf("encode teacher expertise: %w", err)
	}
	rooms, err := json.Marshal(req.ClassroomCapacity)
	if err != nil {
		return "", fmt.Errorf("encode classroom capacity: %w", err)
	}
	return fmt.Sprintf(schedulePrompt, students, teachers, rooms), nil
}
