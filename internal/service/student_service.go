package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin-api/internal/dto"
	"github.com/noah-isme/academy-admin-api/internal/models"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context) ([]models.StudentListRow, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	UpdateLevel(ctx context.Context, change *models.LevelChange) error
	ListLevelHistory(ctx context.Context, studentID string) ([]models.LevelChange, error)
	ListDueDateChanges(ctx context.Context, studentID string) ([]models.DueDateChange, error)
	ListActiveEnrollments(ctx context.Context, studentID string) ([]models.EnrolledSession, error)
}

type gradeRepository interface {
	Create(ctx context.Context, grade *models.Grade) error
	ListByStudent(ctx context.Context, studentID string) ([]models.Grade, error)
}

type evaluationRepository interface {
	Create(ctx context.Context, evaluation *models.Evaluation) error
	ListByStudent(ctx context.Context, studentID string) ([]models.Evaluation, error)
}

type studentInstallmentReader interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Installment, error)
}

// StudentService builds the student aggregate and records academic progress.
type StudentService struct {
	repo         studentRepository
	grades       gradeRepository
	evaluations  evaluationRepository
	installments studentInstallmentReader
	cache        *CacheService
	clock        Clock
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewStudentService constructs StudentService.
func NewStudentService(repo studentRepository, grades gradeRepository, evaluations evaluationRepository, installments studentInstallmentReader, cache *CacheService, clock Clock, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		repo:         repo,
		grades:       grades,
		evaluations:  evaluations,
		installments: installments,
		cache:        cache,
		clock:        clock,
		validator:    validate,
		logger:       logger,
	}
}

// List returns every student with its active enrollments, newest first.
func (s *StudentService) List(ctx context.Context) ([]models.StudentSummary, error) {
	return readThrough(ctx, s.cache, CacheKeyStudents, func(ctx context.Context) ([]models.StudentSummary, error) {
		rows, err := s.repo.List(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
		}
		students := make([]models.StudentSummary, 0, len(rows))
		for _, row := range rows {
			students = append(students, models.StudentSummary{
				Student:    row.Student,
				EnrolledIn: ParseEnrolledSessions(row.EnrolledSessions),
			})
		}
		return students, nil
	})
}

// ParseEnrolledSessions unpacks "session:semester:teacher" triples joined by '|'.
// Malformed entries are skipped.
func ParseEnrolledSessions(packed *string) []models.EnrolledSession {
	sessions := []models.EnrolledSession{}
	if packed == nil || *packed == "" {
		return sessions
	}
	for _, entry := range strings.Split(*packed, "|") {
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 || parts[0] == "" {
			continue
		}
		sessions = append(sessions, models.EnrolledSession{SessionID: parts[0], SemesterID: parts[1], Teacher: parts[2]})
	}
	return sessions
}

// Get assembles the full student profile. Any failing read fails the request.
func (s *StudentService) Get(ctx context.Context, id string) (*models.StudentProfile, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	profile := &models.StudentProfile{Student: *student}

	if profile.LevelHistory, err = s.repo.ListLevelHistory(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load level history")
	}
	if profile.Evaluations, err = s.evaluations.ListByStudent(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluations")
	}
	if profile.Grades, err = s.grades.ListByStudent(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grades")
	}
	installments, err := s.installments.ListByStudent(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load installments")
	}
	profile.Installments = withDerivedStatus(installments, s.clock.Today())
	if profile.DueDateChanges, err = s.repo.ListDueDateChanges(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load due date changes")
	}
	if profile.EnrolledIn, err = s.repo.ListActiveEnrollments(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}

	ensureProfileSlices(profile)
	return profile, nil
}

func ensureProfileSlices(p *models.StudentProfile) {
	if p.LevelHistory == nil {
		p.LevelHistory = []models.LevelChange{}
	}
	if p.Evaluations == nil {
		p.Evaluations = []models.Evaluation{}
	}
	if p.Grades == nil {
		p.Grades = []models.Grade{}
	}
	if p.Installments == nil {
		p.Installments = []models.Installment{}
	}
	if p.DueDateChanges == nil {
		p.DueDateChanges = []models.DueDateChange{}
	}
	if p.EnrolledIn == nil {
		p.EnrolledIn = []models.EnrolledSession{}
	}
}

// withDerivedStatus replaces the stored status with the one observed today.
func withDerivedStatus(items []models.Installment, today models.Date) []models.Installment {
	out := make([]models.Installment, len(items))
	for i, inst := range items {
		inst.Status = inst.StatusOn(today)
		out[i] = inst
	}
	return out
}

// Create registers a student enrolled today without a payment plan.
func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	today := s.clock.Today()
	student := &models.Student{
		ID:             "STD-" + uuid.NewString(),
		Name:           strings.TrimSpace(req.Name),
		Level:          strings.TrimSpace(req.Level),
		EnrollmentDate: &today,
		PaymentPlan:    models.PlanNone,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	s.cache.Evict(ctx, CacheKeyStudents)
	return student, nil
}

// UpdateLevel moves the student to a new level and records the history entry.
func (s *StudentService) UpdateLevel(ctx context.Context, id string, req dto.UpdateLevelRequest) (*models.LevelChange, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid level payload")
	}

	change := &models.LevelChange{
		StudentID:      id,
		PreviousLevel:  optionalString(req.CurrentLevel),
		NewLevel:       strings.TrimSpace(req.NewLevel),
		ChangeDate:     s.clock.Today(),
		ReviewComments: optionalString(req.Review),
	}
	if err := s.repo.UpdateLevel(ctx, change); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update level")
	}

	s.cache.Evict(ctx, CacheKeyStudents)
	return change, nil
}

// AddGrade records a graded piece of work for an existing student.
func (s *StudentService) AddGrade(ctx context.Context, id string, req dto.AddGradeRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	if req.Date.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date is required")
	}
	if err := s.ensureStudent(ctx, id); err != nil {
		return nil, err
	}

	grade := &models.Grade{
		StudentID:  id,
		Subject:    strings.TrimSpace(req.Subject),
		Type:       req.Type,
		Title:      strings.TrimSpace(req.Title),
		Score:      req.Score,
		MaxScore:   req.MaxScore,
		Date:       req.Date,
		Attachment: req.Attachment,
		Notes:      optionalString(req.Notes),
	}
	if err := s.grades.Create(ctx, grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add grade")
	}
	return grade, nil
}

// AddEvaluation records a multi-criteria evaluation for an existing student.
func (s *StudentService) AddEvaluation(ctx context.Context, id string, req dto.AddEvaluationRequest) (*models.Evaluation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid evaluation payload")
	}
	if req.Date.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date is required")
	}
	if err := s.ensureStudent(ctx, id); err != nil {
		return nil, err
	}

	evaluation := &models.Evaluation{
		StudentID: id,
		Date:      req.Date,
		Evaluator: strings.TrimSpace(req.Evaluator),
		Criteria:  models.CriteriaList(req.Criteria),
		Notes:     optionalString(req.Notes),
	}
	if err := s.evaluations.Create(ctx, evaluation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add evaluation")
	}
	return evaluation, nil
}

func (s *StudentService) ensureStudent(ctx context.Context, id string) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return nil
}
