package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin-api/internal/dto"
	"github.com/noah-isme/academy-admin-api/internal/models"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
)

type attendanceRepository interface {
	Upsert(ctx context.Context, record *models.Attendance) error
}

type enrollmentFinder interface {
	Find(ctx context.Context, sessionID, studentID string) (*models.Enrollment, error)
}

// AttendanceService records weekly attendance marks.
type AttendanceService struct {
	repo        attendanceRepository
	sessions    sessionFinder
	enrollments enrollmentFinder
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAttendanceService constructs AttendanceService.
func NewAttendanceService(repo attendanceRepository, sessions sessionFinder, enrollments enrollmentFinder, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		repo:        repo,
		sessions:    sessions,
		enrollments: enrollments,
		validator:   validate,
		logger:      logger,
	}
}

// Record upserts the mark of an enrolled student for the week containing
// req.WeekStartDate.
func (s *AttendanceService) Record(ctx context.Context, claims *models.JWTClaims, req dto.AttendanceRequest) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	if req.WeekStartDate.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "weekStartDate is required")
	}
	if err := ensureSessionOwner(ctx, s.sessions, claims, req.SessionID); err != nil {
		return nil, err
	}

	if _, err := s.enrollments.Find(ctx, req.SessionID, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student is not enrolled in this session")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}

	record := &models.Attendance{
		SessionID:     req.SessionID,
		StudentID:     req.StudentID,
		WeekStartDate: req.WeekStartDate.WeekStart(),
		Status:        req.Status,
	}
	if req.Note != nil {
		record.Note = optionalString(*req.Note)
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance")
	}
	return record, nil
}
