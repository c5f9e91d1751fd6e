package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin-api/internal/dto"
	"github.com/noah-isme/academy-admin-api/internal/models"
	"github.com/noah-isme/academy-admin-api/internal/repository"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
)

type enrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Find(ctx context.Context, sessionID, studentID string) (*models.Enrollment, error)
	Delete(ctx context.Context, sessionID, studentID string) (bool, error)
	SetPendingRemoval(ctx context.Context, sessionID, studentID string, pending bool) (bool, error)
}

type sessionFinder interface {
	FindByID(ctx context.Context, id string) (*models.Session, error)
}

// EnrollmentService manages which students attend which sessions.
type EnrollmentService struct {
	repo      enrollmentRepository
	sessions  sessionFinder
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, sessions sessionFinder, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		repo:      repo,
		sessions:  sessions,
		cache:     cache,
		validator: validate,
		logger:    logger,
	}
}

// Enroll adds the student to the session.
func (s *EnrollmentService) Enroll(ctx context.Context, req dto.EnrollmentRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	enrollment := &models.Enrollment{SessionID: req.SessionID, StudentID: req.StudentID}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		switch {
		case errors.Is(err, repository.ErrSessionNotFound):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		case errors.Is(err, repository.ErrStudentNotFound):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		case errors.Is(err, repository.ErrAlreadyEnrolled):
			return nil, appErrors.Clone(appErrors.ErrConflict, "student already enrolled in session")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll student")
	}

	s.cache.Evict(ctx, CacheKeyStudents)
	return enrollment, nil
}

// Remove deletes the enrollment.
func (s *EnrollmentService) Remove(ctx context.Context, req dto.EnrollmentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	removed, err := s.repo.Delete(ctx, req.SessionID, req.StudentID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove enrollment")
	}
	if !removed {
		return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}

	s.cache.Evict(ctx, CacheKeyStudents)
	return nil
}

// SetPendingRemoval flags or clears the enrollment for removal. Teachers may
// only touch sessions they own.
func (s *EnrollmentService) SetPendingRemoval(ctx context.Context, claims *models.JWTClaims, req dto.PendingRemovalRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pending removal payload")
	}
	if err := ensureSessionOwner(ctx, s.sessions, claims, req.SessionID); err != nil {
		return err
	}

	matched, err := s.repo.SetPendingRemoval(ctx, req.SessionID, req.StudentID, *req.PendingRemoval)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment")
	}
	if !matched {
		return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}

	s.cache.Evict(ctx, CacheKeyStudents)
	return nil
}

// ensureSessionOwner loads the session and, for teachers, checks it is theirs.
func ensureSessionOwner(ctx context.Context, sessions sessionFinder, claims *models.JWTClaims, sessionID string) error {
	session, err := sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	if claims.IsTeacher() && !strings.EqualFold(strings.TrimSpace(session.TeacherName), strings.TrimSpace(claims.Name)) {
		return appErrors.Clone(appErrors.ErrForbidden, "session belongs to another teacher")
	}
	return nil
}
