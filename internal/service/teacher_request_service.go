package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin-api/internal/dto"
	"github.com/noah-isme/academy-admin-api/internal/models"
	"github.com/noah-isme/academy-admin-api/internal/repository"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
)

type teacherRequestRepository interface {
	List(ctx context.Context, filter models.RequestFilter) ([]models.TeacherRequest, error)
	FindByID(ctx context.Context, id string) (*models.TeacherRequest, error)
	Create(ctx context.Context, req *models.TeacherRequest) error
	ApplyReview(ctx context.Context, p repository.ReviewParams) (int64, error)
}

// TeacherRequestService runs the pending -> approved/denied workflow.
type TeacherRequestService struct {
	repo      teacherRequestRepository
	cache     *CacheService
	metrics   *MetricsService
	clock     Clock
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherRequestService constructs TeacherRequestService.
func NewTeacherRequestService(repo teacherRequestRepository, cache *CacheService, metrics *MetricsService, clock Clock, validate *validator.Validate, logger *zap.Logger) *TeacherRequestService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherRequestService{
		repo:      repo,
		cache:     cache,
		metrics:   metrics,
		clock:     clock,
		validator: validate,
		logger:    logger,
	}
}

// List returns requests newest first. Teachers only see their own.
func (s *TeacherRequestService) List(ctx context.Context, claims *models.JWTClaims) ([]models.TeacherRequestView, error) {
	filter := models.RequestFilter{}
	if claims.IsTeacher() {
		filter.TeacherName = claims.Name
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher requests")
	}
	views := make([]models.TeacherRequestView, 0, len(rows))
	for _, row := range rows {
		views = append(views, row.View())
	}
	return views, nil
}

// Create files a pending request dated today.
func (s *TeacherRequestService) Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateTeacherRequest) (*models.TeacherRequestView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher request payload")
	}

	teacherID := strings.TrimSpace(req.TeacherID)
	teacherName := strings.TrimSpace(req.TeacherName)
	if claims.IsTeacher() {
		teacherID = claims.UserID
		teacherName = claims.Name
	}
	if teacherName == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacherName is required")
	}
	if teacherID == "" {
		teacherID = teacherName
	}

	row := &models.TeacherRequest{
		Type:        req.Type,
		Status:      models.RequestPending,
		RequestDate: s.clock.Today(),
		TeacherID:   teacherID,
		TeacherName: teacherName,
		StudentID:   optionalString(req.StudentID),
		StudentName: optionalString(req.StudentName),
		SessionID:   optionalString(req.SessionID),
		SessionTime: optionalString(req.SessionTime),
		Day:         optionalString(req.Day),
		Reason:      optionalString(req.Reason),
		SemesterID:  req.SemesterID,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher request")
	}

	s.logger.Info("teacher request filed",
		zap.String("request_id", row.ID),
		zap.String("type", string(row.Type)),
		zap.String("teacher", row.TeacherName))
	view := row.View()
	return &view, nil
}

// Review moves a request to approved or denied. Repeating the current status
// succeeds; switching between approved and denied is rejected. Approving a
// remove-student request flags the enrollment in the same transaction.
func (s *TeacherRequestService) Review(ctx context.Context, req dto.ReviewTeacherRequest) (*models.TeacherRequestView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}

	current, err := s.repo.FindByID(ctx, req.RequestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher request")
	}
	if current.Status.Terminal() && current.Status != req.Action {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("request already %s", current.Status))
	}

	params := repository.ReviewParams{RequestID: current.ID, From: current.Status, To: req.Action}
	if req.Action == models.RequestApproved && current.Type == models.RequestRemoveStudent {
		params.FlagSessionID = current.SessionID
		params.FlagStudentID = current.StudentID
	}

	flagged, err := s.repo.ApplyReview(ctx, params)
	if err != nil {
		if errors.Is(err, repository.ErrStaleRequest) {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "request was reviewed concurrently")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to review teacher request")
	}

	if params.FlagSessionID != nil && params.FlagStudentID != nil {
		if flagged == 0 {
			s.logger.Warn("approved removal matched no enrollment",
				zap.String("request_id", current.ID),
				zap.String("session_id", *params.FlagSessionID),
				zap.String("student_id", *params.FlagStudentID))
		} else {
			s.cache.Evict(ctx, CacheKeyStudents)
		}
	}

	if current.Status != req.Action {
		s.metrics.RecordReview(req.Action)
		s.logger.Info("teacher request reviewed",
			zap.String("request_id", current.ID),
			zap.String("status", string(req.Action)))
	}

	current.Status = req.Action
	view := current.View()
	return &view, nil
}
