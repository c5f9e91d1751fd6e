package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin-api/internal/models"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
)

type semesterRepository interface {
	List(ctx context.Context) ([]models.Semester, error)
	FindByID(ctx context.Context, id string) (*models.Semester, error)
}

type rosterReader interface {
	ListRoster(ctx context.Context, semesterID string) ([]models.RosterRow, error)
}

// SemesterService exposes semesters and their derived master schedule.
type SemesterService struct {
	repo   semesterRepository
	roster rosterReader
	cache  *CacheService
	logger *zap.Logger
}

// NewSemesterService constructs SemesterService.
func NewSemesterService(repo semesterRepository, roster rosterReader, cache *CacheService, logger *zap.Logger) *SemesterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SemesterService{repo: repo, roster: roster, cache: cache, logger: logger}
}

// List returns every semester, active first.
func (s *SemesterService) List(ctx context.Context) ([]models.Semester, error) {
	return readThrough(ctx, s.cache, CacheKeySemesters, s.loadSemesters)
}

func (s *SemesterService) loadSemesters(ctx context.Context) ([]models.Semester, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list semesters")
	}
	for i := range items {
		if items[i].Teachers == nil {
			items[i].Teachers = models.TeacherList{}
		}
	}
	if items == nil {
		items = []models.Semester{}
	}
	return items, nil
}

// Schedule builds the teacher -> day -> sessions tree of a semester from its
// current sessions and active enrollments.
func (s *SemesterService) Schedule(ctx context.Context, id string) (*models.SemesterSchedule, error) {
	semester, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}
	if semester.Teachers == nil {
		semester.Teachers = models.TeacherList{}
	}

	rows, err := s.roster.ListRoster(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester roster")
	}

	return &models.SemesterSchedule{Semester: *semester, MasterSchedule: BuildMasterSchedule(rows)}, nil
}
