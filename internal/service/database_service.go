package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin-api/internal/models"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
)

type schemaMigrator interface {
	Up(ctx context.Context) (int64, error)
}

type seedRepository interface {
	Ping(ctx context.Context) error
	Seed(ctx context.Context, fixture models.SeedFixture) ([]string, error)
}

// DatabaseService bootstraps the schema and reference data.
type DatabaseService struct {
	migrator        schemaMigrator
	seeds           seedRepository
	defaultPassword string
	logger          *zap.Logger
}

// NewDatabaseService constructs DatabaseService.
func NewDatabaseService(migrator schemaMigrator, seeds seedRepository, defaultPassword string, logger *zap.Logger) *DatabaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DatabaseService{migrator: migrator, seeds: seeds, defaultPassword: defaultPassword, logger: logger}
}

// Initialize applies pending migrations and seeds empty tables. The returned
// result is meaningful even when err is non-nil.
func (s *DatabaseService) Initialize(ctx context.Context) (*models.InitializeResult, error) {
	result := &models.InitializeResult{}

	if err := s.seeds.Ping(ctx); err != nil {
		s.logger.Error("database unreachable", zap.Error(err))
		return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to connect to database")
	}
	result.Connected = true

	version, err := s.migrator.Up(ctx)
	if err != nil {
		s.logger.Error("schema migration failed", zap.Error(err))
		return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create database tables")
	}
	result.SchemaVersion = version

	hash, err := HashPassword(s.defaultPassword)
	if err != nil {
		return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to prepare seed users")
	}

	seeded, err := s.seeds.Seed(ctx, DefaultSeedFixture(hash))
	if err != nil {
		s.logger.Error("seeding failed", zap.Error(err))
		return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "seeding failed")
	}

	result.SeedingComplete = true
	result.SeededTables = seeded
	result.Message = "Database initialized successfully"
	if len(seeded) > 0 {
		s.logger.Info("database seeded", zap.String("tables", strings.Join(seeded, ",")))
	}
	return result, nil
}
