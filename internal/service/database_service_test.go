package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/academy-admin-api/internal/models"
)

type stubMigrator struct {
	calls int
	err   error
}

func (m *stubMigrator) Up(ctx context.Context) (int64, error) {
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	return 1, nil
}

type stubSeedRepo struct {
	pingErr error
	seedErr error
	fixture models.SeedFixture
}

func (r *stubSeedRepo) Ping(ctx context.Context) error { return r.pingErr }

func (r *stubSeedRepo) Seed(ctx context.Context, fixture models.SeedFixture) ([]string, error) {
	if r.seedErr != nil {
		return nil, r.seedErr
	}
	r.fixture = fixture
	return []string{"users", "semesters"}, nil
}

func TestDatabaseServiceInitialize(t *testing.T) {
	migrator := &stubMigrator{}
	seeds := &stubSeedRepo{}
	svc := NewDatabaseService(migrator, seeds, "12345", nil)

	result, err := svc.Initialize(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Connected)
	assert.True(t, result.SeedingComplete)
	assert.Equal(t, []string{"users", "semesters"}, result.SeededTables)
	assert.Equal(t, 1, migrator.calls)
	assert.EqualValues(t, 1, result.SchemaVersion)

	require.NotEmpty(t, seeds.fixture.Users)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(seeds.fixture.Users[0].PasswordHash), []byte("12345")))
}

func TestDatabaseServiceInitializeFailures(t *testing.T) {
	unreachable := NewDatabaseService(&stubMigrator{}, &stubSeedRepo{pingErr: errors.New("refused")}, "x", nil)
	result, err := unreachable.Initialize(context.Background())
	requireStatus(t, err, http.StatusInternalServerError)
	assert.False(t, result.Connected)

	broken := NewDatabaseService(&stubMigrator{err: errors.New("syntax")}, &stubSeedRepo{}, "x", nil)
	result, err = broken.Initialize(context.Background())
	requireStatus(t, err, http.StatusInternalServerError)
	assert.True(t, result.Connected)
	assert.False(t, result.SeedingComplete)

	failing := NewDatabaseService(&stubMigrator{}, &stubSeedRepo{seedErr: errors.New("dup")}, "x", nil)
	result, err = failing.Initialize(context.Background())
	requireStatus(t, err, http.StatusInternalServerError)
	assert.False(t, result.SeedingComplete)
}

func TestDefaultSeedFixtureIsConsistent(t *testing.T) {
	fixture := DefaultSeedFixture("hash")

	sessions := map[string]models.Session{}
	for _, s := range fixture.Sessions {
		sessions[s.ID] = s
	}
	students := map[string]bool{}
	for _, s := range fixture.Students {
		students[s.ID] = true
	}

	require.Len(t, fixture.Semesters, 1)
	for _, e := range fixture.Enrollments {
		assert.Contains(t, sessions, e.SessionID)
		assert.True(t, students[e.StudentID], e.StudentID)
	}
	for _, r := range fixture.Requests {
		require.NotNil(t, r.SessionID)
		assert.Equal(t, sessions[*r.SessionID].TeacherName, r.TeacherName)
	}
	for _, s := range fixture.Sessions {
		assert.Contains(t, fixture.Semesters[0].Teachers, s.TeacherName)
	}
}
