package database

import (
	"io/fs"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsAreEmbedded(t *testing.T) {
	fsys, err := Migrations()
	require.NoError(t, err)

	files, err := fs.Glob(fsys, "*.sql")
	require.NoError(t, err)
	assert.Contains(t, files, "00001_init_schema.sql")
}

func TestNewMigratorOwnsProvider(t *testing.T) {
	raw, _, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	db := sqlx.NewDb(raw, "sqlmock")

	first, err := NewMigrator(db)
	require.NoError(t, err)
	second, err := NewMigrator(db)
	require.NoError(t, err)

	require.NotNil(t, first.provider)
	assert.NotSame(t, first.provider, second.provider)

	sources := first.provider.ListSources()
	require.NotEmpty(t, sources)
	assert.EqualValues(t, 1, sources[0].Version)
}
