package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var out []string
	assert.ErrorIs(t, repo.Get(ctx, "students:list", &out), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "students:list", []string{"STU001"}, 0))
	assert.NoError(t, repo.DeleteByPattern(ctx, "students:*"))
	assert.NoError(t, repo.Close())
	assert.Equal(t, "academy:students:list", namespaced("students:list"))
}
