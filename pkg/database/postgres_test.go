package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/academy-admin-api/pkg/config"
)

func TestDSN(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "db", Port: 5432, User: "academy", Password: "pw", Name: "academy"}
	assert.Equal(t, "host=db port=5432 user=academy password=pw dbname=academy sslmode=disable", DSN(cfg))

	cfg.SSLMode = "require"
	assert.Contains(t, DSN(cfg), "sslmode=require")

	cfg.URL = "postgres://academy:pw@db:5432/academy"
	assert.Equal(t, cfg.URL, DSN(cfg))
}
