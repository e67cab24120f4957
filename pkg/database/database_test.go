package database

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/schedule-grid-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5433, User: "grid", Password: "pw", Name: "schedule_grid", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5433 user=grid password=pw dbname=schedule_grid sslmode=disable", dsn)
}

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	assert.Len(t, files, 2)

	raw, err := fs.ReadFile(migrationsFS, "migrations/00002_schedule_slots.sql")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "GENERATED ALWAYS AS (start_minute + duration_minutes) STORED")
	assert.Contains(t, string(raw), "-- +goose Down")
}
