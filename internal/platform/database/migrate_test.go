package database

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"precinct/migrations"
)

func TestUpMigrationsOrdersAndFilters(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_b.up.sql":   {Data: []byte("SELECT 2")},
		"000001_a.up.sql":   {Data: []byte("SELECT 1")},
		"000001_a.down.sql": {Data: []byte("SELECT 0")},
		"README.md":         {Data: []byte("docs")},
	}

	files, err := UpMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_a.up.sql", "000002_b.up.sql"}, files)
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	files, err := UpMigrations(migrations.FS)
	require.NoError(t, err)
	assert.Contains(t, files, "000001_create_records.up.sql")
	assert.Contains(t, files, "000002_create_officers.up.sql")
}

func TestNewWithoutURL(t *testing.T) {
	pool, err := New(context.Background(), DefaultConfig())
	require.NoError(t, err)
	assert.Nil(t, pool)
	assert.ErrorIs(t, pool.Health(context.Background()), ErrNotConfigured)
	assert.NoError(t, pool.Close())
}
