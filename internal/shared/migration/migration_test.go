package migration_test

import (
	"io/fs"
	"strings"
	"testing"

	"go-hris-workflow/internal/shared/migration"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migration.FS(), "sql/*.sql")
	require.NoError(t, err)
	require.Len(t, files, 4)

	tables := []string{"approval_requests", "request_comments", "request_counters", "outbox_events"}
	for i, name := range files {
		body, err := fs.ReadFile(migration.FS(), name)
		require.NoError(t, err)

		content := string(body)
		assert.True(t, strings.HasPrefix(content, "-- +goose Up"), name)
		assert.Contains(t, content, "-- +goose Down", name)
		assert.Contains(t, content, "CREATE TABLE IF NOT EXISTS "+tables[i], name)
	}
}
