package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbutidas(t *testing.T) {
	entries, err := fs.ReadDir(migrations, migrationsDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, entry := range entries {
		content, err := fs.ReadFile(migrations, migrationsDir+"/"+entry.Name())
		require.NoError(t, err)

		assert.True(t, strings.Contains(string(content), "-- +goose Up"), entry.Name())
		assert.True(t, strings.Contains(string(content), "-- +goose Down"), entry.Name())
	}
}
