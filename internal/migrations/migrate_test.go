package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jain13abhi/dockfinity-costing-app/internal/db"
)

func TestUpCreatesSchemaAndIsRepeatable(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, Up(ctx, database))
	require.NoError(t, Up(ctx, database))

	version, err := Version(ctx, database)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	for _, table := range []string{"settings", "items", "results"} {
		var n int
		err := database.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "table %s", table)
	}
}
