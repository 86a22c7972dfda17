package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenEnablesForeignKeys(t *testing.T) {
	database, err := Open(context.Background(), filepath.Join(t.TempDir(), "costing.db"))
	require.NoError(t, err)
	defer database.Close()

	// Hold several connections at once; each must carry the pragma.
	database.SetMaxIdleConns(4)
	for i := 0; i < 4; i++ {
		conn, err := database.Conn(context.Background())
		require.NoError(t, err)
		defer conn.Close()

		var enabled int
		require.NoError(t, conn.QueryRowContext(context.Background(), `PRAGMA foreign_keys`).Scan(&enabled))
		assert.Equal(t, 1, enabled)
	}

	var mode string
	require.NoError(t, database.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestOpenMemory(t *testing.T) {
	database, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec(`CREATE TABLE t (id INTEGER)`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO t (id) VALUES (1)`)
	require.NoError(t, err)

	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n))
	assert.Equal(t, 1, n)
}
