package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite_CreatesDirAndEnablesWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reviews.db")

	db, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	_, err = db.Exec("CREATE TABLE t (id INTEGER PRIMARY KEY)")
	assert.NoError(t, err)
}
