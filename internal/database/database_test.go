package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.db")

	db, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, Available(context.Background(), db))

	for _, table := range []string{"matches", "players", "match_participants", "reviews"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}

	var fk int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	t.Run("reopen is idempotent", func(t *testing.T) {
		require.NoError(t, db.Close())

		db2, err := Open(path, zerolog.Nop())
		require.NoError(t, err)
		defer db2.Close()

		assert.True(t, Available(context.Background(), db2))
	})

	t.Run("closed database is unavailable", func(t *testing.T) {
		assert.False(t, Available(context.Background(), db))
	})
}
