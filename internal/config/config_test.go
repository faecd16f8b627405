package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("DB_PATH", "")
		t.Setenv("SERVER_PORT", "")
		t.Setenv("BRIDGE_ADDR", "")
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("LOCAL_ACCOUNT_ID", "")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "dota-reviews.db", cfg.DBPath)
		assert.Equal(t, "8787", cfg.ServerPort)
		assert.Equal(t, "127.0.0.1:8788", cfg.BridgeAddr)
		assert.Equal(t, zerolog.InfoLevel, cfg.Level())
		assert.Empty(t, cfg.LocalAccountID)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("DB_PATH", "/tmp/x.db")
		t.Setenv("LOG_LEVEL", "DEBUG")
		t.Setenv("LOCAL_ACCOUNT_ID", "76561198000000001")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "/tmp/x.db", cfg.DBPath)
		assert.Equal(t, zerolog.DebugLevel, cfg.Level())
		assert.Equal(t, "76561198000000001", cfg.LocalAccountID)
	})

	t.Run("invalid log level", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "loud")

		_, err := Load()
		require.Error(t, err)
	})
}
