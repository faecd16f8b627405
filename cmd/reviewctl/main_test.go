package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"dota-review-tracker/internal/database"
	"dota-review-tracker/internal/db"
	"dota-review-tracker/internal/repository"
	"dota-review-tracker/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type exportFile struct {
	bytes.Buffer
	closeErr error
	closed   bool
}

func (f *exportFile) Close() error {
	f.closed = true
	return f.closeErr
}

func newTransfer(t *testing.T) *service.TransferService {
	t.Helper()

	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "reviews.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	data := repository.NewDataRepository(sqlDB, db.New(sqlDB), zerolog.Nop())
	return service.NewTransferService(data, zerolog.Nop())
}

func TestWriteExport(t *testing.T) {
	ctx := context.Background()
	transfer := newTransfer(t)

	t.Run("writes and closes", func(t *testing.T) {
		f := &exportFile{}
		require.NoError(t, writeExport(ctx, transfer, f))
		assert.True(t, f.closed)
		assert.Contains(t, f.String(), `"version"`)
	})

	t.Run("close failure is reported", func(t *testing.T) {
		diskFull := errors.New("no space left on device")
		f := &exportFile{closeErr: diskFull}

		err := writeExport(ctx, transfer, f)
		require.Error(t, err)
		assert.ErrorIs(t, err, diskFull)
		assert.True(t, f.closed)
	})
}
