package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"dota-review-tracker/internal/constants"
	"dota-review-tracker/internal/domain"
	"dota-review-tracker/internal/repository"

	"github.com/rs/zerolog"
)

// ExportDocument is the portable dump of the local store.
type ExportDocument struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	domain.Dataset
}

type TransferService struct {
	data   *repository.DataRepository
	logger zerolog.Logger
}

func NewTransferService(data *repository.DataRepository, logger zerolog.Logger) *TransferService {
	return &TransferService{data: data, logger: logger}
}

func (s *TransferService) Export(ctx context.Context) (*ExportDocument, error) {
	dataset, err := s.data.Dump(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export: %w", err)
	}

	s.logger.Info().
		Int("matches", len(dataset.Matches)).
		Int("players", len(dataset.Players)).
		Int("participants", len(dataset.Participants)).
		Int("reviews", len(dataset.Reviews)).
		Msg("data exported")

	return &ExportDocument{
		Version:    constants.ExportFormatVersion,
		ExportedAt: time.Now().UTC(),
		Dataset:    *dataset,
	}, nil
}

func (s *TransferService) WriteExport(ctx context.Context, w io.Writer) error {
	doc, err := s.Export(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Import loads doc into the store. Documents of another format version are
// rejected before anything is written.
func (s *TransferService) Import(ctx context.Context, doc *ExportDocument) (repository.ImportStats, error) {
	if doc.Version != constants.ExportFormatVersion {
		return repository.ImportStats{}, fmt.Errorf("%w: got %d, want %d", domain.ErrUnsupportedVersion, doc.Version, constants.ExportFormatVersion)
	}

	stats, err := s.data.Restore(ctx, &doc.Dataset)
	if err != nil {
		return stats, fmt.Errorf("failed to import: %w", err)
	}

	s.logger.Info().
		Int("matches", stats.Matches).
		Int("players", stats.Players).
		Int("participants", stats.Participants).
		Int("reviews", stats.Reviews).
		Int("skipped", stats.Skipped).
		Msg("data imported")
	return stats, nil
}

func (s *TransferService) ReadImport(ctx context.Context, r io.Reader) (repository.ImportStats, error) {
	var doc ExportDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return repository.ImportStats{}, fmt.Errorf("failed to decode export document: %w", err)
	}
	return s.Import(ctx, &doc)
}

func (s *TransferService) Wipe(ctx context.Context) error {
	return s.data.Wipe(ctx)
}

func (s *TransferService) StoreAvailable(ctx context.Context) bool {
	return s.data.Available(ctx)
}
