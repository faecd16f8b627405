package repository

import (
	"context"
	"database/sql"
	"fmt"

	"dota-review-tracker/internal/constants"
	"dota-review-tracker/internal/database"
	"dota-review-tracker/internal/db"
	"dota-review-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// DataRepository works on all four collections at once.
type DataRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewDataRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *DataRepository {
	return &DataRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

type ImportStats struct {
	Matches      int `json:"matches"`
	Players      int `json:"players"`
	Participants int `json:"participants"`
	Reviews      int `json:"reviews"`
	Skipped      int `json:"skipped"`
}

func (r *DataRepository) Available(ctx context.Context) bool {
	return database.Available(ctx, r.db)
}

// Dump reads every collection inside one read transaction.
func (r *DataRepository) Dump(ctx context.Context) (*domain.Dataset, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	matches, err := qtx.ListMatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	players, err := qtx.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	participants, err := qtx.ListAllMatchParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	reviews, err := qtx.ListAllReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	return &domain.Dataset{
		Matches:      toDomainMatches(matches),
		Players:      toDomainPlayers(players),
		Participants: toDomainParticipants(participants),
		Reviews:      toDomainReviews(reviews),
	}, nil
}

// Restore upserts every record by primary key in a single transaction.
// Records that fail (bad foreign key, conflicting unique triple) are logged
// and skipped; the rest still commit.
func (r *DataRepository) Restore(ctx context.Context, data *domain.Dataset) (ImportStats, error) {
	var stats ImportStats

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	for i := 0; i < len(data.Matches); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(data.Matches))
		for _, m := range data.Matches[i:end] {
			err := qtx.UpsertMatch(ctx, db.UpsertMatchParams{
				MatchID:         m.MatchID,
				GameMode:        m.GameMode,
				StartedAt:       m.StartedAt.UTC(),
				EndedAt:         m.EndedAt.UTC(),
				DurationSeconds: int64(m.DurationSeconds),
				Outcome:         m.Outcome,
				LocalTeam:       m.LocalTeam,
				CreatedAt:       m.CreatedAt.UTC(),
			})
			if err != nil {
				r.logger.Warn().Err(err).Str("match_id", m.MatchID).Msg("skipping match on import")
				stats.Skipped++
				continue
			}
			stats.Matches++
		}
	}

	for i := 0; i < len(data.Players); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(data.Players))
		for _, p := range data.Players[i:end] {
			err := qtx.UpsertPlayer(ctx, db.UpsertPlayerParams{
				AccountID:    p.AccountID,
				Name:         p.Name,
				NameHistory:  encodeNames(p.NameHistory),
				FirstSeen:    p.FirstSeen.UTC(),
				LastSeen:     p.LastSeen.UTC(),
				AverageScore: p.AverageScore,
				ReviewCount:  int64(p.ReviewCount),
				LastScore:    int64(p.LastScore),
				LastComment:  p.LastComment,
			})
			if err != nil {
				r.logger.Warn().Err(err).Str("account_id", p.AccountID).Msg("skipping player on import")
				stats.Skipped++
				continue
			}
			stats.Players++
		}
	}

	for i := 0; i < len(data.Participants); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(data.Participants))
		for _, mp := range data.Participants[i:end] {
			err := qtx.UpsertMatchParticipant(ctx, db.UpsertMatchParticipantParams{
				MatchID:   mp.MatchID,
				AccountID: mp.AccountID,
				Name:      mp.Name,
				Hero:      mp.Hero,
				Team:      mp.Team,
				Kills:     int64(mp.Kills),
				Deaths:    int64(mp.Deaths),
				Assists:   int64(mp.Assists),
				Level:     int64(mp.Level),
			})
			if err != nil {
				r.logger.Warn().Err(err).
					Str("match_id", mp.MatchID).
					Str("account_id", mp.AccountID).
					Msg("skipping participant on import")
				stats.Skipped++
				continue
			}
			stats.Participants++
		}
	}

	for i := 0; i < len(data.Reviews); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(data.Reviews))
		for _, rv := range data.Reviews[i:end] {
			err := qtx.UpsertReview(ctx, db.UpsertReviewParams{
				ID:         rv.ID,
				MatchID:    rv.MatchID,
				SubjectID:  rv.SubjectID,
				ReviewerID: rv.ReviewerID,
				Score:      int64(rv.Score),
				Comment:    rv.Comment,
				CreatedAt:  rv.CreatedAt.UTC(),
			})
			if err != nil {
				r.logger.Warn().Err(err).Str("review_id", rv.ID).Msg("skipping review on import")
				stats.Skipped++
				continue
			}
			stats.Reviews++
		}
	}

	if err := tx.Commit(); err != nil {
		return ImportStats{}, fmt.Errorf("failed to commit import: %w", err)
	}
	return stats, nil
}

// Wipe empties every collection atomically.
func (r *DataRepository) Wipe(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"reviews", qtx.DeleteAllReviews},
		{"match_participants", qtx.DeleteAllMatchParticipants},
		{"players", qtx.DeleteAllPlayers},
		{"matches", qtx.DeleteAllMatches},
	}
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			return fmt.Errorf("failed to delete %s: %w", step.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit wipe: %w", err)
	}
	r.logger.Info().Msg("local data wiped")
	return nil
}
