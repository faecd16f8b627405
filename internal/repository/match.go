package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dota-review-tracker/internal/db"
	"dota-review-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type MatchRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// enriched
type MatchWithParticipants struct {
	Match        domain.Match
	Participants []domain.MatchParticipant
}

// Record writes a match and its participants in one transaction. Matches are
// immutable: if the id already exists nothing is written and created is false.
func (r *MatchRepository) Record(ctx context.Context, match *domain.Match, participants []domain.MatchParticipant) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	inserted, err := qtx.InsertMatch(ctx, db.InsertMatchParams{
		MatchID:         match.MatchID,
		GameMode:        match.GameMode,
		StartedAt:       match.StartedAt.UTC(),
		EndedAt:         match.EndedAt.UTC(),
		DurationSeconds: int64(match.DurationSeconds),
		Outcome:         match.Outcome,
		LocalTeam:       match.LocalTeam,
		CreatedAt:       match.CreatedAt.UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("failed to insert match %s: %w", match.MatchID, err)
	}
	if inserted == 0 {
		r.logger.Debug().Str("match_id", match.MatchID).Msg("match already recorded")
		return false, nil
	}

	for _, mp := range participants {
		err := qtx.InsertMatchParticipant(ctx, db.InsertMatchParticipantParams{
			MatchID:   match.MatchID,
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
			return false, fmt.Errorf("failed to insert participant %s/%s: %w", match.MatchID, mp.AccountID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit match %s: %w", match.MatchID, err)
	}
	return true, nil
}

// Finalize fills in the result of a match recorded before it ended. Matches
// whose outcome is already known are left untouched.
func (r *MatchRepository) Finalize(ctx context.Context, matchID, outcome string, endedAt time.Time, durationSeconds int) (bool, error) {
	n, err := r.queries.FinalizeMatch(ctx, db.FinalizeMatchParams{
		Outcome:         outcome,
		EndedAt:         endedAt.UTC(),
		DurationSeconds: int64(durationSeconds),
		MatchID:         matchID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to finalize match %s: %w", matchID, err)
	}
	return n > 0, nil
}

func (r *MatchRepository) Get(ctx context.Context, matchID string) (*domain.Match, error) {
	match, err := r.queries.GetMatch(ctx, matchID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrMatchNotFound, matchID)
	}
	if err != nil {
		return nil, err
	}

	m := toDomainMatch(match)
	return &m, nil
}

func (r *MatchRepository) GetWithParticipants(ctx context.Context, matchID string) (*MatchWithParticipants, error) {
	match, err := r.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}

	participants, err := r.queries.ListMatchParticipants(ctx, matchID)
	if err != nil {
		return nil, err
	}

	return &MatchWithParticipants{
		Match:        *match,
		Participants: toDomainParticipants(participants),
	}, nil
}

func (r *MatchRepository) GetParticipant(ctx context.Context, matchID, accountID string) (*domain.MatchParticipant, error) {
	mp, err := r.queries.GetMatchParticipant(ctx, db.GetMatchParticipantParams{
		MatchID:   matchID,
		AccountID: accountID,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s not in match %s", domain.ErrPlayerNotFound, accountID, matchID)
	}
	if err != nil {
		return nil, err
	}

	p := toDomainParticipant(mp)
	return &p, nil
}

func (r *MatchRepository) ListRecent(ctx context.Context, limit int) ([]domain.Match, error) {
	matches, err := r.queries.ListRecentMatches(ctx, int64(limit))
	if err != nil {
		return nil, err
	}
	return toDomainMatches(matches), nil
}

func (r *MatchRepository) ListByPlayer(ctx context.Context, accountID string, limit int) ([]domain.Match, error) {
	matches, err := r.queries.ListMatchesByPlayer(ctx, db.ListMatchesByPlayerParams{
		AccountID: accountID,
		Limit:     int64(limit),
	})
	if err != nil {
		return nil, err
	}
	return toDomainMatches(matches), nil
}
