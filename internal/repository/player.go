package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"dota-review-tracker/internal/db"
	"dota-review-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *PlayerRepository) Get(ctx context.Context, accountID string) (*domain.Player, error) {
	player, err := r.queries.GetPlayer(ctx, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrPlayerNotFound, accountID)
	}
	if err != nil {
		return nil, err
	}

	p := toDomainPlayer(player)
	return &p, nil
}

// Create inserts a first-seen player with an empty history and no reviews.
func (r *PlayerRepository) Create(ctx context.Context, accountID, name string, seenAt time.Time) error {
	seenAt = seenAt.UTC()
	return r.queries.InsertPlayer(ctx, db.InsertPlayerParams{
		AccountID:   accountID,
		Name:        name,
		NameHistory: encodeNames(nil),
		FirstSeen:   seenAt,
		LastSeen:    seenAt,
	})
}

func (r *PlayerRepository) UpdateSeen(ctx context.Context, accountID, name string, history []string, seenAt time.Time) error {
	r.logger.Debug().
		Str("account_id", accountID).
		Str("name", name).
		Strs("name_history", history).
		Time("last_seen", seenAt).
		Msg("updating player")

	return r.queries.UpdatePlayerSeen(ctx, db.UpdatePlayerSeenParams{
		Name:        name,
		NameHistory: encodeNames(history),
		LastSeen:    seenAt.UTC(),
		AccountID:   accountID,
	})
}

func (r *PlayerRepository) UpdateRating(ctx context.Context, accountID string, summary domain.RatingSummary) error {
	return r.queries.UpdatePlayerRating(ctx, db.UpdatePlayerRatingParams{
		AverageScore: summary.AverageScore,
		ReviewCount:  int64(summary.Count),
		LastScore:    int64(summary.LastScore),
		LastComment:  summary.LastComment,
		AccountID:    accountID,
	})
}

// Search matches the current name or any prior name. query is matched
// literally.
func (r *PlayerRepository) Search(ctx context.Context, query string, limit int) ([]domain.Player, error) {
	searchPattern := "%" + likeEscaper.Replace(query) + "%"
	players, err := r.queries.SearchPlayers(ctx, db.SearchPlayersParams{
		Name:        searchPattern,
		NameHistory: searchPattern,
		Limit:       int64(limit),
	})
	if err != nil {
		return nil, err
	}

	return toDomainPlayers(players), nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]domain.Player, error) {
	players, err := r.queries.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	return toDomainPlayers(players), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
