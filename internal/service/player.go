package service

import (
	"context"
	"strings"

	"dota-review-tracker/internal/constants"
	"dota-review-tracker/internal/domain"
	"dota-review-tracker/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// PlayerProfile is what the dashboard shows for one player.
type PlayerProfile struct {
	Player  domain.Player   `json:"player"`
	Matches []domain.Match  `json:"matches"`
	Reviews []domain.Review `json:"reviews"`
}

type PlayerService struct {
	players *repository.PlayerRepository
	matches *repository.MatchRepository
	reviews *repository.ReviewRepository
	logger  zerolog.Logger
}

func NewPlayerService(players *repository.PlayerRepository, matches *repository.MatchRepository, reviews *repository.ReviewRepository, logger zerolog.Logger) *PlayerService {
	return &PlayerService{players: players, matches: matches, reviews: reviews, logger: logger}
}

func (s *PlayerService) GetPlayer(ctx context.Context, accountID string) (*PlayerProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	s.logger.Debug().Str("account_id", accountID).Msg("getting player")

	player, err := s.players.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	profile := &PlayerProfile{Player: *player}

	// reads only; the single-connection pool serializes them
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		matches, err := s.matches.ListByPlayer(gctx, accountID, constants.MatchListLimit)
		profile.Matches = matches
		return err
	})
	g.Go(func() error {
		reviews, err := s.reviews.ListBySubject(gctx, accountID)
		profile.Reviews = reviews
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("account_id", accountID).Msg("failed to load player profile")
		return nil, err
	}

	return profile, nil
}

// SearchSuggestions matches current and prior names.
func (s *PlayerService) SearchSuggestions(ctx context.Context, query string) ([]domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Player{}, nil
	}

	s.logger.Debug().Str("query", query).Msg("searching players")

	players, err := s.players.Search(ctx, query, constants.SearchSuggestionLimit)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("failed to search players")
		return nil, err
	}

	s.logger.Info().Int("count", len(players)).Str("query", query).Msg("search completed")
	return players, nil
}
