package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dota-review-tracker/internal/constants"
	"dota-review-tracker/internal/domain"
	"dota-review-tracker/internal/host"
	"dota-review-tracker/internal/repository"

	"github.com/rs/zerolog"
)

// MatchDetail is a recorded match with everyone who played in it and the
// reviews left for it.
type MatchDetail struct {
	Match        domain.Match              `json:"match"`
	Participants []domain.MatchParticipant `json:"participants"`
	Reviews      []domain.Review           `json:"reviews"`
}

type MatchService struct {
	matches *repository.MatchRepository
	reviews *repository.ReviewRepository
	logger  zerolog.Logger
}

func NewMatchService(matches *repository.MatchRepository, reviews *repository.ReviewRepository, logger zerolog.Logger) *MatchService {
	return &MatchService{matches: matches, reviews: reviews, logger: logger}
}

// Outcome is the local user's result given the winning side.
func Outcome(winner, localTeam string) string {
	if winner == "" || localTeam == "" {
		return domain.OutcomeUnknown
	}
	if winner == localTeam {
		return domain.OutcomeWin
	}
	return domain.OutcomeLose
}

// RecordFromSnapshot stores the match described by snap with every roster
// player as a participant. created is false when the match was already
// recorded, in which case the stored match is returned unchanged.
func (s *MatchService) RecordFromSnapshot(ctx context.Context, snap host.Snapshot, at time.Time) (*domain.Match, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if snap.MatchInfo.MatchID == "" {
		return nil, false, fmt.Errorf("no match id in host snapshot")
	}

	at = at.UTC()
	started := snap.MatchInfo.StartedAt.UTC()
	if started.IsZero() || started.After(at) {
		started = at
	}

	localTeam := snap.LocalTeam()
	outcome := Outcome(snap.Winner, localTeam)
	ended := started
	if outcome != domain.OutcomeUnknown {
		ended = at
	}

	match := &domain.Match{
		MatchID:         snap.MatchInfo.MatchID,
		GameMode:        snap.MatchInfo.GameMode,
		StartedAt:       started,
		EndedAt:         ended,
		DurationSeconds: int(ended.Sub(started).Seconds()),
		Outcome:         outcome,
		LocalTeam:       localTeam,
		CreatedAt:       at,
	}

	participants := make([]domain.MatchParticipant, 0, len(snap.Roster))
	for _, p := range snap.Roster {
		if p.AccountID == "" {
			continue
		}
		participants = append(participants, domain.MatchParticipant{
			MatchID:   match.MatchID,
			AccountID: p.AccountID,
			Name:      p.Name,
			Hero:      p.Hero,
			Team:      p.Team,
			Kills:     p.Kills,
			Deaths:    p.Deaths,
			Assists:   p.Assists,
			Level:     p.Level,
		})
	}

	created, err := s.matches.Record(ctx, match, participants)
	if err != nil {
		return nil, false, err
	}
	if !created {
		stored, err := s.matches.Get(ctx, match.MatchID)
		return stored, false, err
	}

	s.logger.Info().
		Str("match_id", match.MatchID).
		Str("outcome", match.Outcome).
		Int("participants", len(participants)).
		Msg("match recorded")
	return match, true, nil
}

// FinishFromSnapshot records the end of the match in snap. A match that was
// recorded earlier gets its missing result filled in.
func (s *MatchService) FinishFromSnapshot(ctx context.Context, snap host.Snapshot, winner string, at time.Time) (*domain.Match, error) {
	snap.Winner = winner

	match, created, err := s.RecordFromSnapshot(ctx, snap, at)
	if err != nil || created {
		return match, err
	}

	localTeam := match.LocalTeam
	if localTeam == "" {
		localTeam = snap.LocalTeam()
	}
	outcome := Outcome(winner, localTeam)
	if outcome == domain.OutcomeUnknown {
		return match, nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	at = at.UTC()
	duration := int(at.Sub(match.StartedAt).Seconds())
	if duration < 0 {
		duration = 0
	}
	changed, err := s.matches.Finalize(ctx, match.MatchID, outcome, at, duration)
	if err != nil {
		return nil, err
	}
	if changed {
		s.logger.Info().Str("match_id", match.MatchID).Str("outcome", outcome).Msg("match finalized")
	}
	return s.matches.Get(ctx, match.MatchID)
}

func (s *MatchService) GetMatch(ctx context.Context, matchID string) (*MatchDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	s.logger.Debug().Str("match_id", matchID).Msg("getting match")

	m, err := s.matches.GetWithParticipants(ctx, matchID)
	if err != nil {
		if !errors.Is(err, domain.ErrMatchNotFound) {
			s.logger.Error().Err(err).Str("match_id", matchID).Msg("failed to load match")
		}
		return nil, err
	}

	reviews, err := s.reviews.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	return &MatchDetail{
		Match:        m.Match,
		Participants: m.Participants,
		Reviews:      reviews,
	}, nil
}

// ListMatches returns recent matches, or the matches of accountID when set.
func (s *MatchService) ListMatches(ctx context.Context, accountID string, limit int) ([]domain.Match, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if limit <= 0 || limit > constants.MatchListLimit {
		limit = constants.MatchListLimit
	}
	if accountID != "" {
		return s.matches.ListByPlayer(ctx, accountID, limit)
	}
	return s.matches.ListRecent(ctx, limit)
}
