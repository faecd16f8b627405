package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"dota-review-tracker/internal/constants"
	"dota-review-tracker/internal/domain"
	"dota-review-tracker/internal/repository"

	"github.com/rs/zerolog"
)

type ReviewInput struct {
	MatchID    string `json:"match_id"`
	SubjectID  string `json:"subject_id"`
	ReviewerID string `json:"reviewer_id"`
	Score      int    `json:"score"`
	Comment    string `json:"comment"`
}

func (in ReviewInput) Validate() error {
	switch {
	case in.MatchID == "":
		return fmt.Errorf("%w: match id is required", domain.ErrInvalidReview)
	case in.SubjectID == "" || in.ReviewerID == "":
		return fmt.Errorf("%w: subject and reviewer are required", domain.ErrInvalidReview)
	case in.SubjectID == in.ReviewerID:
		return fmt.Errorf("%w: players cannot review themselves", domain.ErrInvalidReview)
	case in.Score < constants.MinReviewScore || in.Score > constants.MaxReviewScore:
		return fmt.Errorf("%w: score must be between %d and %d", domain.ErrInvalidReview, constants.MinReviewScore, constants.MaxReviewScore)
	case utf8.RuneCountInString(strings.TrimSpace(in.Comment)) > constants.MaxCommentLength:
		return fmt.Errorf("%w: comment longer than %d characters", domain.ErrInvalidReview, constants.MaxCommentLength)
	}
	return nil
}

// BoardEntry is one roster player with the local user's history of them.
type BoardEntry struct {
	AccountID   string               `json:"account_id"`
	Name        string               `json:"name"`
	NameHistory []string             `json:"name_history"`
	Team        string               `json:"team"`
	Hero        string               `json:"hero"`
	Rating      domain.RatingSummary `json:"rating"`
}

type ReviewService struct {
	reviews *repository.ReviewRepository
	players *repository.PlayerRepository
	matches *repository.MatchRepository
	logger  zerolog.Logger
}

func NewReviewService(reviews *repository.ReviewRepository, players *repository.PlayerRepository, matches *repository.MatchRepository, logger zerolog.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, players: players, matches: matches, logger: logger}
}

// Aggregate summarizes every review reviewerID has left for subjectID.
func (s *ReviewService) Aggregate(ctx context.Context, subjectID, reviewerID string) (domain.RatingSummary, error) {
	summary := domain.RatingSummary{SubjectID: subjectID, ReviewerID: reviewerID}

	reviews, err := s.reviews.ListBySubjectReviewer(ctx, subjectID, reviewerID)
	if err != nil {
		return summary, fmt.Errorf("failed to list reviews: %w", err)
	}
	if len(reviews) == 0 {
		return summary, nil
	}

	total := 0
	for _, r := range reviews {
		total += r.Score
	}
	last := reviews[len(reviews)-1]

	summary.HasHistory = true
	summary.Count = len(reviews)
	summary.AverageScore = float64(total) / float64(len(reviews))
	summary.LastScore = last.Score
	summary.LastComment = last.Comment
	return summary, nil
}

// SubmitReview stores a review and refreshes the subject's cached summary.
func (s *ReviewService) SubmitReview(ctx context.Context, in ReviewInput) (*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	in.Comment = strings.TrimSpace(in.Comment)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	match, err := s.matches.Get(ctx, in.MatchID)
	if err != nil {
		return nil, err
	}

	review := &domain.Review{
		MatchID:    in.MatchID,
		SubjectID:  in.SubjectID,
		ReviewerID: in.ReviewerID,
		Score:      in.Score,
		Comment:    in.Comment,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.reviews.Insert(ctx, review); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("review_id", review.ID).
		Str("match_id", review.MatchID).
		Str("subject_id", review.SubjectID).
		Int("score", review.Score).
		Msg("review submitted")

	if err := s.refreshSummary(ctx, match, in.SubjectID, in.ReviewerID); err != nil {
		s.logger.Warn().Err(err).Str("subject_id", in.SubjectID).Msg("failed to refresh player summary")
	}
	return review, nil
}

func (s *ReviewService) refreshSummary(ctx context.Context, match *domain.Match, subjectID, reviewerID string) error {
	_, err := s.players.Get(ctx, subjectID)
	if errors.Is(err, domain.ErrPlayerNotFound) {
		mp, perr := s.matches.GetParticipant(ctx, match.MatchID, subjectID)
		if perr != nil {
			return fmt.Errorf("no player row to cache summary on: %w", perr)
		}
		if err := s.players.Create(ctx, subjectID, mp.Name, match.StartedAt); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	summary, err := s.Aggregate(ctx, subjectID, reviewerID)
	if err != nil {
		return err
	}
	return s.players.UpdateRating(ctx, subjectID, summary)
}

// StrategyBoard aggregates the local user's history for every other roster
// player.
func (s *ReviewService) StrategyBoard(ctx context.Context, roster []domain.RosterEntry, localID string) ([]BoardEntry, error) {
	if localID == "" {
		return nil, domain.ErrLocalPlayerUnknown
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	board := make([]BoardEntry, 0, len(roster))
	for _, entry := range roster {
		if entry.AccountID == "" || entry.AccountID == localID {
			continue
		}

		be := BoardEntry{
			AccountID:   entry.AccountID,
			Name:        entry.Name,
			NameHistory: []string{},
			Team:        entry.Team,
			Hero:        entry.Hero,
		}
		if p, err := s.players.Get(ctx, entry.AccountID); err == nil {
			be.NameHistory = p.NameHistory
		}

		summary, err := s.Aggregate(ctx, entry.AccountID, localID)
		if err != nil {
			s.logger.Warn().Err(err).Str("account_id", entry.AccountID).Msg("failed to aggregate rating")
		}
		be.Rating = summary
		board = append(board, be)
	}
	return board, nil
}

// ListBySubject returns every review of a player, newest first.
func (s *ReviewService) ListBySubject(ctx context.Context, subjectID string) ([]domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.reviews.ListBySubject(ctx, subjectID)
}
