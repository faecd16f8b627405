package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dota-review-tracker/internal/db"
	"dota-review-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

type ReviewRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewReviewRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *ReviewRepository {
	return &ReviewRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// Insert stores a new review, assigning an id when none is set. A second
// review for the same (match, subject, reviewer) returns ErrDuplicateReview.
func (r *ReviewRepository) Insert(ctx context.Context, review *domain.Review) error {
	if review.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
		review.ID = id
	}
	review.CreatedAt = review.CreatedAt.UTC()

	err := r.queries.InsertReview(ctx, db.InsertReviewParams{
		ID:         review.ID,
		MatchID:    review.MatchID,
		SubjectID:  review.SubjectID,
		ReviewerID: review.ReviewerID,
		Score:      int64(review.Score),
		Comment:    review.Comment,
		CreatedAt:  review.CreatedAt,
	})
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: match %s subject %s", domain.ErrDuplicateReview, review.MatchID, review.SubjectID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}
	return nil
}

// ListBySubjectReviewer returns reviews in insertion order.
func (r *ReviewRepository) ListBySubjectReviewer(ctx context.Context, subjectID, reviewerID string) ([]domain.Review, error) {
	reviews, err := r.queries.ListReviewsBySubjectReviewer(ctx, db.ListReviewsBySubjectReviewerParams{
		SubjectID:  subjectID,
		ReviewerID: reviewerID,
	})
	if err != nil {
		return nil, err
	}
	return toDomainReviews(reviews), nil
}

// ListBySubject returns every review of a player, newest first.
func (r *ReviewRepository) ListBySubject(ctx context.Context, subjectID string) ([]domain.Review, error) {
	reviews, err := r.queries.ListReviewsBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	return toDomainReviews(reviews), nil
}

func (r *ReviewRepository) ListByMatch(ctx context.Context, matchID string) ([]domain.Review, error) {
	reviews, err := r.queries.ListReviewsByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return toDomainReviews(reviews), nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
