package db

import (
	"context"
	"time"
)

const deleteAllReviews = `-- name: DeleteAllReviews :exec
DELETE FROM reviews
`

func (q *Queries) DeleteAllReviews(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllReviews)
	return err
}

const insertReview = `-- name: InsertReview :exec
INSERT INTO reviews (id, match_id, subject_id, reviewer_id, score, comment, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type InsertReviewParams struct {
	ID         string
	MatchID    string
	SubjectID  string
	ReviewerID string
	Score      int64
	Comment    string
	CreatedAt  time.Time
}

func (q *Queries) InsertReview(ctx context.Context, arg InsertReviewParams) error {
	_, err := q.db.ExecContext(ctx, insertReview,
		arg.ID,
		arg.MatchID,
		arg.SubjectID,
		arg.ReviewerID,
		arg.Score,
		arg.Comment,
		arg.CreatedAt,
	)
	return err
}

const listAllReviews = `-- name: ListAllReviews :many
SELECT id, match_id, subject_id, reviewer_id, score, comment, created_at
FROM reviews
ORDER BY rowid
`

func (q *Queries) ListAllReviews(ctx context.Context) ([]Review, error) {
	rows, err := q.db.QueryContext(ctx, listAllReviews)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Review
	for rows.Next() {
		var i Review
		if err := rows.Scan(
			&i.ID,
			&i.MatchID,
			&i.SubjectID,
			&i.ReviewerID,
			&i.Score,
			&i.Comment,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listReviewsByMatch = `-- name: ListReviewsByMatch :many
SELECT id, match_id, subject_id, reviewer_id, score, comment, created_at
FROM reviews
WHERE match_id = ?
ORDER BY rowid
`

func (q *Queries) ListReviewsByMatch(ctx context.Context, matchID string) ([]Review, error) {
	rows, err := q.db.QueryContext(ctx, listReviewsByMatch, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Review
	for rows.Next() {
		var i Review
		if err := rows.Scan(
			&i.ID,
			&i.MatchID,
			&i.SubjectID,
			&i.ReviewerID,
			&i.Score,
			&i.Comment,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listReviewsBySubject = `-- name: ListReviewsBySubject :many
SELECT id, match_id, subject_id, reviewer_id, score, comment, created_at
FROM reviews
WHERE subject_id = ?
ORDER BY rowid DESC
`

func (q *Queries) ListReviewsBySubject(ctx context.Context, subjectID string) ([]Review, error) {
	rows, err := q.db.QueryContext(ctx, listReviewsBySubject, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Review
	for rows.Next() {
		var i Review
		if err := rows.Scan(
			&i.ID,
			&i.MatchID,
			&i.SubjectID,
			&i.ReviewerID,
			&i.Score,
			&i.Comment,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type ListReviewsBySubjectReviewerParams struct {
	SubjectID  string
	ReviewerID string
}

const listReviewsBySubjectReviewer = `-- name: ListReviewsBySubjectReviewer :many
SELECT id, match_id, subject_id, reviewer_id, score, comment, created_at
FROM reviews
WHERE subject_id = ? AND reviewer_id = ?
ORDER BY rowid
`

func (q *Queries) ListReviewsBySubjectReviewer(ctx context.Context, arg ListReviewsBySubjectReviewerParams) ([]Review, error) {
	rows, err := q.db.QueryContext(ctx, listReviewsBySubjectReviewer, arg.SubjectID, arg.ReviewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Review
	for rows.Next() {
		var i Review
		if err := rows.Scan(
			&i.ID,
			&i.MatchID,
			&i.SubjectID,
			&i.ReviewerID,
			&i.Score,
			&i.Comment,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertReview = `-- name: UpsertReview :exec
INSERT INTO reviews (id, match_id, subject_id, reviewer_id, score, comment, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    match_id = excluded.match_id,
    subject_id = excluded.subject_id,
    reviewer_id = excluded.reviewer_id,
    score = excluded.score,
    comment = excluded.comment,
    created_at = excluded.created_at
`

type UpsertReviewParams struct {
	ID         string
	MatchID    string
	SubjectID  string
	ReviewerID string
	Score      int64
	Comment    string
	CreatedAt  time.Time
}

func (q *Queries) UpsertReview(ctx context.Context, arg UpsertReviewParams) error {
	_, err := q.db.ExecContext(ctx, upsertReview,
		arg.ID,
		arg.MatchID,
		arg.SubjectID,
		arg.ReviewerID,
		arg.Score,
		arg.Comment,
		arg.CreatedAt,
	)
	return err
}
