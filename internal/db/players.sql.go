package db

import (
	"context"
	"time"
)

const deleteAllPlayers = `-- name: DeleteAllPlayers :exec
DELETE FROM players
`

func (q *Queries) DeleteAllPlayers(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllPlayers)
	return err
}

const getPlayer = `-- name: GetPlayer :one
SELECT account_id, name, name_history, first_seen, last_seen, average_score, review_count, last_score, last_comment
FROM players
WHERE account_id = ?
`

func (q *Queries) GetPlayer(ctx context.Context, accountID string) (Player, error) {
	row := q.db.QueryRowContext(ctx, getPlayer, accountID)
	var i Player
	err := row.Scan(
		&i.AccountID,
		&i.Name,
		&i.NameHistory,
		&i.FirstSeen,
		&i.LastSeen,
		&i.AverageScore,
		&i.ReviewCount,
		&i.LastScore,
		&i.LastComment,
	)
	return i, err
}

const insertPlayer = `-- name: InsertPlayer :exec
INSERT INTO players (account_id, name, name_history, first_seen, last_seen, average_score, review_count, last_score, last_comment)
VALUES (?, ?, ?, ?, ?, 0, 0, 0, '')
`

type InsertPlayerParams struct {
	AccountID   string
	Name        string
	NameHistory string
	FirstSeen   time.Time
	LastSeen    time.Time
}

func (q *Queries) InsertPlayer(ctx context.Context, arg InsertPlayerParams) error {
	_, err := q.db.ExecContext(ctx, insertPlayer,
		arg.AccountID,
		arg.Name,
		arg.NameHistory,
		arg.FirstSeen,
		arg.LastSeen,
	)
	return err
}

const listPlayers = `-- name: ListPlayers :many
SELECT account_id, name, name_history, first_seen, last_seen, average_score, review_count, last_score, last_comment
FROM players
ORDER BY account_id
`

func (q *Queries) ListPlayers(ctx context.Context) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, listPlayers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Player
	for rows.Next() {
		var i Player
		if err := rows.Scan(
			&i.AccountID,
			&i.Name,
			&i.NameHistory,
			&i.FirstSeen,
			&i.LastSeen,
			&i.AverageScore,
			&i.ReviewCount,
			&i.LastScore,
			&i.LastComment,
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

const searchPlayers = `-- name: SearchPlayers :many
SELECT account_id, name, name_history, first_seen, last_seen, average_score, review_count, last_score, last_comment
FROM players
WHERE name LIKE ? ESCAPE '\'
   OR EXISTS (
       SELECT 1 FROM json_each(CASE WHEN json_valid(players.name_history) THEN players.name_history ELSE '[]' END) AS h
       WHERE h.value LIKE ? ESCAPE '\'
   )
ORDER BY last_seen DESC
LIMIT ?
`

type SearchPlayersParams struct {
	Name        string
	NameHistory string
	Limit       int64
}

func (q *Queries) SearchPlayers(ctx context.Context, arg SearchPlayersParams) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, searchPlayers, arg.Name, arg.NameHistory, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Player
	for rows.Next() {
		var i Player
		if err := rows.Scan(
			&i.AccountID,
			&i.Name,
			&i.NameHistory,
			&i.FirstSeen,
			&i.LastSeen,
			&i.AverageScore,
			&i.ReviewCount,
			&i.LastScore,
			&i.LastComment,
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

const updatePlayerRating = `-- name: UpdatePlayerRating :exec
UPDATE players
SET average_score = ?, review_count = ?, last_score = ?, last_comment = ?
WHERE account_id = ?
`

type UpdatePlayerRatingParams struct {
	AverageScore float64
	ReviewCount  int64
	LastScore    int64
	LastComment  string
	AccountID    string
}

func (q *Queries) UpdatePlayerRating(ctx context.Context, arg UpdatePlayerRatingParams) error {
	_, err := q.db.ExecContext(ctx, updatePlayerRating,
		arg.AverageScore,
		arg.ReviewCount,
		arg.LastScore,
		arg.LastComment,
		arg.AccountID,
	)
	return err
}

const updatePlayerSeen = `-- name: UpdatePlayerSeen :exec
UPDATE players
SET name = ?, name_history = ?, last_seen = ?
WHERE account_id = ?
`

type UpdatePlayerSeenParams struct {
	Name        string
	NameHistory string
	LastSeen    time.Time
	AccountID   string
}

func (q *Queries) UpdatePlayerSeen(ctx context.Context, arg UpdatePlayerSeenParams) error {
	_, err := q.db.ExecContext(ctx, updatePlayerSeen,
		arg.Name,
		arg.NameHistory,
		arg.LastSeen,
		arg.AccountID,
	)
	return err
}

const upsertPlayer = `-- name: UpsertPlayer :exec
INSERT INTO players (account_id, name, name_history, first_seen, last_seen, average_score, review_count, last_score, last_comment)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(account_id) DO UPDATE SET
    name = excluded.name,
    name_history = excluded.name_history,
    first_seen = excluded.first_seen,
    last_seen = excluded.last_seen,
    average_score = excluded.average_score,
    review_count = excluded.review_count,
    last_score = excluded.last_score,
    last_comment = excluded.last_comment
`

type UpsertPlayerParams struct {
	AccountID    string
	Name         string
	NameHistory  string
	FirstSeen    time.Time
	LastSeen     time.Time
	AverageScore float64
	ReviewCount  int64
	LastScore    int64
	LastComment  string
}

func (q *Queries) UpsertPlayer(ctx context.Context, arg UpsertPlayerParams) error {
	_, err := q.db.ExecContext(ctx, upsertPlayer,
		arg.AccountID,
		arg.Name,
		arg.NameHistory,
		arg.FirstSeen,
		arg.LastSeen,
		arg.AverageScore,
		arg.ReviewCount,
		arg.LastScore,
		arg.LastComment,
	)
	return err
}
