package db

import (
	"context"
	"time"
)

const deleteAllMatches = `-- name: DeleteAllMatches :exec
DELETE FROM matches
`

func (q *Queries) DeleteAllMatches(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllMatches)
	return err
}

const finalizeMatch = `-- name: FinalizeMatch :execrows
UPDATE matches
SET outcome = ?, ended_at = ?, duration_seconds = ?
WHERE match_id = ? AND outcome = 'unknown'
`

type FinalizeMatchParams struct {
	Outcome         string
	EndedAt         time.Time
	DurationSeconds int64
	MatchID         string
}

func (q *Queries) FinalizeMatch(ctx context.Context, arg FinalizeMatchParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, finalizeMatch,
		arg.Outcome,
		arg.EndedAt,
		arg.DurationSeconds,
		arg.MatchID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getMatch = `-- name: GetMatch :one
SELECT match_id, game_mode, started_at, ended_at, duration_seconds, outcome, local_team, created_at
FROM matches
WHERE match_id = ?
`

func (q *Queries) GetMatch(ctx context.Context, matchID string) (Match, error) {
	row := q.db.QueryRowContext(ctx, getMatch, matchID)
	var i Match
	err := row.Scan(
		&i.MatchID,
		&i.GameMode,
		&i.StartedAt,
		&i.EndedAt,
		&i.DurationSeconds,
		&i.Outcome,
		&i.LocalTeam,
		&i.CreatedAt,
	)
	return i, err
}

const insertMatch = `-- name: InsertMatch :execrows
INSERT INTO matches (match_id, game_mode, started_at, ended_at, duration_seconds, outcome, local_team, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(match_id) DO NOTHING
`

type InsertMatchParams struct {
	MatchID         string
	GameMode        string
	StartedAt       time.Time
	EndedAt         time.Time
	DurationSeconds int64
	Outcome         string
	LocalTeam       string
	CreatedAt       time.Time
}

func (q *Queries) InsertMatch(ctx context.Context, arg InsertMatchParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, insertMatch,
		arg.MatchID,
		arg.GameMode,
		arg.StartedAt,
		arg.EndedAt,
		arg.DurationSeconds,
		arg.Outcome,
		arg.LocalTeam,
		arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listMatches = `-- name: ListMatches :many
SELECT match_id, game_mode, started_at, ended_at, duration_seconds, outcome, local_team, created_at
FROM matches
ORDER BY started_at, match_id
`

func (q *Queries) ListMatches(ctx context.Context) ([]Match, error) {
	rows, err := q.db.QueryContext(ctx, listMatches)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Match
	for rows.Next() {
		var i Match
		if err := rows.Scan(
			&i.MatchID,
			&i.GameMode,
			&i.StartedAt,
			&i.EndedAt,
			&i.DurationSeconds,
			&i.Outcome,
			&i.LocalTeam,
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

const listMatchesByPlayer = `-- name: ListMatchesByPlayer :many
SELECT m.match_id, m.game_mode, m.started_at, m.ended_at, m.duration_seconds, m.outcome, m.local_team, m.created_at
FROM matches m
JOIN match_participants mp ON mp.match_id = m.match_id
WHERE mp.account_id = ?
ORDER BY m.started_at DESC
LIMIT ?
`

type ListMatchesByPlayerParams struct {
	AccountID string
	Limit     int64
}

func (q *Queries) ListMatchesByPlayer(ctx context.Context, arg ListMatchesByPlayerParams) ([]Match, error) {
	rows, err := q.db.QueryContext(ctx, listMatchesByPlayer, arg.AccountID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Match
	for rows.Next() {
		var i Match
		if err := rows.Scan(
			&i.MatchID,
			&i.GameMode,
			&i.StartedAt,
			&i.EndedAt,
			&i.DurationSeconds,
			&i.Outcome,
			&i.LocalTeam,
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

const listRecentMatches = `-- name: ListRecentMatches :many
SELECT match_id, game_mode, started_at, ended_at, duration_seconds, outcome, local_team, created_at
FROM matches
ORDER BY started_at DESC, match_id DESC
LIMIT ?
`

func (q *Queries) ListRecentMatches(ctx context.Context, limit int64) ([]Match, error) {
	rows, err := q.db.QueryContext(ctx, listRecentMatches, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Match
	for rows.Next() {
		var i Match
		if err := rows.Scan(
			&i.MatchID,
			&i.GameMode,
			&i.StartedAt,
			&i.EndedAt,
			&i.DurationSeconds,
			&i.Outcome,
			&i.LocalTeam,
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

const upsertMatch = `-- name: UpsertMatch :exec
INSERT INTO matches (match_id, game_mode, started_at, ended_at, duration_seconds, outcome, local_team, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(match_id) DO UPDATE SET
    game_mode = excluded.game_mode,
    started_at = excluded.started_at,
    ended_at = excluded.ended_at,
    duration_seconds = excluded.duration_seconds,
    outcome = excluded.outcome,
    local_team = excluded.local_team,
    created_at = excluded.created_at
`

type UpsertMatchParams struct {
	MatchID         string
	GameMode        string
	StartedAt       time.Time
	EndedAt         time.Time
	DurationSeconds int64
	Outcome         string
	LocalTeam       string
	CreatedAt       time.Time
}

func (q *Queries) UpsertMatch(ctx context.Context, arg UpsertMatchParams) error {
	_, err := q.db.ExecContext(ctx, upsertMatch,
		arg.MatchID,
		arg.GameMode,
		arg.StartedAt,
		arg.EndedAt,
		arg.DurationSeconds,
		arg.Outcome,
		arg.LocalTeam,
		arg.CreatedAt,
	)
	return err
}
