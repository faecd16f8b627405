package db

import (
	"context"
)

const deleteAllMatchParticipants = `-- name: DeleteAllMatchParticipants :exec
DELETE FROM match_participants
`

func (q *Queries) DeleteAllMatchParticipants(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllMatchParticipants)
	return err
}

const getMatchParticipant = `-- name: GetMatchParticipant :one
SELECT match_id, account_id, name, hero, team, kills, deaths, assists, level
FROM match_participants
WHERE match_id = ? AND account_id = ?
`

type GetMatchParticipantParams struct {
	MatchID   string
	AccountID string
}

func (q *Queries) GetMatchParticipant(ctx context.Context, arg GetMatchParticipantParams) (MatchParticipant, error) {
	row := q.db.QueryRowContext(ctx, getMatchParticipant, arg.MatchID, arg.AccountID)
	var i MatchParticipant
	err := row.Scan(
		&i.MatchID,
		&i.AccountID,
		&i.Name,
		&i.Hero,
		&i.Team,
		&i.Kills,
		&i.Deaths,
		&i.Assists,
		&i.Level,
	)
	return i, err
}

const insertMatchParticipant = `-- name: InsertMatchParticipant :exec
INSERT INTO match_participants (match_id, account_id, name, hero, team, kills, deaths, assists, level)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(match_id, account_id) DO NOTHING
`

type InsertMatchParticipantParams struct {
	MatchID   string
	AccountID string
	Name      string
	Hero      string
	Team      string
	Kills     int64
	Deaths    int64
	Assists   int64
	Level     int64
}

func (q *Queries) InsertMatchParticipant(ctx context.Context, arg InsertMatchParticipantParams) error {
	_, err := q.db.ExecContext(ctx, insertMatchParticipant,
		arg.MatchID,
		arg.AccountID,
		arg.Name,
		arg.Hero,
		arg.Team,
		arg.Kills,
		arg.Deaths,
		arg.Assists,
		arg.Level,
	)
	return err
}

const listAllMatchParticipants = `-- name: ListAllMatchParticipants :many
SELECT match_id, account_id, name, hero, team, kills, deaths, assists, level
FROM match_participants
ORDER BY match_id, account_id
`

func (q *Queries) ListAllMatchParticipants(ctx context.Context) ([]MatchParticipant, error) {
	rows, err := q.db.QueryContext(ctx, listAllMatchParticipants)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MatchParticipant
	for rows.Next() {
		var i MatchParticipant
		if err := rows.Scan(
			&i.MatchID,
			&i.AccountID,
			&i.Name,
			&i.Hero,
			&i.Team,
			&i.Kills,
			&i.Deaths,
			&i.Assists,
			&i.Level,
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

const listMatchParticipants = `-- name: ListMatchParticipants :many
SELECT match_id, account_id, name, hero, team, kills, deaths, assists, level
FROM match_participants
WHERE match_id = ?
ORDER BY team, account_id
`

func (q *Queries) ListMatchParticipants(ctx context.Context, matchID string) ([]MatchParticipant, error) {
	rows, err := q.db.QueryContext(ctx, listMatchParticipants, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MatchParticipant
	for rows.Next() {
		var i MatchParticipant
		if err := rows.Scan(
			&i.MatchID,
			&i.AccountID,
			&i.Name,
			&i.Hero,
			&i.Team,
			&i.Kills,
			&i.Deaths,
			&i.Assists,
			&i.Level,
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

const upsertMatchParticipant = `-- name: UpsertMatchParticipant :exec
INSERT INTO match_participants (match_id, account_id, name, hero, team, kills, deaths, assists, level)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(match_id, account_id) DO UPDATE SET
    name = excluded.name,
    hero = excluded.hero,
    team = excluded.team,
    kills = excluded.kills,
    deaths = excluded.deaths,
    assists = excluded.assists,
    level = excluded.level
`

type UpsertMatchParticipantParams struct {
	MatchID   string
	AccountID string
	Name      string
	Hero      string
	Team      string
	Kills     int64
	Deaths    int64
	Assists   int64
	Level     int64
}

func (q *Queries) UpsertMatchParticipant(ctx context.Context, arg UpsertMatchParticipantParams) error {
	_, err := q.db.ExecContext(ctx, upsertMatchParticipant,
		arg.MatchID,
		arg.AccountID,
		arg.Name,
		arg.Hero,
		arg.Team,
		arg.Kills,
		arg.Deaths,
		arg.Assists,
		arg.Level,
	)
	return err
}
