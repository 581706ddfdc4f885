package db

import (
	"context"
	"encoding/json"
	"time"
)

const sessionColumns = `id, campaign_id, number, title, status, scheduled_at, played_at, plan, notes, recap, outcomes, created_at, updated_at`

func scanSession(row interface{ Scan(dest ...any) error }) (GameSession, error) {
	var s GameSession
	err := row.Scan(
		&s.ID,
		&s.CampaignID,
		&s.Number,
		&s.Title,
		&s.Status,
		&s.ScheduledAt,
		&s.PlayedAt,
		&s.Plan,
		&s.Notes,
		&s.Recap,
		&s.Outcomes,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

const listSessions = `
SELECT ` + sessionColumns + `
FROM game_sessions
WHERE campaign_id = $1
ORDER BY number ASC
`

func (q *Queries) ListSessions(ctx context.Context, campaignID int64) ([]GameSession, error) {
	rows, err := q.db.Query(ctx, listSessions, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]GameSession, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

const getSessionByNumber = `
SELECT ` + sessionColumns + `
FROM game_sessions
WHERE campaign_id = $1 AND number = $2
`

type GetSessionByNumberParams struct {
	CampaignID int64
	Number     int32
}

func (q *Queries) GetSessionByNumber(ctx context.Context, arg GetSessionByNumberParams) (GameSession, error) {
	return scanSession(q.db.QueryRow(ctx, getSessionByNumber, arg.CampaignID, arg.Number))
}

const sessionNumberExists = `
SELECT COUNT(*) FROM game_sessions
WHERE campaign_id = $1 AND number = $2 AND id <> $3
`

type SessionNumberExistsParams struct {
	CampaignID int64
	Number     int32
	ExcludeID  int64
}

func (q *Queries) SessionNumberExists(ctx context.Context, arg SessionNumberExistsParams) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, sessionNumberExists, arg.CampaignID, arg.Number, arg.ExcludeID).Scan(&count)
	return count, err
}

const nextSessionNumber = `
SELECT COALESCE(MAX(number), 0) + 1 FROM game_sessions
WHERE campaign_id = $1
`

func (q *Queries) NextSessionNumber(ctx context.Context, campaignID int64) (int32, error) {
	var number int32
	err := q.db.QueryRow(ctx, nextSessionNumber, campaignID).Scan(&number)
	return number, err
}

const createSession = `
INSERT INTO game_sessions (campaign_id, number, title, status, scheduled_at, played_at, plan, notes, recap, outcomes)
VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, '{}'::jsonb), $8, $9, COALESCE($10, '{}'::jsonb))
RETURNING ` + sessionColumns

type CreateSessionParams struct {
	CampaignID  int64
	Number      int32
	Title       *string
	Status      string
	ScheduledAt *time.Time
	PlayedAt    *time.Time
	Plan        json.RawMessage
	Notes       *string
	Recap       *string
	Outcomes    json.RawMessage
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) (GameSession, error) {
	return scanSession(q.db.QueryRow(ctx, createSession,
		arg.CampaignID,
		arg.Number,
		arg.Title,
		arg.Status,
		arg.ScheduledAt,
		arg.PlayedAt,
		arg.Plan,
		arg.Notes,
		arg.Recap,
		arg.Outcomes,
	))
}

const updateSession = `
UPDATE game_sessions
SET number = $3,
    title = $4,
    status = $5,
    scheduled_at = $6,
    played_at = $7,
    plan = COALESCE($8, plan),
    notes = $9,
    recap = $10,
    outcomes = COALESCE($11, outcomes),
    updated_at = now()
WHERE campaign_id = $1 AND id = $2
RETURNING ` + sessionColumns

type UpdateSessionParams struct {
	CampaignID  int64
	ID          int64
	Number      int32
	Title       *string
	Status      string
	ScheduledAt *time.Time
	PlayedAt    *time.Time
	Plan        json.RawMessage
	Notes       *string
	Recap       *string
	Outcomes    json.RawMessage
}

func (q *Queries) UpdateSession(ctx context.Context, arg UpdateSessionParams) (GameSession, error) {
	return scanSession(q.db.QueryRow(ctx, updateSession,
		arg.CampaignID,
		arg.ID,
		arg.Number,
		arg.Title,
		arg.Status,
		arg.ScheduledAt,
		arg.PlayedAt,
		arg.Plan,
		arg.Notes,
		arg.Recap,
		arg.Outcomes,
	))
}

const deleteSession = `
DELETE FROM game_sessions
WHERE campaign_id = $1 AND id = $2
`

type DeleteSessionParams struct {
	CampaignID int64
	ID         int64
}

func (q *Queries) DeleteSession(ctx context.Context, arg DeleteSessionParams) error {
	_, err := q.db.Exec(ctx, deleteSession, arg.CampaignID, arg.ID)
	return err
}

const getPreviousSession = `
SELECT ` + sessionColumns + `
FROM game_sessions
WHERE campaign_id = $1 AND number < $2
ORDER BY number DESC
LIMIT 1
`

type GetPreviousSessionParams struct {
	CampaignID int64
	Number     int32
}

func (q *Queries) GetPreviousSession(ctx context.Context, arg GetPreviousSessionParams) (GameSession, error) {
	return scanSession(q.db.QueryRow(ctx, getPreviousSession, arg.CampaignID, arg.Number))
}

const getNextSession = `
SELECT ` + sessionColumns + `
FROM game_sessions
WHERE campaign_id = $1 AND number > $2
ORDER BY number
LIMIT 1
`

type GetNextSessionParams struct {
	CampaignID int64
	Number     int32
}

func (q *Queries) GetNextSession(ctx context.Context, arg GetNextSessionParams) (GameSession, error) {
	return scanSession(q.db.QueryRow(ctx, getNextSession, arg.CampaignID, arg.Number))
}

const searchSessions = `
SELECT id, number, title, notes, recap
FROM game_sessions
WHERE campaign_id = $1
  AND (title ILIKE '%' || $2 || '%' OR notes ILIKE '%' || $2 || '%' OR recap ILIKE '%' || $2 || '%')
ORDER BY number DESC
LIMIT 10
`

type SearchSessionsParams struct {
	CampaignID int64
	Query      string
}

type SearchSessionRow struct {
	ID     int64
	Number int32
	Title  *string
	Notes  *string
	Recap  *string
}

func (q *Queries) SearchSessions(ctx context.Context, arg SearchSessionsParams) ([]SearchSessionRow, error) {
	rows, err := q.db.Query(ctx, searchSessions, arg.CampaignID, arg.Query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hits := make([]SearchSessionRow, 0)
	for rows.Next() {
		var r SearchSessionRow
		if err := rows.Scan(&r.ID, &r.Number, &r.Title, &r.Notes, &r.Recap); err != nil {
			return nil, err
		}
		hits = append(hits, r)
	}
	return hits, rows.Err()
}
