package db

import (
	"context"
	"encoding/json"
	"time"
)

const campaignColumns = `id, user_id, name, slug, description, genre, rule_system, tone_settings, player_count, status, settings, created_at, updated_at`

func scanCampaign(row interface{ Scan(dest ...any) error }) (Campaign, error) {
	var c Campaign
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.Slug,
		&c.Description,
		&c.Genre,
		&c.RuleSystem,
		&c.ToneSettings,
		&c.PlayerCount,
		&c.Status,
		&c.Settings,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

const getCampaignBySlug = `
SELECT ` + campaignColumns + `
FROM campaigns
WHERE user_id = $1 AND slug = $2
`

type GetCampaignBySlugParams struct {
	UserID int64
	Slug   string
}

func (q *Queries) GetCampaignBySlug(ctx context.Context, arg GetCampaignBySlugParams) (Campaign, error) {
	return scanCampaign(q.db.QueryRow(ctx, getCampaignBySlug, arg.UserID, arg.Slug))
}

const listCampaigns = `
SELECT ` + campaignColumns + `
FROM campaigns
WHERE user_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListCampaigns(ctx context.Context, userID int64) ([]Campaign, error) {
	rows, err := q.db.Query(ctx, listCampaigns, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := make([]Campaign, 0)
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

const campaignSlugExists = `
SELECT COUNT(*) FROM campaigns WHERE user_id = $1 AND slug = $2
`

type CampaignSlugExistsParams struct {
	UserID int64
	Slug   string
}

func (q *Queries) CampaignSlugExists(ctx context.Context, arg CampaignSlugExistsParams) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, campaignSlugExists, arg.UserID, arg.Slug).Scan(&count)
	return count, err
}

const createCampaign = `
INSERT INTO campaigns (user_id, name, slug, description, genre, rule_system, player_count, tone_settings, status)
VALUES ($1, $2, $3, $4, $5, COALESCE($6, '5e'), $7, COALESCE($8, '{}'::jsonb), 'setup')
RETURNING ` + campaignColumns

type CreateCampaignParams struct {
	UserID       int64
	Name         string
	Slug         string
	Description  *string
	Genre        *string
	RuleSystem   *string
	PlayerCount  *int32
	ToneSettings json.RawMessage
}

func (q *Queries) CreateCampaign(ctx context.Context, arg CreateCampaignParams) (Campaign, error) {
	return scanCampaign(q.db.QueryRow(ctx, createCampaign,
		arg.UserID,
		arg.Name,
		arg.Slug,
		arg.Description,
		arg.Genre,
		arg.RuleSystem,
		arg.PlayerCount,
		arg.ToneSettings,
	))
}

const updateCampaign = `
UPDATE campaigns
SET name = $3,
    description = $4,
    genre = COALESCE($5, genre),
    rule_system = COALESCE($6, rule_system),
    player_count = COALESCE($7, player_count),
    status = COALESCE($8, status),
    tone_settings = COALESCE($9, tone_settings),
    settings = COALESCE($10, settings),
    updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + campaignColumns

type UpdateCampaignParams struct {
	ID           int64
	UserID       int64
	Name         string
	Description  *string
	Genre        *string
	RuleSystem   *string
	PlayerCount  *int32
	Status       *string
	ToneSettings json.RawMessage
	Settings     json.RawMessage
}

func (q *Queries) UpdateCampaign(ctx context.Context, arg UpdateCampaignParams) (Campaign, error) {
	return scanCampaign(q.db.QueryRow(ctx, updateCampaign,
		arg.ID,
		arg.UserID,
		arg.Name,
		arg.Description,
		arg.Genre,
		arg.RuleSystem,
		arg.PlayerCount,
		arg.Status,
		arg.ToneSettings,
		arg.Settings,
	))
}

const completeCampaignSetup = `
UPDATE campaigns
SET genre = COALESCE($3, genre),
    player_count = COALESCE($4, player_count),
    tone_settings = COALESCE($5, tone_settings),
    status = 'active',
    updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + campaignColumns

type CompleteCampaignSetupParams struct {
	ID           int64
	UserID       int64
	Genre        *string
	PlayerCount  *int32
	ToneSettings json.RawMessage
}

func (q *Queries) CompleteCampaignSetup(ctx context.Context, arg CompleteCampaignSetupParams) (Campaign, error) {
	return scanCampaign(q.db.QueryRow(ctx, completeCampaignSetup,
		arg.ID,
		arg.UserID,
		arg.Genre,
		arg.PlayerCount,
		arg.ToneSettings,
	))
}

const deleteCampaign = `
DELETE FROM campaigns WHERE id = $1 AND user_id = $2
`

type DeleteCampaignParams struct {
	ID     int64
	UserID int64
}

func (q *Queries) DeleteCampaign(ctx context.Context, arg DeleteCampaignParams) error {
	_, err := q.db.Exec(ctx, deleteCampaign, arg.ID, arg.UserID)
	return err
}

const countNodesByType = `
SELECT COUNT(*) FROM nodes
WHERE campaign_id = $1 AND type = $2 AND deleted_at IS NULL
`

type CountNodesByTypeParams struct {
	CampaignID int64
	Type       string
}

func (q *Queries) CountNodesByType(ctx context.Context, arg CountNodesByTypeParams) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countNodesByType, arg.CampaignID, arg.Type).Scan(&count)
	return count, err
}

const countSessions = `
SELECT COUNT(*) FROM game_sessions WHERE campaign_id = $1
`

func (q *Queries) CountSessions(ctx context.Context, campaignID int64) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countSessions, campaignID).Scan(&count)
	return count, err
}

const listRecentNodes = `
SELECT id, type, name, summary, created_at
FROM nodes
WHERE campaign_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT $2
`

type RecentNodeRow struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Summary   *string   `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

func (q *Queries) ListRecentNodes(ctx context.Context, campaignID int64, limit int32) ([]RecentNodeRow, error) {
	rows, err := q.db.Query(ctx, listRecentNodes, campaignID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recent := make([]RecentNodeRow, 0)
	for rows.Next() {
		var r RecentNodeRow
		if err := rows.Scan(&r.ID, &r.Type, &r.Name, &r.Summary, &r.CreatedAt); err != nil {
			return nil, err
		}
		recent = append(recent, r)
	}
	return recent, rows.Err()
}
