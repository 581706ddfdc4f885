package db

import "context"

const tagColumns = `id, campaign_id, name, color, created_at`

func scanTag(row interface{ Scan(dest ...any) error }) (Tag, error) {
	var t Tag
	err := row.Scan(&t.ID, &t.CampaignID, &t.Name, &t.Color, &t.CreatedAt)
	return t, err
}

const listTags = `
SELECT ` + tagColumns + `
FROM tags
WHERE campaign_id = $1
ORDER BY name
`

func (q *Queries) ListTags(ctx context.Context, campaignID int64) ([]Tag, error) {
	rows, err := q.db.Query(ctx, listTags, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]Tag, 0)
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

const getTag = `
SELECT ` + tagColumns + `
FROM tags
WHERE campaign_id = $1 AND id = $2
`

type GetTagParams struct {
	CampaignID int64
	ID         int64
}

func (q *Queries) GetTag(ctx context.Context, arg GetTagParams) (Tag, error) {
	return scanTag(q.db.QueryRow(ctx, getTag, arg.CampaignID, arg.ID))
}

const createTag = `
INSERT INTO tags (campaign_id, name, color)
VALUES ($1, $2, $3)
ON CONFLICT (campaign_id, name) DO UPDATE SET color = EXCLUDED.color
RETURNING ` + tagColumns

type CreateTagParams struct {
	CampaignID int64
	Name       string
	Color      *string
}

func (q *Queries) CreateTag(ctx context.Context, arg CreateTagParams) (Tag, error) {
	return scanTag(q.db.QueryRow(ctx, createTag, arg.CampaignID, arg.Name, arg.Color))
}

const deleteTag = `
DELETE FROM tags
WHERE campaign_id = $1 AND id = $2
`

type DeleteTagParams struct {
	CampaignID int64
	ID         int64
}

func (q *Queries) DeleteTag(ctx context.Context, arg DeleteTagParams) error {
	_, err := q.db.Exec(ctx, deleteTag, arg.CampaignID, arg.ID)
	return err
}

const attachTag = `
INSERT INTO node_tags (node_id, tag_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`

type AttachTagParams struct {
	NodeID string
	TagID  int64
}

func (q *Queries) AttachTag(ctx context.Context, arg AttachTagParams) error {
	_, err := q.db.Exec(ctx, attachTag, arg.NodeID, arg.TagID)
	return err
}

const detachTag = `
DELETE FROM node_tags
WHERE node_id = $1 AND tag_id = $2
`

type DetachTagParams struct {
	NodeID string
	TagID  int64
}

func (q *Queries) DetachTag(ctx context.Context, arg DetachTagParams) error {
	_, err := q.db.Exec(ctx, detachTag, arg.NodeID, arg.TagID)
	return err
}

const listTagsForNode = `
SELECT t.id, t.campaign_id, t.name, t.color, t.created_at
FROM tags t
JOIN node_tags nt ON nt.tag_id = t.id
WHERE nt.node_id = $1
ORDER BY t.name
`

func (q *Queries) ListTagsForNode(ctx context.Context, nodeID string) ([]Tag, error) {
	rows, err := q.db.Query(ctx, listTagsForNode, nodeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]Tag, 0)
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

const deleteNodeTagLinks = `
DELETE FROM node_tags
WHERE node_id = $1
`

func (q *Queries) DeleteNodeTagLinks(ctx context.Context, nodeID string) error {
	_, err := q.db.Exec(ctx, deleteNodeTagLinks, nodeID)
	return err
}
