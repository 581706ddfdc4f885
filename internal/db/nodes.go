package db

import (
	"context"
	"encoding/json"
)

const nodeColumns = `id, campaign_id, type, subtype, name, slug, summary, content, metadata, confidence, is_secret, portrait_key, created_at, updated_at`

func scanNode(row interface{ Scan(dest ...any) error }) (Node, error) {
	var n Node
	err := row.Scan(
		&n.ID,
		&n.CampaignID,
		&n.Type,
		&n.Subtype,
		&n.Name,
		&n.Slug,
		&n.Summary,
		&n.Content,
		&n.Metadata,
		&n.Confidence,
		&n.IsSecret,
		&n.PortraitKey,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	return n, err
}

func collectNodes(q *Queries, ctx context.Context, sql string, args ...any) ([]Node, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	nodes := make([]Node, 0)
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

const createNode = `
INSERT INTO nodes (id, campaign_id, type, subtype, name, slug, summary, content, metadata, confidence, is_secret)
VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, '{}'::jsonb), COALESCE($9, '{}'::jsonb), $10, $11)
RETURNING ` + nodeColumns

type CreateNodeParams struct {
	ID         string
	CampaignID int64
	Type       string
	Subtype    *string
	Name       string
	Slug       string
	Summary    *string
	Content    json.RawMessage
	Metadata   json.RawMessage
	Confidence string
	IsSecret   bool
}

func (q *Queries) CreateNode(ctx context.Context, arg CreateNodeParams) (Node, error) {
	return scanNode(q.db.QueryRow(ctx, createNode,
		arg.ID,
		arg.CampaignID,
		arg.Type,
		arg.Subtype,
		arg.Name,
		arg.Slug,
		arg.Summary,
		arg.Content,
		arg.Metadata,
		arg.Confidence,
		arg.IsSecret,
	))
}

const getNodeBySlug = `
SELECT ` + nodeColumns + `
FROM nodes
WHERE campaign_id = $1 AND type = $2 AND slug = $3 AND deleted_at IS NULL
`

type GetNodeBySlugParams struct {
	CampaignID int64
	Type       string
	Slug       string
}

func (q *Queries) GetNodeBySlug(ctx context.Context, arg GetNodeBySlugParams) (Node, error) {
	return scanNode(q.db.QueryRow(ctx, getNodeBySlug, arg.CampaignID, arg.Type, arg.Slug))
}

const getNodeByID = `
SELECT ` + nodeColumns + `
FROM nodes
WHERE campaign_id = $1 AND id = $2 AND deleted_at IS NULL
`

type GetNodeByIDParams struct {
	CampaignID int64
	ID         string
}

func (q *Queries) GetNodeByID(ctx context.Context, arg GetNodeByIDParams) (Node, error) {
	return scanNode(q.db.QueryRow(ctx, getNodeByID, arg.CampaignID, arg.ID))
}

const listNodesByType = `
SELECT ` + nodeColumns + `
FROM nodes
WHERE campaign_id = $1 AND type = $2 AND deleted_at IS NULL
ORDER BY name
`

type ListNodesByTypeParams struct {
	CampaignID int64
	Type       string
}

func (q *Queries) ListNodesByType(ctx context.Context, arg ListNodesByTypeParams) ([]Node, error) {
	return collectNodes(q, ctx, listNodesByType, arg.CampaignID, arg.Type)
}

const listNodeRefsBySubtypes = `
SELECT id, type, subtype, name, slug
FROM nodes
WHERE campaign_id = $1 AND type = $2 AND subtype = ANY($3) AND deleted_at IS NULL
ORDER BY name
`

type ListNodeRefsBySubtypesParams struct {
	CampaignID int64
	Type       string
	Subtypes   []string
}

func (q *Queries) ListNodeRefsBySubtypes(ctx context.Context, arg ListNodeRefsBySubtypesParams) ([]NodeRef, error) {
	rows, err := q.db.Query(ctx, listNodeRefsBySubtypes, arg.CampaignID, arg.Type, arg.Subtypes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := make([]NodeRef, 0)
	for rows.Next() {
		var r NodeRef
		if err := rows.Scan(&r.ID, &r.Type, &r.Subtype, &r.Name, &r.Slug); err != nil {
			return nil, err
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

const listNodeRefsExcluding = `
SELECT id, type, subtype, name, slug
FROM nodes
WHERE campaign_id = $1 AND id <> $2 AND deleted_at IS NULL
ORDER BY type, name
`

type ListNodeRefsExcludingParams struct {
	CampaignID int64
	ExcludeID  string
}

func (q *Queries) ListNodeRefsExcluding(ctx context.Context, arg ListNodeRefsExcludingParams) ([]NodeRef, error) {
	rows, err := q.db.Query(ctx, listNodeRefsExcluding, arg.CampaignID, arg.ExcludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := make([]NodeRef, 0)
	for rows.Next() {
		var r NodeRef
		if err := rows.Scan(&r.ID, &r.Type, &r.Subtype, &r.Name, &r.Slug); err != nil {
			return nil, err
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

const updateNode = `
UPDATE nodes
SET subtype = $3,
    name = $4,
    slug = $5,
    summary = $6,
    content = COALESCE($7, '{}'::jsonb),
    metadata = COALESCE($8, '{}'::jsonb),
    confidence = $9,
    is_secret = $10,
    updated_at = now()
WHERE campaign_id = $1 AND id = $2 AND deleted_at IS NULL
RETURNING ` + nodeColumns

type UpdateNodeParams struct {
	CampaignID int64
	ID         string
	Subtype    *string
	Name       string
	Slug       string
	Summary    *string
	Content    json.RawMessage
	Metadata   json.RawMessage
	Confidence string
	IsSecret   bool
}

func (q *Queries) UpdateNode(ctx context.Context, arg UpdateNodeParams) (Node, error) {
	return scanNode(q.db.QueryRow(ctx, updateNode,
		arg.CampaignID,
		arg.ID,
		arg.Subtype,
		arg.Name,
		arg.Slug,
		arg.Summary,
		arg.Content,
		arg.Metadata,
		arg.Confidence,
		arg.IsSecret,
	))
}

const nodeSlugExists = `
SELECT COUNT(*) FROM nodes
WHERE campaign_id = $1 AND slug = $2 AND id <> $3 AND deleted_at IS NULL
`

type NodeSlugExistsParams struct {
	CampaignID int64
	Slug       string
	ExcludeID  string
}

func (q *Queries) NodeSlugExists(ctx context.Context, arg NodeSlugExistsParams) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, nodeSlugExists, arg.CampaignID, arg.Slug, arg.ExcludeID).Scan(&count)
	return count, err
}

const softDeleteNode = `
UPDATE nodes
SET deleted_at = now(), updated_at = now()
WHERE campaign_id = $1 AND id = $2 AND deleted_at IS NULL
`

type SoftDeleteNodeParams struct {
	CampaignID int64
	ID         string
}

func (q *Queries) SoftDeleteNode(ctx context.Context, arg SoftDeleteNodeParams) error {
	_, err := q.db.Exec(ctx, softDeleteNode, arg.CampaignID, arg.ID)
	return err
}

const setNodePortraitKey = `
UPDATE nodes
SET portrait_key = $3, updated_at = now()
WHERE campaign_id = $1 AND id = $2 AND deleted_at IS NULL
RETURNING ` + nodeColumns

type SetNodePortraitKeyParams struct {
	CampaignID  int64
	ID          string
	PortraitKey *string
}

func (q *Queries) SetNodePortraitKey(ctx context.Context, arg SetNodePortraitKeyParams) (Node, error) {
	return scanNode(q.db.QueryRow(ctx, setNodePortraitKey, arg.CampaignID, arg.ID, arg.PortraitKey))
}

const listNodesLinkedTo = `
SELECT ` + prefixedNodeColumns + `
FROM nodes n
JOIN edges e ON e.source_node_id = n.id
WHERE n.campaign_id = $1
  AND n.type = $2
  AND n.deleted_at IS NULL
  AND e.target_node_id = $3
  AND e.type = $4
ORDER BY n.name
`

const prefixedNodeColumns = `n.id, n.campaign_id, n.type, n.subtype, n.name, n.slug, n.summary, n.content, n.metadata, n.confidence, n.is_secret, n.portrait_key, n.created_at, n.updated_at`

type ListNodesLinkedToParams struct {
	CampaignID   int64
	NodeType     string
	TargetNodeID string
	EdgeType     string
}

// ListNodesLinkedTo returns nodes of a given type with an outgoing edge of
// the given edge type pointing at the target node. This is the single-hop
// lookup behind "places inside this place" and "members of this faction".
func (q *Queries) ListNodesLinkedTo(ctx context.Context, arg ListNodesLinkedToParams) ([]Node, error) {
	return collectNodes(q, ctx, listNodesLinkedTo, arg.CampaignID, arg.NodeType, arg.TargetNodeID, arg.EdgeType)
}

const listNodesRelatedEitherDirection = `
SELECT DISTINCT ` + prefixedNodeColumns + `
FROM nodes n
JOIN edges e ON (e.source_node_id = n.id AND e.target_node_id = $3)
             OR (e.target_node_id = n.id AND e.source_node_id = $3)
WHERE n.campaign_id = $1
  AND n.type = $2
  AND n.id <> $3
  AND n.deleted_at IS NULL
  AND e.type = $4
ORDER BY n.name
`

type ListNodesRelatedEitherDirectionParams struct {
	CampaignID int64
	NodeType   string
	NodeID     string
	EdgeType   string
}

// ListNodesRelatedEitherDirection returns nodes connected to the given node
// by an edge of the given type in either direction. Symmetric relations
// (allied_with, rivals_with) are stored as a single directed row, so both
// directions must be considered.
func (q *Queries) ListNodesRelatedEitherDirection(ctx context.Context, arg ListNodesRelatedEitherDirectionParams) ([]Node, error) {
	return collectNodes(q, ctx, listNodesRelatedEitherDirection, arg.CampaignID, arg.NodeType, arg.NodeID, arg.EdgeType)
}

const searchNodes = `
SELECT id, type, subtype, name, slug, summary, is_secret
FROM nodes
WHERE campaign_id = $1
  AND deleted_at IS NULL
  AND (name ILIKE '%' || $2 || '%' OR summary ILIKE '%' || $2 || '%')
  AND ($3::text IS NULL OR type = $3)
ORDER BY name
LIMIT 20
`

type SearchNodesParams struct {
	CampaignID int64
	Query      string
	Type       *string
}

type SearchNodeRow struct {
	ID       string
	Type     string
	Subtype  *string
	Name     string
	Slug     string
	Summary  *string
	IsSecret bool
}

func (q *Queries) SearchNodes(ctx context.Context, arg SearchNodesParams) ([]SearchNodeRow, error) {
	rows, err := q.db.Query(ctx, searchNodes, arg.CampaignID, arg.Query, arg.Type)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hits := make([]SearchNodeRow, 0)
	for rows.Next() {
		var r SearchNodeRow
		if err := rows.Scan(&r.ID, &r.Type, &r.Subtype, &r.Name, &r.Slug, &r.Summary, &r.IsSecret); err != nil {
			return nil, err
		}
		hits = append(hits, r)
	}
	return hits, rows.Err()
}
