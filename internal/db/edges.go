package db

import (
	"context"
	"encoding/json"
)

const edgeColumns = `id, campaign_id, source_node_id, target_node_id, type, label, description, strength, metadata, is_secret, created_at, updated_at`

func scanEdge(row interface{ Scan(dest ...any) error }) (Edge, error) {
	var e Edge
	err := row.Scan(
		&e.ID,
		&e.CampaignID,
		&e.SourceNodeID,
		&e.TargetNodeID,
		&e.Type,
		&e.Label,
		&e.Description,
		&e.Strength,
		&e.Metadata,
		&e.IsSecret,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

const createEdge = `
INSERT INTO edges (campaign_id, source_node_id, target_node_id, type, label, description, strength, metadata, is_secret)
VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, '{}'::jsonb), $9)
RETURNING ` + edgeColumns

type CreateEdgeParams struct {
	CampaignID   int64
	SourceNodeID string
	TargetNodeID string
	Type         string
	Label        string
	Description  *string
	Strength     *int32
	Metadata     json.RawMessage
	IsSecret     bool
}

func (q *Queries) CreateEdge(ctx context.Context, arg CreateEdgeParams) (Edge, error) {
	return scanEdge(q.db.QueryRow(ctx, createEdge,
		arg.CampaignID,
		arg.SourceNodeID,
		arg.TargetNodeID,
		arg.Type,
		arg.Label,
		arg.Description,
		arg.Strength,
		arg.Metadata,
		arg.IsSecret,
	))
}

const getEdge = `
SELECT ` + edgeColumns + `
FROM edges
WHERE campaign_id = $1 AND id = $2
`

type GetEdgeParams struct {
	CampaignID int64
	ID         int64
}

func (q *Queries) GetEdge(ctx context.Context, arg GetEdgeParams) (Edge, error) {
	return scanEdge(q.db.QueryRow(ctx, getEdge, arg.CampaignID, arg.ID))
}

const findEdge = `
SELECT ` + edgeColumns + `
FROM edges
WHERE campaign_id = $1 AND source_node_id = $2 AND target_node_id = $3 AND type = $4
`

type FindEdgeParams struct {
	CampaignID   int64
	SourceNodeID string
	TargetNodeID string
	Type         string
}

func (q *Queries) FindEdge(ctx context.Context, arg FindEdgeParams) (Edge, error) {
	return scanEdge(q.db.QueryRow(ctx, findEdge, arg.CampaignID, arg.SourceNodeID, arg.TargetNodeID, arg.Type))
}

const updateEdge = `
UPDATE edges
SET type = COALESCE($3, type),
    label = COALESCE($4, label),
    description = COALESCE($5, description),
    strength = COALESCE($6, strength),
    metadata = COALESCE($7, metadata),
    is_secret = COALESCE($8, is_secret),
    updated_at = now()
WHERE campaign_id = $1 AND id = $2
RETURNING ` + edgeColumns

type UpdateEdgeParams struct {
	CampaignID  int64
	ID          int64
	Type        *string
	Label       *string
	Description *string
	Strength    *int32
	Metadata    json.RawMessage
	IsSecret    *bool
}

func (q *Queries) UpdateEdge(ctx context.Context, arg UpdateEdgeParams) (Edge, error) {
	return scanEdge(q.db.QueryRow(ctx, updateEdge,
		arg.CampaignID,
		arg.ID,
		arg.Type,
		arg.Label,
		arg.Description,
		arg.Strength,
		arg.Metadata,
		arg.IsSecret,
	))
}

const deleteEdge = `
DELETE FROM edges
WHERE campaign_id = $1 AND id = $2
`

type DeleteEdgeParams struct {
	CampaignID int64
	ID         int64
}

func (q *Queries) DeleteEdge(ctx context.Context, arg DeleteEdgeParams) error {
	_, err := q.db.Exec(ctx, deleteEdge, arg.CampaignID, arg.ID)
	return err
}

const deleteEdgesForNode = `
DELETE FROM edges
WHERE campaign_id = $1 AND (source_node_id = $2 OR target_node_id = $2)
`

type DeleteEdgesForNodeParams struct {
	CampaignID int64
	NodeID     string
}

// DeleteEdgesForNode removes every edge touching the node in either role.
// Callers run this inside the same transaction that soft-deletes the node.
func (q *Queries) DeleteEdgesForNode(ctx context.Context, arg DeleteEdgesForNodeParams) error {
	_, err := q.db.Exec(ctx, deleteEdgesForNode, arg.CampaignID, arg.NodeID)
	return err
}

const deleteEdgesFromNodeByType = `
DELETE FROM edges
WHERE campaign_id = $1 AND source_node_id = $2 AND type = $3
`

type DeleteEdgesFromNodeByTypeParams struct {
	CampaignID   int64
	SourceNodeID string
	Type         string
}

func (q *Queries) DeleteEdgesFromNodeByType(ctx context.Context, arg DeleteEdgesFromNodeByTypeParams) error {
	_, err := q.db.Exec(ctx, deleteEdgesFromNodeByType, arg.CampaignID, arg.SourceNodeID, arg.Type)
	return err
}

const listOutgoingEdges = `
SELECT e.id, e.campaign_id, e.source_node_id, e.target_node_id, e.type, e.label, e.description, e.strength, e.metadata, e.is_secret, e.created_at, e.updated_at,
       n.id, n.type, n.subtype, n.name, n.slug
FROM edges e
JOIN nodes n ON n.id = e.target_node_id
WHERE e.campaign_id = $1 AND e.source_node_id = $2 AND n.deleted_at IS NULL
ORDER BY e.type, n.name
`

type ListOutgoingEdgesParams struct {
	CampaignID int64
	NodeID     string
}

func (q *Queries) ListOutgoingEdges(ctx context.Context, arg ListOutgoingEdgesParams) ([]OutgoingEdge, error) {
	rows, err := q.db.Query(ctx, listOutgoingEdges, arg.CampaignID, arg.NodeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	edges := make([]OutgoingEdge, 0)
	for rows.Next() {
		var out OutgoingEdge
		err := rows.Scan(
			&out.Edge.ID,
			&out.Edge.CampaignID,
			&out.Edge.SourceNodeID,
			&out.Edge.TargetNodeID,
			&out.Edge.Type,
			&out.Edge.Label,
			&out.Edge.Description,
			&out.Edge.Strength,
			&out.Edge.Metadata,
			&out.Edge.IsSecret,
			&out.Edge.CreatedAt,
			&out.Edge.UpdatedAt,
			&out.TargetNode.ID,
			&out.TargetNode.Type,
			&out.TargetNode.Subtype,
			&out.TargetNode.Name,
			&out.TargetNode.Slug,
		)
		if err != nil {
			return nil, err
		}
		edges = append(edges, out)
	}
	return edges, rows.Err()
}

const listIncomingEdges = `
SELECT e.id, e.campaign_id, e.source_node_id, e.target_node_id, e.type, e.label, e.description, e.strength, e.metadata, e.is_secret, e.created_at, e.updated_at,
       n.id, n.type, n.subtype, n.name, n.slug
FROM edges e
JOIN nodes n ON n.id = e.source_node_id
WHERE e.campaign_id = $1 AND e.target_node_id = $2 AND n.deleted_at IS NULL
ORDER BY e.type, n.name
`

type ListIncomingEdgesParams struct {
	CampaignID int64
	NodeID     string
}

func (q *Queries) ListIncomingEdges(ctx context.Context, arg ListIncomingEdgesParams) ([]IncomingEdge, error) {
	rows, err := q.db.Query(ctx, listIncomingEdges, arg.CampaignID, arg.NodeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	edges := make([]IncomingEdge, 0)
	for rows.Next() {
		var in IncomingEdge
		err := rows.Scan(
			&in.Edge.ID,
			&in.Edge.CampaignID,
			&in.Edge.SourceNodeID,
			&in.Edge.TargetNodeID,
			&in.Edge.Type,
			&in.Edge.Label,
			&in.Edge.Description,
			&in.Edge.Strength,
			&in.Edge.Metadata,
			&in.Edge.IsSecret,
			&in.Edge.CreatedAt,
			&in.Edge.UpdatedAt,
			&in.SourceNode.ID,
			&in.SourceNode.Type,
			&in.SourceNode.Subtype,
			&in.SourceNode.Name,
			&in.SourceNode.Slug,
		)
		if err != nil {
			return nil, err
		}
		edges = append(edges, in)
	}
	return edges, rows.Err()
}
