package routes

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/grimoire-app/grimoire/backend/internal/db"
	"github.com/grimoire-app/grimoire/backend/pkg/catalog"
	"github.com/grimoire-app/grimoire/backend/pkg/taxonomy"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var errCampaignNotFound = errors.New("campaign not found")

// isUniqueViolation reports whether err is a Postgres unique index
// violation. The unique indexes back the duplicate pre-checks, so a
// concurrent insert surfaces here instead of as a plain query error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// campaignForUser resolves a campaign by slug scoped to its owner. Every
// campaign-scoped handler goes through this, so a campaign belonging to
// another user is indistinguishable from a missing one.
func campaignForUser(ctx context.Context, q *db.Queries, userID int64, slug string) (db.Campaign, error) {
	campaign, err := q.GetCampaignBySlug(ctx, db.GetCampaignBySlugParams{
		UserID: userID,
		Slug:   slug,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return db.Campaign{}, errCampaignNotFound
		}
		return db.Campaign{}, err
	}
	return campaign, nil
}

// metadataEdgeTypes maps metadata keys that reference other nodes to the
// edge type that mirrors them in the graph.
var metadataEdgeTypes = map[taxonomy.NodeType]map[string]string{
	taxonomy.NodePlace:     {"parent_id": "located_in"},
	taxonomy.NodeCharacter: {"location_id": "lives_in"},
	taxonomy.NodeFaction:   {"headquarters_id": "headquartered_in"},
}

// syncMetadataEdges rewrites the mirror edges for a node after its metadata
// changed. For each mapped key the previous edges of that type are dropped
// and a fresh edge is created when the key still points at a node.
func syncMetadataEdges(ctx context.Context, q *db.Queries, node db.Node) error {
	keys := metadataEdgeTypes[taxonomy.NodeType(node.Type)]
	if len(keys) == 0 {
		return nil
	}

	var metadata map[string]any
	if len(node.Metadata) > 0 {
		if err := json.Unmarshal(node.Metadata, &metadata); err != nil {
			return err
		}
	}

	for key, edgeType := range keys {
		err := q.DeleteEdgesFromNodeByType(ctx, db.DeleteEdgesFromNodeByTypeParams{
			CampaignID:   node.CampaignID,
			SourceNodeID: node.ID,
			Type:         edgeType,
		})
		if err != nil {
			return err
		}

		targetID, ok := metadata[key].(string)
		if !ok || targetID == "" || targetID == node.ID {
			continue
		}
		if _, err := q.GetNodeByID(ctx, db.GetNodeByIDParams{
			CampaignID: node.CampaignID,
			ID:         targetID,
		}); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return err
		}

		_, err = q.CreateEdge(ctx, db.CreateEdgeParams{
			CampaignID:   node.CampaignID,
			SourceNodeID: node.ID,
			TargetNodeID: targetID,
			Type:         edgeType,
			Label:        catalog.LabelFor(edgeType),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
