package routes

import (
	"errors"
	"net/http"

	"github.com/grimoire-app/grimoire/backend/internal/db"
	"github.com/grimoire-app/grimoire/backend/internal/server/middleware"
	"github.com/grimoire-app/grimoire/backend/pkg/logger"
	"github.com/grimoire-app/grimoire/backend/pkg/taxonomy"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// GetNodesHandler returns the list handler for one node type.
func GetNodesHandler(nodeType taxonomy.NodeType) echo.HandlerFunc {
	return func(c echo.Context) error {
		type getNodesParams struct {
			CampaignSlug string `param:"campaign_slug" validate:"required"`
		}

		type getNodesResponse struct {
			Message string    `json:"message,omitempty"`
			Nodes   []db.Node `json:"nodes"`
		}

		params := new(getNodesParams)
		if err := c.Bind(params); err != nil {
			return c.JSON(http.StatusBadRequest, getNodesResponse{
				Message: "Invalid request body",
			})
		}
		if err := c.Validate(params); err != nil {
			return c.JSON(http.StatusBadRequest, getNodesResponse{
				Message: "Invalid request body",
			})
		}

		user := c.(*middleware.AppContext).User
		if user == nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}

		ctx := c.Request().Context()
		conn := c.(*middleware.AppContext).App.DBConn
		q := db.New(conn)

		campaign, err := campaignForUser(ctx, q, user.UserID, params.CampaignSlug)
		if err != nil {
			if errors.Is(err, errCampaignNotFound) {
				return c.JSON(http.StatusNotFound, getNodesResponse{
					Message: "Campaign not found",
				})
			}
			logger.Error("Failed to get campaign", "err", err)
			return c.JSON(http.StatusInternalServerError, getNodesResponse{
				Message: "Internal server error",
			})
		}

		nodes, err := q.ListNodesByType(ctx, db.ListNodesByTypeParams{
			CampaignID: campaign.ID,
			Type:       string(nodeType),
		})
		if err != nil {
			logger.Error("Failed to list nodes", "err", err)
			return c.JSON(http.StatusInternalServerError, getNodesResponse{
				Message: "Internal server error",
			})
		}

		return c.JSON(http.StatusOK, getNodesResponse{
			Nodes: nodes,
		})
	}
}

// GetNodeHandler returns the detail handler for one node type. Besides
// the node itself the response carries its tags, both edge directions
// and the type-specific related lists the detail pages are built from.
func GetNodeHandler(nodeType taxonomy.NodeType) echo.HandlerFunc {
	return func(c echo.Context) error {
		type getNodeParams struct {
			CampaignSlug string `param:"campaign_slug" validate:"required"`
			Slug         string `param:"slug" validate:"required"`
		}

		type getNodeResponse struct {
			Message       string            `json:"message,omitempty"`
			Node          *db.Node          `json:"node,omitempty"`
			Tags          []db.Tag          `json:"tags,omitempty"`
			OutgoingEdges []db.OutgoingEdge `json:"outgoing_edges,omitempty"`
			IncomingEdges []db.IncomingEdge `json:"incoming_edges,omitempty"`
			ChildPlaces   []db.Node         `json:"child_places,omitempty"`
			Residents     []db.Node         `json:"residents,omitempty"`
			Members       []db.Node         `json:"members,omitempty"`
			Allied        []db.Node         `json:"allied,omitempty"`
			Rivals        []db.Node         `json:"rivals,omitempty"`
		}

		params := new(getNodeParams)
		if err := c.Bind(params); err != nil {
			return c.JSON(http.StatusBadRequest, getNodeResponse{
				Message: "Invalid request body",
			})
		}
		if err := c.Validate(params); err != nil {
			return c.JSON(http.StatusBadRequest, getNodeResponse{
				Message: "Invalid request body",
			})
		}

		user := c.(*middleware.AppContext).User
		if user == nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}

		ctx := c.Request().Context()
		conn := c.(*middleware.AppContext).App.DBConn
		q := db.New(conn)

		campaign, err := campaignForUser(ctx, q, user.UserID, params.CampaignSlug)
		if err != nil {
			if errors.Is(err, errCampaignNotFound) {
				return c.JSON(http.StatusNotFound, getNodeResponse{
					Message: "Campaign not found",
				})
			}
			logger.Error("Failed to get campaign", "err", err)
			return c.JSON(http.StatusInternalServerError, getNodeResponse{
				Message: "Internal server error",
			})
		}

		node, err := q.GetNodeBySlug(ctx, db.GetNodeBySlugParams{
			CampaignID: campaign.ID,
			Type:       string(nodeType),
			Slug:       params.Slug,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, getNodeResponse{
					Message: "Entry not found",
				})
			}
			logger.Error("Failed to get node", "err", err)
			return c.JSON(http.StatusInternalServerError, getNodeResponse{
				Message: "Internal server error",
			})
		}

		tags, err := q.ListTagsForNode(ctx, node.ID)
		if err != nil {
			logger.Error("Failed to list node tags", "err", err)
			return c.JSON(http.StatusInternalServerError, getNodeResponse{
				Message: "Internal server error",
			})
		}

		outgoing, err := q.ListOutgoingEdges(ctx, db.ListOutgoingEdgesParams{
			CampaignID: campaign.ID,
			NodeID:     node.ID,
		})
		if err != nil {
			logger.Error("Failed to list outgoing edges", "err", err)
			return c.JSON(http.StatusInternalServerError, getNodeResponse{
				Message: "Internal server error",
			})
		}
		incoming, err := q.ListIncomingEdges(ctx, db.ListIncomingEdgesParams{
			CampaignID: campaign.ID,
			NodeID:     node.ID,
		})
		if err != nil {
			logger.Error("Failed to list incoming edges", "err", err)
			return c.JSON(http.StatusInternalServerError, getNodeResponse{
				Message: "Internal server error",
			})
		}

		resp := getNodeResponse{
			Node:          &node,
			Tags:          tags,
			OutgoingEdges: outgoing,
			IncomingEdges: incoming,
		}

		switch nodeType {
		case taxonomy.NodePlace:
			resp.ChildPlaces, err = q.ListNodesLinkedTo(ctx, db.ListNodesLinkedToParams{
				CampaignID:   campaign.ID,
				NodeType:     string(taxonomy.NodePlace),
				TargetNodeID: node.ID,
				EdgeType:     "located_in",
			})
			if err == nil {
				resp.Residents, err = q.ListNodesLinkedTo(ctx, db.ListNodesLinkedToParams{
					CampaignID:   campaign.ID,
					NodeType:     string(taxonomy.NodeCharacter),
					TargetNodeID: node.ID,
					EdgeType:     "lives_in",
				})
			}
		case taxonomy.NodeFaction:
			resp.Members, err = q.ListNodesLinkedTo(ctx, db.ListNodesLinkedToParams{
				CampaignID:   campaign.ID,
				NodeType:     string(taxonomy.NodeCharacter),
				TargetNodeID: node.ID,
				EdgeType:     "member_of",
			})
			if err == nil {
				resp.Allied, err = q.ListNodesRelatedEitherDirection(ctx, db.ListNodesRelatedEitherDirectionParams{
					CampaignID: campaign.ID,
					NodeType:   string(taxonomy.NodeFaction),
					NodeID:     node.ID,
					EdgeType:   "allied_with",
				})
			}
			if err == nil {
				resp.Rivals, err = q.ListNodesRelatedEitherDirection(ctx, db.ListNodesRelatedEitherDirectionParams{
					CampaignID: campaign.ID,
					NodeType:   string(taxonomy.NodeFaction),
					NodeID:     node.ID,
					EdgeType:   "rivals_with",
				})
			}
		}
		if err != nil {
			logger.Error("Failed to load related nodes", "err", err)
			return c.JSON(http.StatusInternalServerError, getNodeResponse{
				Message: "Internal server error",
			})
		}

		return c.JSON(http.StatusOK, resp)
	}
}

// GetNodeOptionsHandler returns the form vocabularies for one node type,
// the subtype list, confidence levels and the parent candidates used by
// the pickers.
func GetNodeOptionsHandler(nodeType taxonomy.NodeType) echo.HandlerFunc {
	return func(c echo.Context) error {
		type getNodeOptionsParams struct {
			CampaignSlug string `param:"campaign_slug" validate:"required"`
		}

		type getNodeOptionsResponse struct {
			Message          string            `json:"message,omitempty"`
			Subtypes         []taxonomy.Option `json:"subtypes"`
			ConfidenceLevels []taxonomy.Option `json:"confidence_levels"`
			ParentOptions    []db.NodeRef      `json:"parent_options,omitempty"`
		}

		params := new(getNodeOptionsParams)
		if err := c.Bind(params); err != nil {
			return c.JSON(http.StatusBadRequest, getNodeOptionsResponse{
				Message: "Invalid request body",
			})
		}
		if err := c.Validate(params); err != nil {
			return c.JSON(http.StatusBadRequest, getNodeOptionsResponse{
				Message: "Invalid request body",
			})
		}

		user := c.(*middleware.AppContext).User
		if user == nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}

		ctx := c.Request().Context()
		conn := c.(*middleware.AppContext).App.DBConn
		q := db.New(conn)

		campaign, err := campaignForUser(ctx, q, user.UserID, params.CampaignSlug)
		if err != nil {
			if errors.Is(err, errCampaignNotFound) {
				return c.JSON(http.StatusNotFound, getNodeOptionsResponse{
					Message: "Campaign not found",
				})
			}
			logger.Error("Failed to get campaign", "err", err)
			return c.JSON(http.StatusInternalServerError, getNodeOptionsResponse{
				Message: "Internal server error",
			})
		}

		resp := getNodeOptionsResponse{
			Subtypes:         taxonomy.Subtypes(nodeType),
			ConfidenceLevels: taxonomy.ConfidenceLevels(),
		}

		switch nodeType {
		case taxonomy.NodePlace, taxonomy.NodeFaction, taxonomy.NodeCharacter:
			resp.ParentOptions, err = q.ListNodeRefsBySubtypes(ctx, db.ListNodeRefsBySubtypesParams{
				CampaignID: campaign.ID,
				Type:       string(taxonomy.NodePlace),
				Subtypes:   taxonomy.ContainerPlaceSubtypes,
			})
		}
		if err != nil {
			logger.Error("Failed to list parent options", "err", err)
			return c.JSON(http.StatusInternalServerError, getNodeOptionsResponse{
				Message: "Internal server error",
			})
		}

		return c.JSON(http.StatusOK, resp)
	}
}
