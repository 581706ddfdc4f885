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

// GetNodeEdgesHandler lists both edge directions for a node.
func GetNodeEdgesHandler(c echo.Context) error {
	type getNodeEdgesParams struct {
		CampaignSlug string `param:"campaign_slug" validate:"required"`
		NodeID       string `param:"node_id" validate:"required"`
	}

	type getNodeEdgesResponse struct {
		Message       string            `json:"message,omitempty"`
		Node          *db.Node          `json:"node,omitempty"`
		OutgoingEdges []db.OutgoingEdge `json:"outgoing_edges"`
		IncomingEdges []db.IncomingEdge `json:"incoming_edges"`
	}

	params := new(getNodeEdgesParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getNodeEdgesResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getNodeEdgesResponse{
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
			return c.JSON(http.StatusNotFound, getNodeEdgesResponse{
				Message: "Campaign not found",
			})
		}
		logger.Error("Failed to get campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, getNodeEdgesResponse{
			Message: "Internal server error",
		})
	}

	node, err := q.GetNodeByID(ctx, db.GetNodeByIDParams{
		CampaignID: campaign.ID,
		ID:         params.NodeID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, getNodeEdgesResponse{
				Message: "Entry not found",
			})
		}
		logger.Error("Failed to get node", "err", err)
		return c.JSON(http.StatusInternalServerError, getNodeEdgesResponse{
			Message: "Internal server error",
		})
	}

	outgoing, err := q.ListOutgoingEdges(ctx, db.ListOutgoingEdgesParams{
		CampaignID: campaign.ID,
		NodeID:     node.ID,
	})
	if err != nil {
		logger.Error("Failed to list outgoing edges", "err", err)
		return c.JSON(http.StatusInternalServerError, getNodeEdgesResponse{
			Message: "Internal server error",
		})
	}
	incoming, err := q.ListIncomingEdges(ctx, db.ListIncomingEdgesParams{
		CampaignID: campaign.ID,
		NodeID:     node.ID,
	})
	if err != nil {
		logger.Error("Failed to list incoming edges", "err", err)
		return c.JSON(http.StatusInternalServerError, getNodeEdgesResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getNodeEdgesResponse{
		Node:          &node,
		OutgoingEdges: outgoing,
		IncomingEdges: incoming,
	})
}

// GetAvailableTargetsHandler lists every node except the one given, the
// relationship form offers these as targets, bucketed per type.
func GetAvailableTargetsHandler(c echo.Context) error {
	type getAvailableTargetsParams struct {
		CampaignSlug string `param:"campaign_slug" validate:"required"`
		NodeID       string `param:"node_id" validate:"required"`
	}

	type targetGroup struct {
		Type  string       `json:"type"`
		Label string       `json:"label"`
		Nodes []db.NodeRef `json:"nodes"`
	}

	type getAvailableTargetsResponse struct {
		Message string        `json:"message,omitempty"`
		Groups  []targetGroup `json:"groups"`
		Targets []db.NodeRef  `json:"targets"`
	}

	params := new(getAvailableTargetsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getAvailableTargetsResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getAvailableTargetsResponse{
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
			return c.JSON(http.StatusNotFound, getAvailableTargetsResponse{
				Message: "Campaign not found",
			})
		}
		logger.Error("Failed to get campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, getAvailableTargetsResponse{
			Message: "Internal server error",
		})
	}

	targets, err := q.ListNodeRefsExcluding(ctx, db.ListNodeRefsExcludingParams{
		CampaignID: campaign.ID,
		ExcludeID:  params.NodeID,
	})
	if err != nil {
		logger.Error("Failed to list available targets", "err", err)
		return c.JSON(http.StatusInternalServerError, getAvailableTargetsResponse{
			Message: "Internal server error",
		})
	}

	byType := make(map[string][]db.NodeRef)
	for _, target := range targets {
		byType[target.Type] = append(byType[target.Type], target)
	}
	groups := make([]targetGroup, 0, len(byType))
	for _, nodeType := range taxonomy.NodeTypes() {
		nodes := byType[string(nodeType)]
		if len(nodes) == 0 {
			continue
		}
		groups = append(groups, targetGroup{
			Type:  string(nodeType),
			Label: taxonomy.Label(string(nodeType)),
			Nodes: nodes,
		})
	}

	return c.JSON(http.StatusOK, getAvailableTargetsResponse{
		Groups:  groups,
		Targets: targets,
	})
}
