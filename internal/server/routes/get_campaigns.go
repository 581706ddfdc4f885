package routes

import (
	"errors"
	"net/http"

	"github.com/grimoire-app/grimoire/backend/internal/db"
	"github.com/grimoire-app/grimoire/backend/internal/server/middleware"
	"github.com/grimoire-app/grimoire/backend/pkg/logger"
	"github.com/grimoire-app/grimoire/backend/pkg/taxonomy"

	"github.com/labstack/echo/v4"
)

// GetCampaignsHandler lists the campaigns owned by the requesting user.
func GetCampaignsHandler(c echo.Context) error {
	type getCampaignsResponse struct {
		Message   string        `json:"message,omitempty"`
		Campaigns []db.Campaign `json:"campaigns"`
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	campaigns, err := q.ListCampaigns(ctx, user.UserID)
	if err != nil {
		logger.Error("Failed to list campaigns", "err", err)
		return c.JSON(http.StatusInternalServerError, getCampaignsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getCampaignsResponse{
		Campaigns: campaigns,
	})
}

// GetCampaignHandler returns a single campaign with its dashboard counts
// and most recently updated entries.
func GetCampaignHandler(c echo.Context) error {
	type getCampaignParams struct {
		Slug string `param:"campaign_slug" validate:"required"`
	}

	type getCampaignResponse struct {
		Message        string             `json:"message,omitempty"`
		Campaign       *db.Campaign       `json:"campaign,omitempty"`
		NodeCounts     map[string]int64   `json:"node_counts,omitempty"`
		SessionCount   int64              `json:"session_count"`
		RecentNodes    []db.RecentNodeRow `json:"recent_nodes,omitempty"`
		LatestSessions []db.GameSession   `json:"latest_sessions,omitempty"`
	}

	params := new(getCampaignParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getCampaignResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getCampaignResponse{
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

	campaign, err := campaignForUser(ctx, q, user.UserID, params.Slug)
	if err != nil {
		if errors.Is(err, errCampaignNotFound) {
			return c.JSON(http.StatusNotFound, getCampaignResponse{
				Message: "Campaign not found",
			})
		}
		logger.Error("Failed to get campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, getCampaignResponse{
			Message: "Internal server error",
		})
	}

	counts := make(map[string]int64, len(taxonomy.NodeTypes()))
	for _, nodeType := range taxonomy.NodeTypes() {
		count, err := q.CountNodesByType(ctx, db.CountNodesByTypeParams{
			CampaignID: campaign.ID,
			Type:       string(nodeType),
		})
		if err != nil {
			logger.Error("Failed to count nodes", "err", err)
			return c.JSON(http.StatusInternalServerError, getCampaignResponse{
				Message: "Internal server error",
			})
		}
		counts[taxonomy.Plural(string(nodeType))] = count
	}

	sessionCount, err := q.CountSessions(ctx, campaign.ID)
	if err != nil {
		logger.Error("Failed to count sessions", "err", err)
		return c.JSON(http.StatusInternalServerError, getCampaignResponse{
			Message: "Internal server error",
		})
	}

	recent, err := q.ListRecentNodes(ctx, campaign.ID, 5)
	if err != nil {
		logger.Error("Failed to list recent nodes", "err", err)
		return c.JSON(http.StatusInternalServerError, getCampaignResponse{
			Message: "Internal server error",
		})
	}

	sessions, err := q.ListSessions(ctx, campaign.ID)
	if err != nil {
		logger.Error("Failed to list sessions", "err", err)
		return c.JSON(http.StatusInternalServerError, getCampaignResponse{
			Message: "Internal server error",
		})
	}
	// ListSessions returns play order; the dashboard shows newest first.
	if len(sessions) > 5 {
		sessions = sessions[len(sessions)-5:]
	}
	for i, j := 0, len(sessions)-1; i < j; i, j = i+1, j-1 {
		sessions[i], sessions[j] = sessions[j], sessions[i]
	}

	return c.JSON(http.StatusOK, getCampaignResponse{
		Campaign:       &campaign,
		NodeCounts:     counts,
		SessionCount:   sessionCount,
		RecentNodes:    recent,
		LatestSessions: sessions,
	})
}
