package routes

import (
	"errors"
	"net/http"

	"github.com/grimoire-app/grimoire/backend/internal/db"
	"github.com/grimoire-app/grimoire/backend/internal/server/middleware"
	"github.com/grimoire-app/grimoire/backend/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// DeleteEdgeHandler removes a single edge. Mirror edges are independent
// rows, deleting one direction leaves the other in place.
func DeleteEdgeHandler(c echo.Context) error {
	type deleteEdgeParams struct {
		CampaignSlug string `param:"campaign_slug" validate:"required"`
		EdgeID       int64  `param:"edge_id" validate:"required,numeric"`
	}

	type deleteEdgeResponse struct {
		Message string `json:"message"`
	}

	params := new(deleteEdgeParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteEdgeResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteEdgeResponse{
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
			return c.JSON(http.StatusNotFound, deleteEdgeResponse{
				Message: "Campaign not found",
			})
		}
		logger.Error("Failed to get campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, deleteEdgeResponse{
			Message: "Internal server error",
		})
	}

	_, err = q.GetEdge(ctx, db.GetEdgeParams{
		CampaignID: campaign.ID,
		ID:         params.EdgeID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, deleteEdgeResponse{
				Message: "Relationship not found",
			})
		}
		logger.Error("Failed to get edge", "err", err)
		return c.JSON(http.StatusInternalServerError, deleteEdgeResponse{
			Message: "Internal server error",
		})
	}

	err = q.DeleteEdge(ctx, db.DeleteEdgeParams{
		CampaignID: campaign.ID,
		ID:         params.EdgeID,
	})
	if err != nil {
		logger.Error("Failed to delete edge", "err", err)
		return c.JSON(http.StatusInternalServerError, deleteEdgeResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, deleteEdgeResponse{
		Message: "Relationship deleted successfully",
	})
}
