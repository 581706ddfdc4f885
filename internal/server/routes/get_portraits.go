package routes

import (
	"errors"
	"net/http"

	"github.com/grimoire-app/grimoire/backend/internal/db"
	"github.com/grimoire-app/grimoire/backend/internal/server/middleware"
	"github.com/grimoire-app/grimoire/backend/internal/storage"
	"github.com/grimoire-app/grimoire/backend/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// GetPortraitHandler returns a time-limited download link for a node's
// portrait.
func GetPortraitHandler(c echo.Context) error {
	type getPortraitParams struct {
		CampaignSlug string `param:"campaign_slug" validate:"required"`
		NodeID       string `param:"node_id" validate:"required"`
	}

	type getPortraitResponse struct {
		Message string `json:"message,omitempty"`
		URL     string `json:"url,omitempty"`
	}

	params := new(getPortraitParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getPortraitResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getPortraitResponse{
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
			return c.JSON(http.StatusNotFound, getPortraitResponse{
				Message: "Campaign not found",
			})
		}
		logger.Error("Failed to get campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, getPortraitResponse{
			Message: "Internal server error",
		})
	}

	node, err := q.GetNodeByID(ctx, db.GetNodeByIDParams{
		CampaignID: campaign.ID,
		ID:         params.NodeID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, getPortraitResponse{
				Message: "Entry not found",
			})
		}
		logger.Error("Failed to get node", "err", err)
		return c.JSON(http.StatusInternalServerError, getPortraitResponse{
			Message: "Internal server error",
		})
	}

	if node.PortraitKey == nil {
		return c.JSON(http.StatusNotFound, getPortraitResponse{
			Message: "Portrait not found",
		})
	}

	s3Client := c.(*middleware.AppContext).App.S3
	url, err := storage.GenerateDownloadLink(ctx, s3Client, *node.PortraitKey)
	if err != nil {
		logger.Error("Failed to generate download link", "err", err)
		return c.JSON(http.StatusInternalServerError, getPortraitResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getPortraitResponse{
		URL: url,
	})
}

// DeletePortraitHandler removes a node's portrait.
func DeletePortraitHandler(c echo.Context) error {
	type deletePortraitParams struct {
		CampaignSlug string `param:"campaign_slug" validate:"required"`
		NodeID       string `param:"node_id" validate:"required"`
	}

	type deletePortraitResponse struct {
		Message string `json:"message"`
	}

	params := new(deletePortraitParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, deletePortraitResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, deletePortraitResponse{
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
			return c.JSON(http.StatusNotFound, deletePortraitResponse{
				Message: "Campaign not found",
			})
		}
		logger.Error("Failed to get campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, deletePortraitResponse{
			Message: "Internal server error",
		})
	}

	node, err := q.GetNodeByID(ctx, db.GetNodeByIDParams{
		CampaignID: campaign.ID,
		ID:         params.NodeID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, deletePortraitResponse{
				Message: "Entry not found",
			})
		}
		logger.Error("Failed to get node", "err", err)
		return c.JSON(http.StatusInternalServerError, deletePortraitResponse{
			Message: "Internal server error",
		})
	}

	if node.PortraitKey == nil {
		return c.JSON(http.StatusNotFound, deletePortraitResponse{
			Message: "Portrait not found",
		})
	}

	key := *node.PortraitKey
	_, err = q.SetNodePortraitKey(ctx, db.SetNodePortraitKeyParams{
		CampaignID:  campaign.ID,
		ID:          node.ID,
		PortraitKey: nil,
	})
	if err != nil {
		logger.Error("Failed to clear portrait key", "err", err)
		return c.JSON(http.StatusInternalServerError, deletePortraitResponse{
			Message: "Internal server error",
		})
	}

	s3Client := c.(*middleware.AppContext).App.S3
	if err := storage.DeleteFile(ctx, s3Client, key); err != nil {
		logger.Error("Failed to delete portrait", "err", err)
	}

	return c.JSON(http.StatusOK, deletePortraitResponse{
		Message: "Portrait deleted successfully",
	})
}
