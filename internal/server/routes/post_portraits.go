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

// UploadPortraitHandler stores a portrait for a node (multipart field
// "portrait") and records the object key. A new upload replaces the
// previous portrait.
func UploadPortraitHandler(c echo.Context) error {
	type uploadPortraitParams struct {
		CampaignSlug string `param:"campaign_slug" validate:"required"`
		NodeID       string `param:"node_id" validate:"required"`
	}

	type uploadPortraitResponse struct {
		Message string   `json:"message"`
		Node    *db.Node `json:"node,omitempty"`
	}

	params := new(uploadPortraitParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, uploadPortraitResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, uploadPortraitResponse{
			Message: "Invalid request body",
		})
	}

	file, err := c.FormFile("portrait")
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadPortraitResponse{
			Message: "No portrait provided",
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
			return c.JSON(http.StatusNotFound, uploadPortraitResponse{
				Message: "Campaign not found",
			})
		}
		logger.Error("Failed to get campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, uploadPortraitResponse{
			Message: "Internal server error",
		})
	}

	node, err := q.GetNodeByID(ctx, db.GetNodeByIDParams{
		CampaignID: campaign.ID,
		ID:         params.NodeID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, uploadPortraitResponse{
				Message: "Entry not found",
			})
		}
		logger.Error("Failed to get node", "err", err)
		return c.JSON(http.StatusInternalServerError, uploadPortraitResponse{
			Message: "Internal server error",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadPortraitResponse{
			Message: "Could not open file",
		})
	}
	defer src.Close()

	s3Client := c.(*middleware.AppContext).App.S3
	key, err := storage.PutPortrait(ctx, s3Client, campaign.ID, node.ID, file.Filename, src)
	if err != nil {
		logger.Error("Failed to upload portrait", "err", err)
		return c.JSON(http.StatusInternalServerError, uploadPortraitResponse{
			Message: "Internal server error",
		})
	}

	oldKey := node.PortraitKey
	updated, err := q.SetNodePortraitKey(ctx, db.SetNodePortraitKeyParams{
		CampaignID:  campaign.ID,
		ID:          node.ID,
		PortraitKey: &key,
	})
	if err != nil {
		logger.Error("Failed to store portrait key", "err", err)
		return c.JSON(http.StatusInternalServerError, uploadPortraitResponse{
			Message: "Internal server error",
		})
	}

	if oldKey != nil && *oldKey != key {
		if err := storage.DeleteFile(ctx, s3Client, *oldKey); err != nil {
			logger.Error("Failed to delete old portrait", "err", err)
		}
	}

	return c.JSON(http.StatusOK, uploadPortraitResponse{
		Message: "Portrait uploaded successfully",
		Node:    &updated,
	})
}
