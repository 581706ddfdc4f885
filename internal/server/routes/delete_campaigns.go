package routes

import (
	"errors"
	"net/http"

	"github.com/grimoire-app/grimoire/backend/internal/db"
	"github.com/grimoire-app/grimoire/backend/internal/server/middleware"
	"github.com/grimoire-app/grimoire/backend/internal/storage"
	"github.com/grimoire-app/grimoire/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DeleteCampaignHandler removes a campaign and everything in it. Rows go
// with the campaign via ON DELETE CASCADE, stored portraits are cleaned
// up afterwards.
func DeleteCampaignHandler(c echo.Context) error {
	type deleteCampaignParams struct {
		Slug string `param:"campaign_slug" validate:"required"`
	}

	type deleteCampaignResponse struct {
		Message string `json:"message"`
	}

	params := new(deleteCampaignParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteCampaignResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteCampaignResponse{
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
			return c.JSON(http.StatusNotFound, deleteCampaignResponse{
				Message: "Campaign not found",
			})
		}
		logger.Error("Failed to get campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, deleteCampaignResponse{
			Message: "Internal server error",
		})
	}

	err = q.DeleteCampaign(ctx, db.DeleteCampaignParams{
		ID:     campaign.ID,
		UserID: user.UserID,
	})
	if err != nil {
		logger.Error("Failed to delete campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, deleteCampaignResponse{
			Message: "Internal server error",
		})
	}

	s3Client := c.(*middleware.AppContext).App.S3
	if err := storage.DeleteCampaignFiles(ctx, s3Client, campaign.ID); err != nil {
		logger.Error("Failed to delete campaign files", "err", err)
	}

	return c.JSON(http.StatusOK, deleteCampaignResponse{
		Message: "Campaign deleted successfully",
	})
}
