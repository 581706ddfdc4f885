package routes

import (
	"errors"
	"net/http"

	"github.com/grimoire-app/grimoire/backend/internal/db"
	"github.com/grimoire-app/grimoire/backend/internal/server/middleware"
	"github.com/grimoire-app/grimoire/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GetTagsHandler lists a campaign's tags.
func GetTagsHandler(c echo.Context) error {
	type getTagsParams struct {
		CampaignSlug string `param:"campaign_slug" validate:"required"`
	}

	type getTagsResponse struct {
		Message string   `json:"message,omitempty"`
		Tags    []db.Tag `json:"tags"`
	}

	params := new(getTagsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getTagsResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getTagsResponse{
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
			return c.JSON(http.StatusNotFound, getTagsResponse{
				Message: "Campaign not found",
			})
		}
		logger.Error("Failed to get campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, getTagsResponse{
			Message: "Internal server error",
		})
	}

	tags, err := q.ListTags(ctx, campaign.ID)
	if err != nil {
		logger.Error("Failed to list tags", "err", err)
		return c.JSON(http.StatusInternalServerError, getTagsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getTagsResponse{
		Tags: tags,
	})
}
