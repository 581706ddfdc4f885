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

// DeleteTagHandler removes a tag from the campaign. Node links go with
// it via ON DELETE CASCADE.
func DeleteTagHandler(c echo.Context) error {
	type deleteTagParams struct {
		CampaignSlug string `param:"campaign_slug" validate:"required"`
		TagID        int64  `param:"tag_id" validate:"required,numeric"`
	}

	type deleteTagResponse struct {
		Message string `json:"message"`
	}

	params := new(deleteTagParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteTagResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteTagResponse{
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
			return c.JSON(http.StatusNotFound, deleteTagResponse{
				Message: "Campaign not found",
			})
		}
		logger.Error("Failed to get campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, deleteTagResponse{
			Message: "Internal server error",
		})
	}

	_, err = q.GetTag(ctx, db.GetTagParams{
		CampaignID: campaign.ID,
		ID:         params.TagID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, deleteTagResponse{
				Message: "Tag not found",
			})
		}
		logger.Error("Failed to get tag", "err", err)
		return c.JSON(http.StatusInternalServerError, deleteTagResponse{
			Message: "Internal server error",
		})
	}

	err = q.DeleteTag(ctx, db.DeleteTagParams{
		CampaignID: campaign.ID,
		ID:         params.TagID,
	})
	if err != nil {
		logger.Error("Failed to delete tag", "err", err)
		return c.JSON(http.StatusInternalServerError, deleteTagResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, deleteTagResponse{
		Message: "Tag deleted successfully",
	})
}

// DetachTagHandler unlinks a tag from a node.
func DetachTagHandler(c echo.Context) error {
	type detachTagParams struct {
		CampaignSlug string `param:"campaign_slug" validate:"required"`
		NodeID       string `param:"node_id" validate:"required"`
		TagID        int64  `param:"tag_id" validate:"required,numeric"`
	}

	type detachTagResponse struct {
		Message string `json:"message"`
	}

	params := new(detachTagParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, detachTagResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, detachTagResponse{
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
			return c.JSON(http.StatusNotFound, detachTagResponse{
				Message: "Campaign not found",
			})
		}
		logger.Error("Failed to get campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, detachTagResponse{
			Message: "Internal server error",
		})
	}

	_, err = q.GetNodeByID(ctx, db.GetNodeByIDParams{
		CampaignID: campaign.ID,
		ID:         params.NodeID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, detachTagResponse{
				Message: "Entry not found",
			})
		}
		logger.Error("Failed to get node", "err", err)
		return c.JSON(http.StatusInternalServerError, detachTagResponse{
			Message: "Internal server error",
		})
	}

	err = q.DetachTag(ctx, db.DetachTagParams{
		NodeID: params.NodeID,
		TagID:  params.TagID,
	})
	if err != nil {
		logger.Error("Failed to detach tag", "err", err)
		return c.JSON(http.StatusInternalServerError, detachTagResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, detachTagResponse{
		Message: "Tag detached successfully",
	})
}
