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

// CreateTagHandler creates a tag, or updates the color when a tag with
// the same name already exists.
func CreateTagHandler(c echo.Context) error {
	type createTagBody struct {
		CampaignSlug string  `param:"campaign_slug" validate:"required"`
		Name         string  `json:"name" validate:"required"`
		Color        *string `json:"color"`
	}

	type createTagResponse struct {
		Message string  `json:"message"`
		Tag     *db.Tag `json:"tag,omitempty"`
	}

	data := new(createTagBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createTagResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createTagResponse{
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

	campaign, err := campaignForUser(ctx, q, user.UserID, data.CampaignSlug)
	if err != nil {
		if errors.Is(err, errCampaignNotFound) {
			return c.JSON(http.StatusNotFound, createTagResponse{
				Message: "Campaign not found",
			})
		}
		logger.Error("Failed to get campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, createTagResponse{
			Message: "Internal server error",
		})
	}

	tag, err := q.CreateTag(ctx, db.CreateTagParams{
		CampaignID: campaign.ID,
		Name:       data.Name,
		Color:      data.Color,
	})
	if err != nil {
		logger.Error("Failed to create tag", "err", err)
		return c.JSON(http.StatusInternalServerError, createTagResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusCreated, createTagResponse{
		Message: "Tag created successfully",
		Tag:     &tag,
	})
}

// AttachTagHandler links a tag to a node. Attaching an already attached
// tag is a no-op.
func AttachTagHandler(c echo.Context) error {
	type attachTagParams struct {
		CampaignSlug string `param:"campaign_slug" validate:"required"`
		NodeID       string `param:"node_id" validate:"required"`
		TagID        int64  `param:"tag_id" validate:"required,numeric"`
	}

	type attachTagResponse struct {
		Message string `json:"message"`
	}

	params := new(attachTagParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, attachTagResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, attachTagResponse{
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
			return c.JSON(http.StatusNotFound, attachTagResponse{
				Message: "Campaign not found",
			})
		}
		logger.Error("Failed to get campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, attachTagResponse{
			Message: "Internal server error",
		})
	}

	_, err = q.GetNodeByID(ctx, db.GetNodeByIDParams{
		CampaignID: campaign.ID,
		ID:         params.NodeID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, attachTagResponse{
				Message: "Entry not found",
			})
		}
		logger.Error("Failed to get node", "err", err)
		return c.JSON(http.StatusInternalServerError, attachTagResponse{
			Message: "Internal server error",
		})
	}

	_, err = q.GetTag(ctx, db.GetTagParams{
		CampaignID: campaign.ID,
		ID:         params.TagID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, attachTagResponse{
				Message: "Tag not found",
			})
		}
		logger.Error("Failed to get tag", "err", err)
		return c.JSON(http.StatusInternalServerError, attachTagResponse{
			Message: "Internal server error",
		})
	}

	err = q.AttachTag(ctx, db.AttachTagParams{
		NodeID: params.NodeID,
		TagID:  params.TagID,
	})
	if err != nil {
		logger.Error("Failed to attach tag", "err", err)
		return c.JSON(http.StatusInternalServerError, attachTagResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, attachTagResponse{
		Message: "Tag attached successfully",
	})
}
