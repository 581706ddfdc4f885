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

// DeleteSessionHandler removes a session. Numbers of other sessions are
// not compacted, gaps are fine.
func DeleteSessionHandler(c echo.Context) error {
	type deleteSessionParams struct {
		CampaignSlug string `param:"campaign_slug" validate:"required"`
		Number       int32  `param:"number" validate:"gte=0"`
	}

	type deleteSessionResponse struct {
		Message string `json:"message"`
	}

	params := new(deleteSessionParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteSessionResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteSessionResponse{
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
			return c.JSON(http.StatusNotFound, deleteSessionResponse{
				Message: "Campaign not found",
			})
		}
		logger.Error("Failed to get campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, deleteSessionResponse{
			Message: "Internal server error",
		})
	}

	session, err := q.GetSessionByNumber(ctx, db.GetSessionByNumberParams{
		CampaignID: campaign.ID,
		Number:     params.Number,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, deleteSessionResponse{
				Message: "Session not found",
			})
		}
		logger.Error("Failed to get session", "err", err)
		return c.JSON(http.StatusInternalServerError, deleteSessionResponse{
			Message: "Internal server error",
		})
	}

	err = q.DeleteSession(ctx, db.DeleteSessionParams{
		CampaignID: campaign.ID,
		ID:         session.ID,
	})
	if err != nil {
		logger.Error("Failed to delete session", "err", err)
		return c.JSON(http.StatusInternalServerError, deleteSessionResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, deleteSessionResponse{
		Message: "Session deleted successfully",
	})
}
