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

// GetSessionsHandler lists a campaign's game sessions in play order.
func GetSessionsHandler(c echo.Context) error {
	type getSessionsParams struct {
		CampaignSlug string `param:"campaign_slug" validate:"required"`
	}

	type getSessionsResponse struct {
		Message  string           `json:"message,omitempty"`
		Sessions []db.GameSession `json:"sessions"`
	}

	params := new(getSessionsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getSessionsResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getSessionsResponse{
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
			return c.JSON(http.StatusNotFound, getSessionsResponse{
				Message: "Campaign not found",
			})
		}
		logger.Error("Failed to get campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, getSessionsResponse{
			Message: "Internal server error",
		})
	}

	sessions, err := q.ListSessions(ctx, campaign.ID)
	if err != nil {
		logger.Error("Failed to list sessions", "err", err)
		return c.JSON(http.StatusInternalServerError, getSessionsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getSessionsResponse{
		Sessions: sessions,
	})
}

// GetSessionHandler returns one session by number along with pointers to
// its neighbours for prev/next navigation.
func GetSessionHandler(c echo.Context) error {
	type getSessionParams struct {
		CampaignSlug string `param:"campaign_slug" validate:"required"`
		Number       int32  `param:"number" validate:"gte=0"`
	}

	type getSessionResponse struct {
		Message  string          `json:"message,omitempty"`
		Session  *db.GameSession `json:"session,omitempty"`
		Previous *db.GameSession `json:"previous,omitempty"`
		Next     *db.GameSession `json:"next,omitempty"`
	}

	params := new(getSessionParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getSessionResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getSessionResponse{
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
			return c.JSON(http.StatusNotFound, getSessionResponse{
				Message: "Campaign not found",
			})
		}
		logger.Error("Failed to get campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, getSessionResponse{
			Message: "Internal server error",
		})
	}

	session, err := q.GetSessionByNumber(ctx, db.GetSessionByNumberParams{
		CampaignID: campaign.ID,
		Number:     params.Number,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, getSessionResponse{
				Message: "Session not found",
			})
		}
		logger.Error("Failed to get session", "err", err)
		return c.JSON(http.StatusInternalServerError, getSessionResponse{
			Message: "Internal server error",
		})
	}

	resp := getSessionResponse{Session: &session}

	previous, err := q.GetPreviousSession(ctx, db.GetPreviousSessionParams{
		CampaignID: campaign.ID,
		Number:     session.Number,
	})
	if err == nil {
		resp.Previous = &previous
	} else if !errors.Is(err, pgx.ErrNoRows) {
		logger.Error("Failed to get previous session", "err", err)
		return c.JSON(http.StatusInternalServerError, getSessionResponse{
			Message: "Internal server error",
		})
	}

	next, err := q.GetNextSession(ctx, db.GetNextSessionParams{
		CampaignID: campaign.ID,
		Number:     session.Number,
	})
	if err == nil {
		resp.Next = &next
	} else if !errors.Is(err, pgx.ErrNoRows) {
		logger.Error("Failed to get next session", "err", err)
		return c.JSON(http.StatusInternalServerError, getSessionResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, resp)
}
