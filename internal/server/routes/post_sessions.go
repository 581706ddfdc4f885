package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/grimoire-app/grimoire/backend/internal/db"
	"github.com/grimoire-app/grimoire/backend/internal/server/middleware"
	"github.com/grimoire-app/grimoire/backend/internal/util"
	"github.com/grimoire-app/grimoire/backend/pkg/logger"
	"github.com/grimoire-app/grimoire/backend/pkg/taxonomy"

	"github.com/labstack/echo/v4"
)

// CreateSessionHandler creates a game session. When no number is given
// the next free number is assigned, an explicit number must be unused.
func CreateSessionHandler(c echo.Context) error {
	type createSessionBody struct {
		CampaignSlug string          `param:"campaign_slug" validate:"required"`
		Number       *int32          `json:"number"`
		Title        *string         `json:"title"`
		Status       string          `json:"status"`
		ScheduledAt  *time.Time      `json:"scheduled_at"`
		PlayedAt     *time.Time      `json:"played_at"`
		Plan         json.RawMessage `json:"plan"`
		Notes        *string         `json:"notes"`
		Recap        *string         `json:"recap"`
		Outcomes     json.RawMessage `json:"outcomes"`
	}

	type createSessionResponse struct {
		Message string          `json:"message"`
		Session *db.GameSession `json:"session,omitempty"`
	}

	data := new(createSessionBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createSessionResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createSessionResponse{
			Message: "Invalid request body",
		})
	}
	if data.Status == "" {
		data.Status = "planned"
	}
	if !taxonomy.ValidSessionStatus(data.Status) {
		return c.JSON(http.StatusBadRequest, createSessionResponse{
			Message: "Invalid session status",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	tx, err := conn.Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin transaction", "err", err)
		return c.JSON(http.StatusInternalServerError, createSessionResponse{
			Message: "Internal server error",
		})
	}
	defer tx.Rollback(ctx)
	q := db.New(conn)
	qtx := q.WithTx(tx)

	campaign, err := campaignForUser(ctx, qtx, user.UserID, data.CampaignSlug)
	if err != nil {
		if errors.Is(err, errCampaignNotFound) {
			return c.JSON(http.StatusNotFound, createSessionResponse{
				Message: "Campaign not found",
			})
		}
		logger.Error("Failed to get campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, createSessionResponse{
			Message: "Internal server error",
		})
	}

	var number int32
	if data.Number != nil {
		number = *data.Number
		count, err := qtx.SessionNumberExists(ctx, db.SessionNumberExistsParams{
			CampaignID: campaign.ID,
			Number:     number,
			ExcludeID:  0,
		})
		if err != nil {
			logger.Error("Failed to check session number", "err", err)
			return c.JSON(http.StatusInternalServerError, createSessionResponse{
				Message: "Internal server error",
			})
		}
		if count > 0 {
			return c.JSON(http.StatusUnprocessableEntity, createSessionResponse{
				Message: "A session with this number already exists.",
			})
		}
	} else {
		number, err = qtx.NextSessionNumber(ctx, campaign.ID)
		if err != nil {
			logger.Error("Failed to get next session number", "err", err)
			return c.JSON(http.StatusInternalServerError, createSessionResponse{
				Message: "Internal server error",
			})
		}
	}

	session, err := qtx.CreateSession(ctx, db.CreateSessionParams{
		CampaignID:  campaign.ID,
		Number:      number,
		Title:       data.Title,
		Status:      data.Status,
		ScheduledAt: data.ScheduledAt,
		PlayedAt:    data.PlayedAt,
		Plan:        data.Plan,
		Notes:       util.SanitizeOptionalText(data.Notes),
		Recap:       util.SanitizeOptionalText(data.Recap),
		Outcomes:    data.Outcomes,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return c.JSON(http.StatusUnprocessableEntity, createSessionResponse{
				Message: "A session with this number already exists.",
			})
		}
		logger.Error("Failed to create session", "err", err)
		return c.JSON(http.StatusInternalServerError, createSessionResponse{
			Message: "Internal server error",
		})
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Failed to commit transaction", "err", err)
		return c.JSON(http.StatusInternalServerError, createSessionResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusCreated, createSessionResponse{
		Message: "Session created successfully",
		Session: &session,
	})
}
