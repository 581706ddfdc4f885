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

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// UpdateSessionHandler edits a session. Renumbering is allowed as long
// as the new number is not taken by another session.
func UpdateSessionHandler(c echo.Context) error {
	type updateSessionBody struct {
		CampaignSlug string          `param:"campaign_slug" validate:"required"`
		Number       int32           `param:"number" validate:"gte=0"`
		NewNumber    *int32          `json:"number"`
		Title        *string         `json:"title"`
		Status       string          `json:"status"`
		ScheduledAt  *time.Time      `json:"scheduled_at"`
		PlayedAt     *time.Time      `json:"played_at"`
		Plan         json.RawMessage `json:"plan"`
		Notes        *string         `json:"notes"`
		Recap        *string         `json:"recap"`
		Outcomes     json.RawMessage `json:"outcomes"`
	}

	type updateSessionResponse struct {
		Message string          `json:"message"`
		Session *db.GameSession `json:"session,omitempty"`
	}

	data := new(updateSessionBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, updateSessionResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, updateSessionResponse{
			Message: "Invalid request body",
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
		return c.JSON(http.StatusInternalServerError, updateSessionResponse{
			Message: "Internal server error",
		})
	}
	defer tx.Rollback(ctx)
	q := db.New(conn)
	qtx := q.WithTx(tx)

	campaign, err := campaignForUser(ctx, qtx, user.UserID, data.CampaignSlug)
	if err != nil {
		if errors.Is(err, errCampaignNotFound) {
			return c.JSON(http.StatusNotFound, updateSessionResponse{
				Message: "Campaign not found",
			})
		}
		logger.Error("Failed to get campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, updateSessionResponse{
			Message: "Internal server error",
		})
	}

	session, err := qtx.GetSessionByNumber(ctx, db.GetSessionByNumberParams{
		CampaignID: campaign.ID,
		Number:     data.Number,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, updateSessionResponse{
				Message: "Session not found",
			})
		}
		logger.Error("Failed to get session", "err", err)
		return c.JSON(http.StatusInternalServerError, updateSessionResponse{
			Message: "Internal server error",
		})
	}

	if data.Status == "" {
		data.Status = session.Status
	}
	if !taxonomy.ValidSessionStatus(data.Status) {
		return c.JSON(http.StatusBadRequest, updateSessionResponse{
			Message: "Invalid session status",
		})
	}

	number := session.Number
	if data.NewNumber != nil && *data.NewNumber != session.Number {
		number = *data.NewNumber
		count, err := qtx.SessionNumberExists(ctx, db.SessionNumberExistsParams{
			CampaignID: campaign.ID,
			Number:     number,
			ExcludeID:  session.ID,
		})
		if err != nil {
			logger.Error("Failed to check session number", "err", err)
			return c.JSON(http.StatusInternalServerError, updateSessionResponse{
				Message: "Internal server error",
			})
		}
		if count > 0 {
			return c.JSON(http.StatusUnprocessableEntity, updateSessionResponse{
				Message: "A session with this number already exists.",
			})
		}
	}

	updated, err := qtx.UpdateSession(ctx, db.UpdateSessionParams{
		CampaignID:  campaign.ID,
		ID:          session.ID,
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
			return c.JSON(http.StatusUnprocessableEntity, updateSessionResponse{
				Message: "A session with this number already exists.",
			})
		}
		logger.Error("Failed to update session", "err", err)
		return c.JSON(http.StatusInternalServerError, updateSessionResponse{
			Message: "Internal server error",
		})
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Failed to commit transaction", "err", err)
		return c.JSON(http.StatusInternalServerError, updateSessionResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, updateSessionResponse{
		Message: "Session updated successfully",
		Session: &updated,
	})
}
