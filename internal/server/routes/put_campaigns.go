package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/grimoire-app/grimoire/backend/internal/db"
	"github.com/grimoire-app/grimoire/backend/internal/server/middleware"
	"github.com/grimoire-app/grimoire/backend/pkg/logger"
	"github.com/grimoire-app/grimoire/backend/pkg/taxonomy"

	"github.com/labstack/echo/v4"
)

// UpdateCampaignHandler updates campaign settings. The slug is stable,
// renaming a campaign never changes its URLs.
func UpdateCampaignHandler(c echo.Context) error {
	type updateCampaignBody struct {
		Slug        string          `param:"campaign_slug" validate:"required"`
		Name        string          `json:"name" validate:"required"`
		Description *string         `json:"description"`
		Genre       *string         `json:"genre"`
		RuleSystem  *string         `json:"rule_system"`
		PlayerCount *int32          `json:"player_count"`
		Status      *string         `json:"status"`
		ToneSetting json.RawMessage `json:"tone_settings"`
		Settings    json.RawMessage `json:"settings"`
	}

	type updateCampaignResponse struct {
		Message  string       `json:"message"`
		Campaign *db.Campaign `json:"campaign,omitempty"`
	}

	data := new(updateCampaignBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, updateCampaignResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, updateCampaignResponse{
			Message: "Invalid request body",
		})
	}
	if data.Status != nil && !taxonomy.ValidCampaignStatus(*data.Status) {
		return c.JSON(http.StatusBadRequest, updateCampaignResponse{
			Message: "Invalid campaign status",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	campaign, err := campaignForUser(ctx, q, user.UserID, data.Slug)
	if err != nil {
		if errors.Is(err, errCampaignNotFound) {
			return c.JSON(http.StatusNotFound, updateCampaignResponse{
				Message: "Campaign not found",
			})
		}
		logger.Error("Failed to get campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, updateCampaignResponse{
			Message: "Internal server error",
		})
	}

	updated, err := q.UpdateCampaign(ctx, db.UpdateCampaignParams{
		ID:           campaign.ID,
		UserID:       user.UserID,
		Name:         data.Name,
		Description:  data.Description,
		Genre:        data.Genre,
		RuleSystem:   data.RuleSystem,
		PlayerCount:  data.PlayerCount,
		Status:       data.Status,
		ToneSettings: data.ToneSetting,
		Settings:     data.Settings,
	})
	if err != nil {
		logger.Error("Failed to update campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, updateCampaignResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, updateCampaignResponse{
		Message:  "Campaign updated successfully",
		Campaign: &updated,
	})
}
