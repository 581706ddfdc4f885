package routes

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/grimoire-app/grimoire/backend/internal/db"
	"github.com/grimoire-app/grimoire/backend/internal/server/middleware"
	"github.com/grimoire-app/grimoire/backend/internal/util"
	"github.com/grimoire-app/grimoire/backend/pkg/logger"
	"github.com/grimoire-app/grimoire/backend/pkg/taxonomy"

	"github.com/labstack/echo/v4"
)

// CreateCampaignHandler creates a campaign in setup state. The slug is
// derived from the name and suffixed with a counter until it is unique
// for the owner.
func CreateCampaignHandler(c echo.Context) error {
	type createCampaignBody struct {
		Name        string          `json:"name" validate:"required"`
		Description *string         `json:"description"`
		Genre       *string         `json:"genre"`
		RuleSystem  *string         `json:"rule_system"`
		PlayerCount *int32          `json:"player_count"`
		ToneSetting json.RawMessage `json:"tone_settings"`
	}

	type createCampaignResponse struct {
		Message  string       `json:"message"`
		Campaign *db.Campaign `json:"campaign,omitempty"`
	}

	data := new(createCampaignBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createCampaignResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createCampaignResponse{
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

	base := util.Slugify(data.Name)
	if base == "" {
		base = "campaign"
	}
	slug := base
	for i := 2; ; i++ {
		count, err := q.CampaignSlugExists(ctx, db.CampaignSlugExistsParams{
			UserID: user.UserID,
			Slug:   slug,
		})
		if err != nil {
			logger.Error("Failed to check campaign slug", "err", err)
			return c.JSON(http.StatusInternalServerError, createCampaignResponse{
				Message: "Internal server error",
			})
		}
		if count == 0 {
			break
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}

	campaign, err := q.CreateCampaign(ctx, db.CreateCampaignParams{
		UserID:       user.UserID,
		Name:         data.Name,
		Slug:         slug,
		Description:  data.Description,
		Genre:        data.Genre,
		RuleSystem:   data.RuleSystem,
		PlayerCount:  data.PlayerCount,
		ToneSettings: data.ToneSetting,
	})
	if err != nil {
		logger.Error("Failed to create campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, createCampaignResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusCreated, createCampaignResponse{
		Message:  "Campaign created successfully",
		Campaign: &campaign,
	})
}

// GetCampaignOptionsHandler returns the vocabularies the campaign forms
// are built from.
func GetCampaignOptionsHandler(c echo.Context) error {
	type campaignOptionsResponse struct {
		Genres      []taxonomy.Option `json:"genres"`
		RuleSystems []taxonomy.Option `json:"rule_systems"`
		Statuses    []taxonomy.Option `json:"statuses"`
	}

	return c.JSON(http.StatusOK, campaignOptionsResponse{
		Genres:      taxonomy.Genres(),
		RuleSystems: taxonomy.RuleSystems(),
		Statuses:    taxonomy.CampaignStatuses(),
	})
}
