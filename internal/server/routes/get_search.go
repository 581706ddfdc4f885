package routes

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/grimoire-app/grimoire/backend/internal/db"
	"github.com/grimoire-app/grimoire/backend/internal/server/middleware"
	"github.com/grimoire-app/grimoire/backend/pkg/logger"
	"github.com/grimoire-app/grimoire/backend/pkg/search"
	"github.com/grimoire-app/grimoire/backend/pkg/taxonomy"

	"github.com/labstack/echo/v4"
)

// SearchHandler runs substring search over a campaign's nodes and game
// sessions. Node and session hits are merged, ranked and grouped by
// pluralized type. Queries below the minimum length return empty groups
// rather than an error.
func SearchHandler(c echo.Context) error {
	type searchParams struct {
		CampaignSlug string `param:"campaign_slug" validate:"required"`
		Query        string `query:"q"`
		Type         string `query:"type"`
	}

	type searchResponse struct {
		Message string                     `json:"message,omitempty"`
		Query   string                     `json:"query"`
		Results map[string][]search.Result `json:"results"`
		Total   int                        `json:"total"`
	}

	params := new(searchParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, searchResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, searchResponse{
			Message: "Invalid request body",
		})
	}
	if params.Type != "" && params.Type != "session" && !taxonomy.ValidNodeType(params.Type) {
		return c.JSON(http.StatusBadRequest, searchResponse{
			Message: "Invalid entry type",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	query := strings.TrimSpace(params.Query)
	if len(query) < search.MinQueryLength {
		return c.JSON(http.StatusOK, searchResponse{
			Query:   query,
			Results: map[string][]search.Result{},
		})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	campaign, err := campaignForUser(ctx, q, user.UserID, params.CampaignSlug)
	if err != nil {
		if errors.Is(err, errCampaignNotFound) {
			return c.JSON(http.StatusNotFound, searchResponse{
				Message: "Campaign not found",
			})
		}
		logger.Error("Failed to get campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, searchResponse{
			Message: "Internal server error",
		})
	}

	results := make([]search.Result, 0)

	if params.Type != "session" {
		var typeFilter *string
		if params.Type != "" {
			typeFilter = &params.Type
		}
		nodeHits, err := q.SearchNodes(ctx, db.SearchNodesParams{
			CampaignID: campaign.ID,
			Query:      query,
			Type:       typeFilter,
		})
		if err != nil {
			logger.Error("Failed to search nodes", "err", err)
			return c.JSON(http.StatusInternalServerError, searchResponse{
				Message: "Internal server error",
			})
		}
		for _, hit := range nodeHits {
			results = append(results, search.Result{
				ID:       hit.ID,
				Type:     hit.Type,
				Subtype:  hit.Subtype,
				Name:     hit.Name,
				Slug:     hit.Slug,
				Summary:  hit.Summary,
				IsSecret: hit.IsSecret,
				URL:      search.NodeURL(campaign.Slug, hit.Type, hit.Slug),
			})
		}
	}

	if params.Type == "" || params.Type == "session" {
		sessionRows, err := q.SearchSessions(ctx, db.SearchSessionsParams{
			CampaignID: campaign.ID,
			Query:      query,
		})
		if err != nil {
			logger.Error("Failed to search sessions", "err", err)
			return c.JSON(http.StatusInternalServerError, searchResponse{
				Message: "Internal server error",
			})
		}
		for _, row := range sessionRows {
			results = append(results, search.Result{
				ID:   strconv.FormatInt(row.ID, 10),
				Type: "session",
				Name: search.SessionName(row.Title, row.Number),
				Slug: strconv.FormatInt(int64(row.Number), 10),
				URL:  search.SessionURL(campaign.Slug, row.Number),
			})
		}
	}

	search.Rank(results, query)

	return c.JSON(http.StatusOK, searchResponse{
		Query:   query,
		Results: search.Group(results),
		Total:   len(results),
	})
}
