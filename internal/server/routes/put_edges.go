package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/grimoire-app/grimoire/backend/internal/db"
	"github.com/grimoire-app/grimoire/backend/internal/server/middleware"
	"github.com/grimoire-app/grimoire/backend/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// UpdateEdgeHandler edits an edge's type, label, description, strength
// or secrecy. Endpoints are fixed, re-linking means deleting and
// creating a new relationship. No duplicate re-check and the reverse
// edge is never touched.
func UpdateEdgeHandler(c echo.Context) error {
	type updateEdgeBody struct {
		CampaignSlug string          `param:"campaign_slug" validate:"required"`
		EdgeID       int64           `param:"edge_id" validate:"required,numeric"`
		Type         *string         `json:"type" validate:"omitempty,max=50"`
		Label        *string         `json:"label" validate:"omitempty,max=100"`
		Description  *string         `json:"description"`
		Strength     *int32          `json:"strength" validate:"omitempty,min=1,max=10"`
		Metadata     json.RawMessage `json:"metadata"`
		IsSecret     *bool           `json:"is_secret"`
	}

	type updateEdgeResponse struct {
		Message string   `json:"message"`
		Edge    *db.Edge `json:"edge,omitempty"`
	}

	data := new(updateEdgeBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, updateEdgeResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, updateEdgeResponse{
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
			return c.JSON(http.StatusNotFound, updateEdgeResponse{
				Message: "Campaign not found",
			})
		}
		logger.Error("Failed to get campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, updateEdgeResponse{
			Message: "Internal server error",
		})
	}

	edge, err := q.UpdateEdge(ctx, db.UpdateEdgeParams{
		CampaignID:  campaign.ID,
		ID:          data.EdgeID,
		Type:        data.Type,
		Label:       data.Label,
		Description: data.Description,
		Strength:    data.Strength,
		Metadata:    data.Metadata,
		IsSecret:    data.IsSecret,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, updateEdgeResponse{
				Message: "Relationship not found",
			})
		}
		logger.Error("Failed to update edge", "err", err)
		return c.JSON(http.StatusInternalServerError, updateEdgeResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, updateEdgeResponse{
		Message: "Relationship updated successfully",
		Edge:    &edge,
	})
}
