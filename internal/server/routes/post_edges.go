package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/grimoire-app/grimoire/backend/internal/db"
	"github.com/grimoire-app/grimoire/backend/internal/server/middleware"
	"github.com/grimoire-app/grimoire/backend/pkg/catalog"
	"github.com/grimoire-app/grimoire/backend/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// CreateEdgeHandler creates a relationship between two nodes. When the
// caller asks for a bidirectional link, the mirror edge is created in
// the same transaction unless one already exists.
func CreateEdgeHandler(c echo.Context) error {
	type createEdgeBody struct {
		CampaignSlug  string          `param:"campaign_slug" validate:"required"`
		SourceNodeID  string          `json:"source_node_id" validate:"required"`
		TargetNodeID  string          `json:"target_node_id" validate:"required"`
		Type          string          `json:"type" validate:"required,max=50"`
		Label         *string         `json:"label" validate:"omitempty,max=100"`
		Description   *string         `json:"description"`
		Strength      *int32          `json:"strength" validate:"omitempty,min=1,max=10"`
		Metadata      json.RawMessage `json:"metadata"`
		IsSecret      bool            `json:"is_secret"`
		Bidirectional bool            `json:"bidirectional"`
	}

	type createEdgeResponse struct {
		Message     string   `json:"message"`
		Edge        *db.Edge `json:"edge,omitempty"`
		ReverseEdge *db.Edge `json:"reverse_edge,omitempty"`
	}

	data := new(createEdgeBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createEdgeResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createEdgeResponse{
			Message: "Invalid request body",
		})
	}
	if data.SourceNodeID == data.TargetNodeID {
		return c.JSON(http.StatusBadRequest, createEdgeResponse{
			Message: "An entry cannot relate to itself.",
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
		return c.JSON(http.StatusInternalServerError, createEdgeResponse{
			Message: "Internal server error",
		})
	}
	defer tx.Rollback(ctx)
	q := db.New(conn)
	qtx := q.WithTx(tx)

	campaign, err := campaignForUser(ctx, qtx, user.UserID, data.CampaignSlug)
	if err != nil {
		if errors.Is(err, errCampaignNotFound) {
			return c.JSON(http.StatusNotFound, createEdgeResponse{
				Message: "Campaign not found",
			})
		}
		logger.Error("Failed to get campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, createEdgeResponse{
			Message: "Internal server error",
		})
	}

	for _, nodeID := range []string{data.SourceNodeID, data.TargetNodeID} {
		_, err := qtx.GetNodeByID(ctx, db.GetNodeByIDParams{
			CampaignID: campaign.ID,
			ID:         nodeID,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, createEdgeResponse{
					Message: "Entry not found",
				})
			}
			logger.Error("Failed to get node", "err", err)
			return c.JSON(http.StatusInternalServerError, createEdgeResponse{
				Message: "Internal server error",
			})
		}
	}

	_, err = qtx.FindEdge(ctx, db.FindEdgeParams{
		CampaignID:   campaign.ID,
		SourceNodeID: data.SourceNodeID,
		TargetNodeID: data.TargetNodeID,
		Type:         data.Type,
	})
	if err == nil {
		return c.JSON(http.StatusUnprocessableEntity, createEdgeResponse{
			Message: "This relationship already exists.",
		})
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		logger.Error("Failed to check for existing edge", "err", err)
		return c.JSON(http.StatusInternalServerError, createEdgeResponse{
			Message: "Internal server error",
		})
	}

	label := catalog.LabelFor(data.Type)
	if data.Label != nil && *data.Label != "" {
		label = *data.Label
	}

	edge, err := qtx.CreateEdge(ctx, db.CreateEdgeParams{
		CampaignID:   campaign.ID,
		SourceNodeID: data.SourceNodeID,
		TargetNodeID: data.TargetNodeID,
		Type:         data.Type,
		Label:        label,
		Description:  data.Description,
		Strength:     data.Strength,
		Metadata:     data.Metadata,
		IsSecret:     data.IsSecret,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return c.JSON(http.StatusUnprocessableEntity, createEdgeResponse{
				Message: "This relationship already exists.",
			})
		}
		logger.Error("Failed to create edge", "err", err)
		return c.JSON(http.StatusInternalServerError, createEdgeResponse{
			Message: "Internal server error",
		})
	}

	resp := createEdgeResponse{
		Message: "Relationship created successfully",
		Edge:    &edge,
	}

	if data.Bidirectional {
		reverseType := catalog.ReverseType(data.Type)

		_, err := qtx.FindEdge(ctx, db.FindEdgeParams{
			CampaignID:   campaign.ID,
			SourceNodeID: data.TargetNodeID,
			TargetNodeID: data.SourceNodeID,
			Type:         reverseType,
		})
		if errors.Is(err, pgx.ErrNoRows) {
			reverse, err := qtx.CreateEdge(ctx, db.CreateEdgeParams{
				CampaignID:   campaign.ID,
				SourceNodeID: data.TargetNodeID,
				TargetNodeID: data.SourceNodeID,
				Type:         reverseType,
				Label:        catalog.LabelFor(reverseType),
				Description:  data.Description,
				Strength:     data.Strength,
				Metadata:     data.Metadata,
				IsSecret:     data.IsSecret,
			})
			if err != nil {
				if isUniqueViolation(err) {
					return c.JSON(http.StatusUnprocessableEntity, createEdgeResponse{
						Message: "This relationship already exists.",
					})
				}
				logger.Error("Failed to create reverse edge", "err", err)
				return c.JSON(http.StatusInternalServerError, createEdgeResponse{
					Message: "Internal server error",
				})
			}
			resp.ReverseEdge = &reverse
		} else if err != nil {
			logger.Error("Failed to check for reverse edge", "err", err)
			return c.JSON(http.StatusInternalServerError, createEdgeResponse{
				Message: "Internal server error",
			})
		}
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Failed to commit transaction", "err", err)
		return c.JSON(http.StatusInternalServerError, createEdgeResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusCreated, resp)
}
