package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/grimoire-app/grimoire/backend/internal/db"
	"github.com/grimoire-app/grimoire/backend/internal/server/middleware"
	"github.com/grimoire-app/grimoire/backend/internal/util"
	"github.com/grimoire-app/grimoire/backend/pkg/logger"
	"github.com/grimoire-app/grimoire/backend/pkg/taxonomy"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// CreateNodeHandler returns the create handler for one node type. Each
// type is registered as its own resource, the handler closes over the
// type instead of reading it from the path.
func CreateNodeHandler(nodeType taxonomy.NodeType) echo.HandlerFunc {
	return func(c echo.Context) error {
		type createNodeBody struct {
			CampaignSlug string          `param:"campaign_slug" validate:"required"`
			Name         string          `json:"name" validate:"required,max=255"`
			Subtype      *string         `json:"subtype"`
			Summary      *string         `json:"summary" validate:"omitempty,max=500"`
			Content      json.RawMessage `json:"content"`
			Metadata     json.RawMessage `json:"metadata"`
			Confidence   string          `json:"confidence"`
			IsSecret     bool            `json:"is_secret"`
			TagIDs       []int64         `json:"tag_ids"`
		}

		type createNodeResponse struct {
			Message string   `json:"message"`
			Node    *db.Node `json:"node,omitempty"`
		}

		data := new(createNodeBody)
		if err := c.Bind(data); err != nil {
			return c.JSON(http.StatusBadRequest, createNodeResponse{
				Message: "Invalid request body",
			})
		}
		if err := c.Validate(data); err != nil {
			return c.JSON(http.StatusBadRequest, createNodeResponse{
				Message: "Invalid request body",
			})
		}
		if data.Subtype != nil && !taxonomy.ValidSubtype(nodeType, *data.Subtype) {
			return c.JSON(http.StatusBadRequest, createNodeResponse{
				Message: "Invalid subtype",
			})
		}
		if data.Confidence == "" {
			data.Confidence = "canon"
		}
		if !taxonomy.ValidConfidence(data.Confidence) {
			return c.JSON(http.StatusBadRequest, createNodeResponse{
				Message: "Invalid confidence level",
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
			return c.JSON(http.StatusInternalServerError, createNodeResponse{
				Message: "Internal server error",
			})
		}
		defer tx.Rollback(ctx)
		q := db.New(conn)
		qtx := q.WithTx(tx)

		campaign, err := campaignForUser(ctx, qtx, user.UserID, data.CampaignSlug)
		if err != nil {
			if errors.Is(err, errCampaignNotFound) {
				return c.JSON(http.StatusNotFound, createNodeResponse{
					Message: "Campaign not found",
				})
			}
			logger.Error("Failed to get campaign", "err", err)
			return c.JSON(http.StatusInternalServerError, createNodeResponse{
				Message: "Internal server error",
			})
		}

		slug := util.Slugify(data.Name)
		if slug == "" {
			return c.JSON(http.StatusBadRequest, createNodeResponse{
				Message: "Invalid name",
			})
		}
		count, err := qtx.NodeSlugExists(ctx, db.NodeSlugExistsParams{
			CampaignID: campaign.ID,
			Slug:       slug,
			ExcludeID:  "",
		})
		if err != nil {
			logger.Error("Failed to check node slug", "err", err)
			return c.JSON(http.StatusInternalServerError, createNodeResponse{
				Message: "Internal server error",
			})
		}
		if count > 0 {
			return c.JSON(http.StatusUnprocessableEntity, createNodeResponse{
				Message: "An entry with this name already exists.",
			})
		}

		nodeID, err := gonanoid.New()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, createNodeResponse{
				Message: "Internal server error",
			})
		}

		node, err := qtx.CreateNode(ctx, db.CreateNodeParams{
			ID:         nodeID,
			CampaignID: campaign.ID,
			Type:       string(nodeType),
			Subtype:    data.Subtype,
			Name:       data.Name,
			Slug:       slug,
			Summary:    util.SanitizeOptionalText(data.Summary),
			Content:    data.Content,
			Metadata:   data.Metadata,
			Confidence: data.Confidence,
			IsSecret:   data.IsSecret,
		})
		if err != nil {
			if isUniqueViolation(err) {
				return c.JSON(http.StatusUnprocessableEntity, createNodeResponse{
					Message: "An entry with this name already exists.",
				})
			}
			logger.Error("Failed to create node", "err", err)
			return c.JSON(http.StatusInternalServerError, createNodeResponse{
				Message: "Internal server error",
			})
		}

		if err := syncMetadataEdges(ctx, qtx, node); err != nil {
			logger.Error("Failed to sync metadata edges", "err", err)
			return c.JSON(http.StatusInternalServerError, createNodeResponse{
				Message: "Internal server error",
			})
		}

		for _, tagID := range data.TagIDs {
			if _, err := qtx.GetTag(ctx, db.GetTagParams{
				CampaignID: campaign.ID,
				ID:         tagID,
			}); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return c.JSON(http.StatusNotFound, createNodeResponse{
						Message: "Tag not found",
					})
				}
				logger.Error("Failed to get tag", "err", err)
				return c.JSON(http.StatusInternalServerError, createNodeResponse{
					Message: "Internal server error",
				})
			}
			err := qtx.AttachTag(ctx, db.AttachTagParams{
				NodeID: node.ID,
				TagID:  tagID,
			})
			if err != nil {
				logger.Error("Failed to attach tag", "err", err)
				return c.JSON(http.StatusInternalServerError, createNodeResponse{
					Message: "Internal server error",
				})
			}
		}

		if err := tx.Commit(ctx); err != nil {
			logger.Error("Failed to commit transaction", "err", err)
			return c.JSON(http.StatusInternalServerError, createNodeResponse{
				Message: "Internal server error",
			})
		}

		return c.JSON(http.StatusCreated, createNodeResponse{
			Message: "Entry created successfully",
			Node:    &node,
		})
	}
}
