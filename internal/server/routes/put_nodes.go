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
)

// UpdateNodeHandler returns the update handler for one node type. A
// rename regenerates the slug, so the entry moves to a new URL.
func UpdateNodeHandler(nodeType taxonomy.NodeType) echo.HandlerFunc {
	return func(c echo.Context) error {
		type updateNodeBody struct {
			CampaignSlug string          `param:"campaign_slug" validate:"required"`
			Slug         string          `param:"slug" validate:"required"`
			Name         string          `json:"name" validate:"required,max=255"`
			Subtype      *string         `json:"subtype"`
			Summary      *string         `json:"summary" validate:"omitempty,max=500"`
			Content      json.RawMessage `json:"content"`
			Metadata     json.RawMessage `json:"metadata"`
			Confidence   string          `json:"confidence"`
			IsSecret     bool            `json:"is_secret"`
			TagIDs       *[]int64        `json:"tag_ids"`
		}

		type updateNodeResponse struct {
			Message string   `json:"message"`
			Node    *db.Node `json:"node,omitempty"`
		}

		data := new(updateNodeBody)
		if err := c.Bind(data); err != nil {
			return c.JSON(http.StatusBadRequest, updateNodeResponse{
				Message: "Invalid request body",
			})
		}
		if err := c.Validate(data); err != nil {
			return c.JSON(http.StatusBadRequest, updateNodeResponse{
				Message: "Invalid request body",
			})
		}
		if data.Subtype != nil && !taxonomy.ValidSubtype(nodeType, *data.Subtype) {
			return c.JSON(http.StatusBadRequest, updateNodeResponse{
				Message: "Invalid subtype",
			})
		}
		if data.Confidence == "" {
			data.Confidence = "canon"
		}
		if !taxonomy.ValidConfidence(data.Confidence) {
			return c.JSON(http.StatusBadRequest, updateNodeResponse{
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
			return c.JSON(http.StatusInternalServerError, updateNodeResponse{
				Message: "Internal server error",
			})
		}
		defer tx.Rollback(ctx)
		q := db.New(conn)
		qtx := q.WithTx(tx)

		campaign, err := campaignForUser(ctx, qtx, user.UserID, data.CampaignSlug)
		if err != nil {
			if errors.Is(err, errCampaignNotFound) {
				return c.JSON(http.StatusNotFound, updateNodeResponse{
					Message: "Campaign not found",
				})
			}
			logger.Error("Failed to get campaign", "err", err)
			return c.JSON(http.StatusInternalServerError, updateNodeResponse{
				Message: "Internal server error",
			})
		}

		node, err := qtx.GetNodeBySlug(ctx, db.GetNodeBySlugParams{
			CampaignID: campaign.ID,
			Type:       string(nodeType),
			Slug:       data.Slug,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, updateNodeResponse{
					Message: "Entry not found",
				})
			}
			logger.Error("Failed to get node", "err", err)
			return c.JSON(http.StatusInternalServerError, updateNodeResponse{
				Message: "Internal server error",
			})
		}

		slug := node.Slug
		if data.Name != node.Name {
			slug = util.Slugify(data.Name)
			if slug == "" {
				return c.JSON(http.StatusBadRequest, updateNodeResponse{
					Message: "Invalid name",
				})
			}
			count, err := qtx.NodeSlugExists(ctx, db.NodeSlugExistsParams{
				CampaignID: campaign.ID,
				Slug:       slug,
				ExcludeID:  node.ID,
			})
			if err != nil {
				logger.Error("Failed to check node slug", "err", err)
				return c.JSON(http.StatusInternalServerError, updateNodeResponse{
					Message: "Internal server error",
				})
			}
			if count > 0 {
				return c.JSON(http.StatusUnprocessableEntity, updateNodeResponse{
					Message: "An entry with this name already exists.",
				})
			}
		}

		updated, err := qtx.UpdateNode(ctx, db.UpdateNodeParams{
			CampaignID: campaign.ID,
			ID:         node.ID,
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
				return c.JSON(http.StatusUnprocessableEntity, updateNodeResponse{
					Message: "An entry with this name already exists.",
				})
			}
			logger.Error("Failed to update node", "err", err)
			return c.JSON(http.StatusInternalServerError, updateNodeResponse{
				Message: "Internal server error",
			})
		}

		if err := syncMetadataEdges(ctx, qtx, updated); err != nil {
			logger.Error("Failed to sync metadata edges", "err", err)
			return c.JSON(http.StatusInternalServerError, updateNodeResponse{
				Message: "Internal server error",
			})
		}

		if data.TagIDs != nil {
			if err := qtx.DeleteNodeTagLinks(ctx, updated.ID); err != nil {
				logger.Error("Failed to clear node tags", "err", err)
				return c.JSON(http.StatusInternalServerError, updateNodeResponse{
					Message: "Internal server error",
				})
			}
			for _, tagID := range *data.TagIDs {
				if _, err := qtx.GetTag(ctx, db.GetTagParams{
					CampaignID: campaign.ID,
					ID:         tagID,
				}); err != nil {
					if errors.Is(err, pgx.ErrNoRows) {
						return c.JSON(http.StatusNotFound, updateNodeResponse{
							Message: "Tag not found",
						})
					}
					logger.Error("Failed to get tag", "err", err)
					return c.JSON(http.StatusInternalServerError, updateNodeResponse{
						Message: "Internal server error",
					})
				}
				err := qtx.AttachTag(ctx, db.AttachTagParams{
					NodeID: updated.ID,
					TagID:  tagID,
				})
				if err != nil {
					logger.Error("Failed to attach tag", "err", err)
					return c.JSON(http.StatusInternalServerError, updateNodeResponse{
						Message: "Internal server error",
					})
				}
			}
		}

		if err := tx.Commit(ctx); err != nil {
			logger.Error("Failed to commit transaction", "err", err)
			return c.JSON(http.StatusInternalServerError, updateNodeResponse{
				Message: "Internal server error",
			})
		}

		return c.JSON(http.StatusOK, updateNodeResponse{
			Message: "Entry updated successfully",
			Node:    &updated,
		})
	}
}
