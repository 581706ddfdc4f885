package routes

import (
	"errors"
	"net/http"

	"github.com/grimoire-app/grimoire/backend/internal/db"
	"github.com/grimoire-app/grimoire/backend/internal/server/middleware"
	"github.com/grimoire-app/grimoire/backend/pkg/logger"
	"github.com/grimoire-app/grimoire/backend/pkg/taxonomy"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// DeleteNodeHandler returns the delete handler for one node type. The
// node is soft deleted, its edges and tag links are removed in the same
// transaction so no dangling references survive. The stored portrait is
// kept with the row; it is purged with the campaign's files.
func DeleteNodeHandler(nodeType taxonomy.NodeType) echo.HandlerFunc {
	return func(c echo.Context) error {
		type deleteNodeParams struct {
			CampaignSlug string `param:"campaign_slug" validate:"required"`
			Slug         string `param:"slug" validate:"required"`
		}

		type deleteNodeResponse struct {
			Message string `json:"message"`
		}

		params := new(deleteNodeParams)
		if err := c.Bind(params); err != nil {
			return c.JSON(http.StatusBadRequest, deleteNodeResponse{
				Message: "Invalid request body",
			})
		}
		if err := c.Validate(params); err != nil {
			return c.JSON(http.StatusBadRequest, deleteNodeResponse{
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
			return c.JSON(http.StatusInternalServerError, deleteNodeResponse{
				Message: "Internal server error",
			})
		}
		defer tx.Rollback(ctx)
		q := db.New(conn)
		qtx := q.WithTx(tx)

		campaign, err := campaignForUser(ctx, qtx, user.UserID, params.CampaignSlug)
		if err != nil {
			if errors.Is(err, errCampaignNotFound) {
				return c.JSON(http.StatusNotFound, deleteNodeResponse{
					Message: "Campaign not found",
				})
			}
			logger.Error("Failed to get campaign", "err", err)
			return c.JSON(http.StatusInternalServerError, deleteNodeResponse{
				Message: "Internal server error",
			})
		}

		node, err := qtx.GetNodeBySlug(ctx, db.GetNodeBySlugParams{
			CampaignID: campaign.ID,
			Type:       string(nodeType),
			Slug:       params.Slug,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, deleteNodeResponse{
					Message: "Entry not found",
				})
			}
			logger.Error("Failed to get node", "err", err)
			return c.JSON(http.StatusInternalServerError, deleteNodeResponse{
				Message: "Internal server error",
			})
		}

		err = qtx.DeleteEdgesForNode(ctx, db.DeleteEdgesForNodeParams{
			CampaignID: campaign.ID,
			NodeID:     node.ID,
		})
		if err != nil {
			logger.Error("Failed to delete node edges", "err", err)
			return c.JSON(http.StatusInternalServerError, deleteNodeResponse{
				Message: "Internal server error",
			})
		}

		if err := qtx.DeleteNodeTagLinks(ctx, node.ID); err != nil {
			logger.Error("Failed to delete node tag links", "err", err)
			return c.JSON(http.StatusInternalServerError, deleteNodeResponse{
				Message: "Internal server error",
			})
		}

		err = qtx.SoftDeleteNode(ctx, db.SoftDeleteNodeParams{
			CampaignID: campaign.ID,
			ID:         node.ID,
		})
		if err != nil {
			logger.Error("Failed to delete node", "err", err)
			return c.JSON(http.StatusInternalServerError, deleteNodeResponse{
				Message: "Internal server error",
			})
		}

		if err := tx.Commit(ctx); err != nil {
			logger.Error("Failed to commit transaction", "err", err)
			return c.JSON(http.StatusInternalServerError, deleteNodeResponse{
				Message: "Internal server error",
			})
		}

		return c.JSON(http.StatusOK, deleteNodeResponse{
			Message: "Entry deleted successfully",
		})
	}
}
