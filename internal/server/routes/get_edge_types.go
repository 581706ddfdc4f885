package routes

import (
	"net/http"

	"github.com/grimoire-app/grimoire/backend/pkg/catalog"

	"github.com/labstack/echo/v4"
)

// GetEdgeTypesHandler returns the relationship type catalog, grouped by
// category for the relationship form and flattened for validation and
// pickers. The catalog is static, no campaign lookup is needed.
func GetEdgeTypesHandler(c echo.Context) error {
	type getEdgeTypesResponse struct {
		Types      []catalog.Entry    `json:"types"`
		Categories []catalog.Category `json:"categories"`
	}

	return c.JSON(http.StatusOK, getEdgeTypesResponse{
		Types:      catalog.All(),
		Categories: catalog.Categories(),
	})
}
