package server

import (
	"github.com/grimoire-app/grimoire/backend/internal/server/middleware"
	"github.com/grimoire-app/grimoire/backend/internal/server/routes"
	"github.com/grimoire-app/grimoire/backend/pkg/taxonomy"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Campaign routes
	apiRoutes.GET("/campaigns", routes.GetCampaignsHandler)
	apiRoutes.POST("/campaigns", routes.CreateCampaignHandler)
	apiRoutes.GET("/campaigns/options", routes.GetCampaignOptionsHandler)
	apiRoutes.GET("/campaigns/:campaign_slug", routes.GetCampaignHandler)
	apiRoutes.PUT("/campaigns/:campaign_slug", routes.UpdateCampaignHandler)
	apiRoutes.DELETE("/campaigns/:campaign_slug", routes.DeleteCampaignHandler)

	// Setup questionnaire routes
	apiRoutes.GET("/campaigns/:campaign_slug/setup", routes.GetSetupHandler)
	apiRoutes.POST("/campaigns/:campaign_slug/setup", routes.SaveSetupHandler)
	apiRoutes.POST("/campaigns/:campaign_slug/setup/complete", routes.CompleteSetupHandler)

	// Entry routes, one resource per node type
	for _, nodeType := range taxonomy.NodeTypes() {
		base := "/campaigns/:campaign_slug/" + taxonomy.Plural(string(nodeType))
		apiRoutes.GET(base, routes.GetNodesHandler(nodeType))
		apiRoutes.POST(base, routes.CreateNodeHandler(nodeType))
		apiRoutes.GET(base+"/options", routes.GetNodeOptionsHandler(nodeType))
		apiRoutes.GET(base+"/:slug", routes.GetNodeHandler(nodeType))
		apiRoutes.PUT(base+"/:slug", routes.UpdateNodeHandler(nodeType))
		apiRoutes.DELETE(base+"/:slug", routes.DeleteNodeHandler(nodeType))
	}

	// Relationship routes
	apiRoutes.GET("/campaigns/:campaign_slug/edges/types", routes.GetEdgeTypesHandler)
	apiRoutes.GET("/campaigns/:campaign_slug/nodes/:node_id/edges", routes.GetNodeEdgesHandler)
	apiRoutes.GET("/campaigns/:campaign_slug/nodes/:node_id/available-targets", routes.GetAvailableTargetsHandler)
	apiRoutes.POST("/campaigns/:campaign_slug/edges", routes.CreateEdgeHandler)
	apiRoutes.PUT("/campaigns/:campaign_slug/edges/:edge_id", routes.UpdateEdgeHandler)
	apiRoutes.DELETE("/campaigns/:campaign_slug/edges/:edge_id", routes.DeleteEdgeHandler)

	// Search route
	apiRoutes.GET("/campaigns/:campaign_slug/search", routes.SearchHandler)

	// Session routes
	apiRoutes.GET("/campaigns/:campaign_slug/sessions", routes.GetSessionsHandler)
	apiRoutes.POST("/campaigns/:campaign_slug/sessions", routes.CreateSessionHandler)
	apiRoutes.GET("/campaigns/:campaign_slug/sessions/:number", routes.GetSessionHandler)
	apiRoutes.PUT("/campaigns/:campaign_slug/sessions/:number", routes.UpdateSessionHandler)
	apiRoutes.DELETE("/campaigns/:campaign_slug/sessions/:number", routes.DeleteSessionHandler)

	// Tag routes
	apiRoutes.GET("/campaigns/:campaign_slug/tags", routes.GetTagsHandler)
	apiRoutes.POST("/campaigns/:campaign_slug/tags", routes.CreateTagHandler)
	apiRoutes.DELETE("/campaigns/:campaign_slug/tags/:tag_id", routes.DeleteTagHandler)
	apiRoutes.POST("/campaigns/:campaign_slug/nodes/:node_id/tags/:tag_id", routes.AttachTagHandler)
	apiRoutes.DELETE("/campaigns/:campaign_slug/nodes/:node_id/tags/:tag_id", routes.DetachTagHandler)

	// Portrait routes
	apiRoutes.POST("/campaigns/:campaign_slug/nodes/:node_id/portrait", routes.UploadPortraitHandler)
	apiRoutes.GET("/campaigns/:campaign_slug/nodes/:node_id/portrait", routes.GetPortraitHandler)
	apiRoutes.DELETE("/campaigns/:campaign_slug/nodes/:node_id/portrait", routes.DeletePortraitHandler)
}
