package server

import (
	"github.com/OFFIS-RIT/contingency/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Analysis routes
	apiRoutes.POST("/analyses", routes.CreateAnalysisHandler)
	apiRoutes.GET("/analyses", routes.GetAnalysesHandler)
	apiRoutes.GET("/analyses/:id", routes.GetAnalysisHandler)
	apiRoutes.GET("/analyses/:id/download", routes.DownloadAnalysisHandler)

	// Progress routes
	apiRoutes.GET("/progress/:task_id", routes.GetProgressHandler)

	// Example routes
	apiRoutes.GET("/examples", routes.GetExamplesHandler)
	apiRoutes.GET("/examples/:name", routes.GetExampleHandler)
}
