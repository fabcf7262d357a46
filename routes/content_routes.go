package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/shift-eg/shift_backend/controllers"
)

// RegisterContentRoutes sets up the public site content routes
func RegisterContentRoutes(e *echo.Echo) {
	contentController := controllers.NewContentController()

	content := e.Group("/api/content")
	content.GET("/pillars", contentController.GetPillars)
	content.GET("/center", contentController.GetCenterFeatures)
	content.GET("/housing", contentController.GetHousingFeatures)
	content.GET("/form-options", contentController.GetFormOptions)
}
