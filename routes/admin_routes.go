package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/shift-eg/shift_backend/controllers"
	"github.com/shift-eg/shift_backend/middleware"
	"github.com/shift-eg/shift_backend/websocket"
)

// RegisterAdminRoutes sets up all admin dashboard routes
func RegisterAdminRoutes(e *echo.Echo, adminController *controllers.AdminController, hub *websocket.Hub) {
	admin := e.Group("/api/admin")

	// Public routes (no auth required)
	admin.POST("/login", adminController.AdminLogin)

	// WebSocket feed authenticates via token query param inside the handler
	admin.GET("/ws", func(c echo.Context) error {
		return websocket.HandleAdminSocket(c, hub)
	})

	// Protected routes (require admin authentication)
	protected := admin.Group("")
	protected.Use(middleware.JWTMiddleware())
	protected.Use(middleware.RequireAdmin())

	protected.GET("/applications", adminController.GetAllApplications)
	protected.PUT("/applications/:id/status", adminController.UpdateApplicationStatus)
	protected.GET("/users", adminController.GetAllUsers)
}
