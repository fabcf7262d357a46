package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shift-eg/shift_backend/controllers"
	"github.com/shift-eg/shift_backend/middleware"
)

// RegisterApplicationRoutes sets up the housing application routes
func RegisterApplicationRoutes(e *echo.Echo, db *mongo.Client, applicationController *controllers.ApplicationController) {
	applications := e.Group("/api/applications")
	applications.Use(middleware.JWTMiddleware())
	applications.Use(middleware.ActivityTracker(db))

	applications.POST("", applicationController.SubmitApplication)
	applications.GET("/my", applicationController.GetMyApplications)
}
