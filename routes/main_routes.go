package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shift-eg/shift_backend/config"
	"github.com/shift-eg/shift_backend/controllers"
	"github.com/shift-eg/shift_backend/services"
	"github.com/shift-eg/shift_backend/websocket"
)

// SetupRoutes configures all API routes by calling individual route registration functions
func SetupRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub, otpService *services.OTPService, mailer services.Mailer) {
	authController := controllers.NewAuthController(db, otpService)
	otpController := controllers.NewOTPController(otpService, config.GetRedisClient())
	applicationController := controllers.NewApplicationController(db, hub, mailer)
	adminController := controllers.NewAdminController(db, hub)

	RegisterAuthRoutes(e, authController, otpController)
	RegisterApplicationRoutes(e, db, applicationController)
	RegisterAdminRoutes(e, adminController, hub)
	RegisterContentRoutes(e)
}
