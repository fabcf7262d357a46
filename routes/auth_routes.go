package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/shift-eg/shift_backend/controllers"
	"github.com/shift-eg/shift_backend/middleware"
)

// RegisterAuthRoutes sets up all authentication and verification routes
func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController, otpController *controllers.OTPController) {
	// Public verification routes
	e.POST("/api/auth/send-otp", otpController.SendOTP)
	e.POST("/api/auth/verify-otp", otpController.VerifyOTP)

	// Public authentication routes
	e.POST("/api/auth/signup", authController.Signup)
	e.POST("/api/auth/login", authController.Login)
	e.GET("/api/auth/validate-token", authController.ValidateToken)
	e.POST("/api/auth/refresh-token", authController.RefreshToken)
	e.POST("/api/auth/remember-me/get", authController.GetRememberedCredentials)
	e.POST("/api/auth/remember-me/remove", authController.RemoveRememberedCredentials)

	// Protected routes
	protected := e.Group("/api/auth")
	protected.Use(middleware.JWTMiddleware())
	protected.POST("/logout", authController.Logout)
}
