// controllers/otp_controller.go
package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"

	"github.com/shift-eg/shift_backend/models"
	"github.com/shift-eg/shift_backend/services"
	"github.com/shift-eg/shift_backend/utils"
)

// OTPController exposes the issuance and verification endpoints
type OTPController struct {
	Service *services.OTPService
	Redis   *redis.Client
	logger  *log.Logger
}

// NewOTPController creates a new OTP controller
func NewOTPController(service *services.OTPService, redisClient *redis.Client) *OTPController {
	return &OTPController{
		Service: service,
		Redis:   redisClient,
		logger:  log.New(os.Stdout, "[OTP] ", log.LstdFlags),
	}
}

// SendOTP handles POST /api/auth/send-otp
func (oc *OTPController) SendOTP(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.SendOtpRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "Invalid request body",
		})
	}

	err := oc.Service.Issue(ctx, req.Email, req.FullName)
	if err != nil {
		var validationErr *services.ValidationError
		var deliveryErr *services.DeliveryError
		var storageErr *services.StorageError

		switch {
		case errors.As(err, &validationErr):
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"error": validationErr.Error(),
			})
		case errors.As(err, &deliveryErr):
			// The code row is already persisted; a resend will reissue
			oc.logger.Printf("delivery error: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"error": "Failed to send email",
			})
		case errors.As(err, &storageErr):
			oc.logger.Printf("storage error: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"error": "Failed to store OTP code",
			})
		default:
			oc.logger.Printf("issuance error: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"error": "Failed to send verification code",
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// VerifyOTP handles POST /api/auth/verify-otp
func (oc *OTPController) VerifyOTP(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.VerifyOtpRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"valid": false,
			"error": "Invalid request body",
		})
	}

	if req.Email == "" || req.Code == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"valid": false,
			"error": "Email and code are required",
		})
	}

	// Attempt limiting is best-effort; a Redis outage never blocks the flow
	if oc.Redis != nil {
		if err := utils.ValidateOTPAttempts(req.Email, oc.Redis); err != nil {
			if err.Error() == "too many OTP attempts" {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"valid": false,
					"error": "Too many attempts. Please request a new code.",
				})
			}
			oc.logger.Printf("attempt limiter unavailable: %v", err)
		}
	}

	result, err := oc.Service.Verify(ctx, req.Email, req.Code)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"valid": false,
				"error": validationErr.Error(),
			})
		}
		oc.logger.Printf("verification error: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"valid": false,
			"error": "Verification failed",
		})
	}

	if !result.Valid {
		message := "Invalid or expired code"
		if result.Reason == services.ReasonInvalidCode {
			message = "Invalid code"
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"valid": false,
			"error": message,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"valid":    true,
		"fullName": result.FullName,
	})
}
