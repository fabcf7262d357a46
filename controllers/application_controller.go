// controllers/application_controller.go
package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shift-eg/shift_backend/config"
	"github.com/shift-eg/shift_backend/middleware"
	"github.com/shift-eg/shift_backend/models"
	"github.com/shift-eg/shift_backend/services"
	"github.com/shift-eg/shift_backend/utils"
	"github.com/shift-eg/shift_backend/websocket"
)

// ApplicationController handles housing application intake
type ApplicationController struct {
	DB     *mongo.Client
	Hub    *websocket.Hub
	Mailer services.Mailer
	logger *log.Logger
}

// NewApplicationController creates a new application controller
func NewApplicationController(db *mongo.Client, hub *websocket.Hub, mailer services.Mailer) *ApplicationController {
	return &ApplicationController{
		DB:     db,
		Hub:    hub,
		Mailer: mailer,
		logger: log.New(os.Stdout, "[APPLICATIONS] ", log.LstdFlags),
	}
}

func isAllowedOption(value string, allowed []string) bool {
	for _, option := range allowed {
		if value == option {
			return true
		}
	}
	return false
}

// SubmitApplication handles POST /api/applications
func (apc *ApplicationController) SubmitApplication(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := middleware.GetUserIDFromToken(c)
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	var req models.ApplicationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Please fill in required fields",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}
	req.Email = email

	phone, err := utils.SanitizePhone(req.Phone)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid phone number format",
		})
	}
	req.Phone = phone

	if !isAllowedOption(req.Governorate, models.Governorates) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Please select a governorate",
		})
	}
	if !isAllowedOption(req.HousingType, models.HousingTypes) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Please select housing type",
		})
	}

	now := time.Now()
	application := models.HousingApplication{
		ID:               primitive.NewObjectID(),
		UserID:           objID,
		Reference:        fmt.Sprintf("SHIFT-%s", uuid.NewString()[:8]),
		FullName:         utils.SanitizeInput(req.FullName),
		Email:            req.Email,
		Phone:            req.Phone,
		Governorate:      req.Governorate,
		HousingType:      req.HousingType,
		FamilySize:       req.FamilySize,
		EmploymentStatus: utils.SanitizeInput(req.EmploymentStatus),
		Message:          utils.SanitizeInput(req.Message),
		Status:           models.ApplicationStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	collection := config.GetCollection(apc.DB, "housing_applications")
	if _, err := collection.InsertOne(ctx, application); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to submit application",
		})
	}

	// Dashboards get the new application immediately
	if apc.Hub != nil {
		apc.Hub.NotifyApplicationSubmitted(application)
	}

	// Confirmation email is best-effort; the application is already stored
	if apc.Mailer != nil {
		go func() {
			body := services.ApplicationEmailBody(application.FullName, application.Reference,
				application.Governorate, application.HousingType)
			if err := apc.Mailer.Send(application.Email, services.ApplicationEmailSubject, body); err != nil {
				apc.logger.Printf("confirmation email failed for %s: %v", application.Reference, err)
			}
		}()
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Application submitted successfully",
		Data:    application,
	})
}

// GetMyApplications handles GET /api/applications/my
func (apc *ApplicationController) GetMyApplications(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := middleware.GetUserIDFromToken(c)
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	collection := config.GetCollection(apc.DB, "housing_applications")
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := collection.Find(ctx, bson.M{"userId": objID}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch applications",
		})
	}
	defer cursor.Close(ctx)

	applications := []models.HousingApplication{}
	if err := cursor.All(ctx, &applications); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode applications",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Applications retrieved",
		Data:    applications,
	})
}
