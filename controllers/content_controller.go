// controllers/content_controller.go
package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shift-eg/shift_backend/models"
)

// ContentController serves the fixed site content
type ContentController struct{}

// NewContentController creates a new content controller
func NewContentController() *ContentController {
	return &ContentController{}
}

// GetPillars handles GET /api/content/pillars
func (cc *ContentController) GetPillars(c echo.Context) error {
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Pillars retrieved",
		Data:    models.Pillars,
	})
}

// GetCenterFeatures handles GET /api/content/center
func (cc *ContentController) GetCenterFeatures(c echo.Context) error {
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Center features retrieved",
		Data:    models.CenterFeatures,
	})
}

// GetHousingFeatures handles GET /api/content/housing
func (cc *ContentController) GetHousingFeatures(c echo.Context) error {
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Housing features retrieved",
		Data:    models.HousingFeatures,
	})
}

// GetFormOptions handles GET /api/content/form-options
func (cc *ContentController) GetFormOptions(c echo.Context) error {
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Form options retrieved",
		Data: models.FormOptions{
			Governorates: models.Governorates,
			HousingTypes: models.HousingTypes,
		},
	})
}
