package security

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ValidateContentType ensures the request has an accepted content type
func ValidateContentType(contentType string) bool {
	// Strip any charset parameter before matching
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	contentType = strings.TrimSpace(strings.ToLower(contentType))

	validTypes := map[string]bool{
		"application/json": true,
	}
	return validTypes[contentType]
}

// EnforceJSONBody rejects API write requests whose body is not JSON
func EnforceJSONBody() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			method := c.Request().Method
			if method != http.MethodPost && method != http.MethodPut && method != http.MethodPatch {
				return next(c)
			}
			if !strings.HasPrefix(c.Path(), "/api/") {
				return next(c)
			}
			if c.Request().ContentLength == 0 {
				return next(c)
			}
			if !ValidateContentType(c.Request().Header.Get(echo.HeaderContentType)) {
				return echo.NewHTTPError(http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			}
			return next(c)
		}
	}
}
