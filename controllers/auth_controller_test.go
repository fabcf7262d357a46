package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shift-eg/shift_backend/middleware"
)

func validateToken(t *testing.T, controller *AuthController, token string) map[string]interface{} {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/validate-token", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, controller.ValidateToken(c))

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestValidateTokenRejectsLoggedOutToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, _, err := middleware.GenerateJWT("507f1f77bcf86cd799439011", "user@example.com", "user")
	require.NoError(t, err)

	// The blacklist check runs before any user lookup, so no database is needed
	controller := NewAuthController(nil, nil)

	middleware.BlacklistToken(token, time.Now().Add(middleware.AccessTokenTTL))

	payload := validateToken(t, controller, token)
	assert.Equal(t, false, payload["valid"])
	assert.Equal(t, "Token has been invalidated", payload["message"])
}

func TestValidateTokenRejectsMissingOrGarbageToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	controller := NewAuthController(nil, nil)

	payload := validateToken(t, controller, "")
	assert.Equal(t, false, payload["valid"])

	payload = validateToken(t, controller, "not-a-jwt")
	assert.Equal(t, false, payload["valid"])
}
