package websocket

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shift-eg/shift_backend/middleware"
)

func dialAdminSocket(t *testing.T, hub *Hub, token string) (*gorilla.Conn, *httptest.Server) {
	t.Helper()

	e := echo.New()
	e.GET("/api/admin/ws", func(c echo.Context) error {
		return HandleAdminSocket(c, hub)
	})
	server := httptest.NewServer(e)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/admin/ws?token=" + token
	conn, _, err := gorilla.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	return conn, server
}

func readEvent(t *testing.T, conn *gorilla.Conn) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	require.NoError(t, conn.ReadJSON(&event))
	return event
}

func TestAdminSocketBroadcast(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, _, err := middleware.GenerateJWT("507f1f77bcf86cd799439011", "admin@example.com", "admin")
	require.NoError(t, err)

	hub := NewHub()
	go hub.Run()

	conn, server := dialAdminSocket(t, hub, token)
	defer server.Close()
	defer conn.Close()

	welcome := readEvent(t, conn)
	assert.Equal(t, "connected", welcome.Type)

	// The register channel is unbuffered, so the client is in the set once
	// the welcome frame has arrived
	hub.NotifyApplicationSubmitted(map[string]string{"reference": "SHIFT-abc12345"})

	event := readEvent(t, conn)
	assert.Equal(t, EventApplicationSubmitted, event.Type)
	data, ok := event.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "SHIFT-abc12345", data["reference"])
}

func TestAdminSocketRejectsNonAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, _, err := middleware.GenerateJWT("507f1f77bcf86cd799439012", "user@example.com", "user")
	require.NoError(t, err)

	hub := NewHub()
	go hub.Run()

	e := echo.New()
	e.GET("/api/admin/ws", func(c echo.Context) error {
		return HandleAdminSocket(c, hub)
	})
	server := httptest.NewServer(e)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/admin/ws?token=" + token
	_, resp, err := gorilla.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestAdminSocketRequiresToken(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	e := echo.New()
	e.GET("/api/admin/ws", func(c echo.Context) error {
		return HandleAdminSocket(c, hub)
	})
	server := httptest.NewServer(e)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/admin/ws"
	_, resp, err := gorilla.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)
}
