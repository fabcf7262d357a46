package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shift-eg/shift_backend/models"
	"github.com/shift-eg/shift_backend/services"
)

type stubOTPStore struct {
	rows []*models.OtpCode
}

func (s *stubOTPStore) InvalidateActive(ctx context.Context, email string) error {
	for _, row := range s.rows {
		if row.Email == email && !row.Used {
			row.Used = true
		}
	}
	return nil
}

func (s *stubOTPStore) Insert(ctx context.Context, code *models.OtpCode) error {
	if code.ID.IsZero() {
		code.ID = primitive.NewObjectID()
	}
	s.rows = append(s.rows, code)
	return nil
}

func (s *stubOTPStore) FindActive(ctx context.Context, email string, now time.Time) (*models.OtpCode, error) {
	var newest *models.OtpCode
	for _, row := range s.rows {
		if row.Email == email && !row.Used && row.ExpiresAt.After(now) {
			if newest == nil || row.CreatedAt.After(newest.CreatedAt) {
				newest = row
			}
		}
	}
	return newest, nil
}

func (s *stubOTPStore) MarkUsed(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	for _, row := range s.rows {
		if row.ID == id {
			row.Used = true
			row.VerifiedAt = &at
		}
	}
	return nil
}

func (s *stubOTPStore) VerifiedSince(ctx context.Context, email string, since time.Time) (bool, error) {
	for _, row := range s.rows {
		if row.Email == email && row.Used && row.VerifiedAt != nil && row.VerifiedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}

type stubMailer struct {
	err  error
	sent int
}

func (m *stubMailer) Send(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent++
	return nil
}

func postJSON(t *testing.T, handler echo.HandlerFunc, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler(c))

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return rec, payload
}

func TestSendOTPSuccess(t *testing.T) {
	store := &stubOTPStore{}
	mailer := &stubMailer{}
	controller := NewOTPController(services.NewOTPService(store, mailer), nil)

	rec, payload := postJSON(t, controller.SendOTP, "/api/auth/send-otp",
		`{"email":"user@example.com","fullName":"Some User"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, 1, mailer.sent)
	require.Len(t, store.rows, 1)
}

func TestSendOTPInvalidEmail(t *testing.T) {
	controller := NewOTPController(services.NewOTPService(&stubOTPStore{}, &stubMailer{}), nil)

	rec, payload := postJSON(t, controller.SendOTP, "/api/auth/send-otp",
		`{"email":"not-an-email","fullName":"Some User"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, payload["error"])
}

func TestSendOTPDeliveryFailure(t *testing.T) {
	store := &stubOTPStore{}
	mailer := &stubMailer{err: assert.AnError}
	controller := NewOTPController(services.NewOTPService(store, mailer), nil)

	rec, payload := postJSON(t, controller.SendOTP, "/api/auth/send-otp",
		`{"email":"user@example.com","fullName":"Some User"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to send email", payload["error"])
	// The row is persisted even though the email never left
	require.Len(t, store.rows, 1)
}

func TestVerifyOTPFlow(t *testing.T) {
	store := &stubOTPStore{}
	service := services.NewOTPService(store, &stubMailer{})
	controller := NewOTPController(service, nil)

	require.NoError(t, service.Issue(context.Background(), "user@example.com", "Some User"))
	require.Len(t, store.rows, 1)
	code := store.rows[0].Code

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	rec, payload := postJSON(t, controller.VerifyOTP, "/api/auth/verify-otp",
		`{"email":"user@example.com","code":"`+wrong+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, payload["valid"])
	assert.Equal(t, "Invalid code", payload["error"])

	rec, payload = postJSON(t, controller.VerifyOTP, "/api/auth/verify-otp",
		`{"email":"user@example.com","code":"`+code+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, payload["valid"])
	assert.Equal(t, "Some User", payload["fullName"])

	// Replay of a consumed code
	rec, payload = postJSON(t, controller.VerifyOTP, "/api/auth/verify-otp",
		`{"email":"user@example.com","code":"`+code+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, payload["valid"])
	assert.Equal(t, "Invalid or expired code", payload["error"])
}

func TestVerifyOTPMissingFields(t *testing.T) {
	controller := NewOTPController(services.NewOTPService(&stubOTPStore{}, &stubMailer{}), nil)

	rec, payload := postJSON(t, controller.VerifyOTP, "/api/auth/verify-otp",
		`{"email":"user@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, payload["valid"])
	assert.NotEmpty(t, payload["error"])
}
