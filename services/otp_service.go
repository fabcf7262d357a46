// services/otp_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/shift-eg/shift_backend/models"
	"github.com/shift-eg/shift_backend/repositories"
	"github.com/shift-eg/shift_backend/utils"
)

// OTPValidity is the window during which an issued code may be verified
const OTPValidity = 10 * time.Minute

// SignupWindow is how long after a successful verification the email still
// counts as proven for account creation
const SignupWindow = 15 * time.Minute

// Verification failure reasons
const (
	ReasonInvalidOrExpired = "invalid_or_expired"
	ReasonInvalidCode      = "invalid_code"
)

// VerifyResult is the outcome of a verification attempt. A mismatch is a
// negative result, not an error.
type VerifyResult struct {
	Valid    bool
	Reason   string
	FullName string
}

// OTPService orchestrates issuance and verification of email codes
type OTPService struct {
	store  repositories.OTPStore
	mailer Mailer
	logger *log.Logger

	// Now is the clock used for expiry decisions, replaceable in tests
	Now func() time.Time

	generate func() (string, error)
}

// NewOTPService creates a new OTP service
func NewOTPService(store repositories.OTPStore, mailer Mailer) *OTPService {
	return &OTPService{
		store:    store,
		mailer:   mailer,
		logger:   log.New(os.Stdout, "[OTP] ", log.LstdFlags),
		Now:      time.Now,
		generate: utils.GenerateOTP,
	}
}

// Issue invalidates any live codes for the email, stores a fresh one and
// dispatches it. After a DeliveryError the stored row remains valid, so the
// caller can ask the user to retry against a resend.
func (s *OTPService) Issue(ctx context.Context, email, fullName string) error {
	email, err := utils.SanitizeEmail(email)
	if err != nil {
		return &ValidationError{Field: "email", Reason: err.Error()}
	}
	fullName = utils.SanitizeInput(fullName)
	if err := utils.ValidateFullName(fullName); err != nil {
		return &ValidationError{Field: "fullName", Reason: err.Error()}
	}

	// Not a storage failure; nothing has been written yet
	code, err := s.generate()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	// Only the most recent code is ever acceptable
	if err := s.store.InvalidateActive(ctx, email); err != nil {
		return &StorageError{Op: "invalidate previous codes", Err: err}
	}

	now := s.Now()
	row := &models.OtpCode{
		Email:     email,
		FullName:  fullName,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(OTPValidity),
		Used:      false,
	}
	if err := s.store.Insert(ctx, row); err != nil {
		return &StorageError{Op: "store code", Err: err}
	}

	if err := s.mailer.Send(email, OTPEmailSubject, OTPEmailBody(fullName, code)); err != nil {
		s.logger.Printf("delivery failed for %s: %v", email, err)
		return &DeliveryError{Err: err}
	}

	s.logger.Printf("code issued for %s, expires at %s", email, row.ExpiresAt.Format(time.RFC3339))
	return nil
}

// Verify compares the supplied code against the single live row for the
// email. Comparison is exact-string; the caller is expected to have stripped
// non-digits, but nothing here assumes it.
func (s *OTPService) Verify(ctx context.Context, email, code string) (*VerifyResult, error) {
	email, err := utils.SanitizeEmail(email)
	if err != nil {
		return nil, &ValidationError{Field: "email", Reason: err.Error()}
	}
	if code == "" {
		return nil, &ValidationError{Field: "code", Reason: "code is required"}
	}

	now := s.Now()
	row, err := s.store.FindActive(ctx, email, now)
	if err != nil {
		return nil, &StorageError{Op: "look up code", Err: err}
	}
	if row == nil {
		return &VerifyResult{Valid: false, Reason: ReasonInvalidOrExpired}, nil
	}

	if row.Code != code {
		// Row stays live so the user can retry until expiry
		return &VerifyResult{Valid: false, Reason: ReasonInvalidCode}, nil
	}

	if err := s.store.MarkUsed(ctx, row.ID, now); err != nil {
		// The match already happened; the result stays valid
		s.logger.Printf("failed to mark code used for %s: %v", email, err)
	}

	return &VerifyResult{Valid: true, FullName: row.FullName}, nil
}

// VerifiedRecently reports whether the email passed verification inside the
// signup window
func (s *OTPService) VerifiedRecently(ctx context.Context, email string) (bool, error) {
	email, err := utils.SanitizeEmail(email)
	if err != nil {
		return false, &ValidationError{Field: "email", Reason: err.Error()}
	}
	ok, err := s.store.VerifiedSince(ctx, email, s.Now().Add(-SignupWindow))
	if err != nil {
		return false, &StorageError{Op: "check verification", Err: err}
	}
	return ok, nil
}
