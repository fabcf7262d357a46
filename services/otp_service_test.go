package services

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shift-eg/shift_backend/models"
)

// memoryOTPStore mirrors the MongoDB store's query semantics in memory
type memoryOTPStore struct {
	rows        []*models.OtpCode
	insertErr   error
	findErr     error
	markUsedErr error
}

func (s *memoryOTPStore) InvalidateActive(ctx context.Context, email string) error {
	for _, row := range s.rows {
		if row.Email == email && !row.Used {
			row.Used = true
		}
	}
	return nil
}

func (s *memoryOTPStore) Insert(ctx context.Context, code *models.OtpCode) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	if code.ID.IsZero() {
		code.ID = primitive.NewObjectID()
	}
	s.rows = append(s.rows, code)
	return nil
}

func (s *memoryOTPStore) FindActive(ctx context.Context, email string, now time.Time) (*models.OtpCode, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	live := []*models.OtpCode{}
	for _, row := range s.rows {
		if row.Email == email && !row.Used && row.ExpiresAt.After(now) {
			live = append(live, row)
		}
	}
	if len(live) == 0 {
		return nil, nil
	}
	sort.Slice(live, func(i, j int) bool {
		return live[i].CreatedAt.After(live[j].CreatedAt)
	})
	return live[0], nil
}

func (s *memoryOTPStore) MarkUsed(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	if s.markUsedErr != nil {
		return s.markUsedErr
	}
	for _, row := range s.rows {
		if row.ID == id {
			row.Used = true
			row.VerifiedAt = &at
		}
	}
	return nil
}

func (s *memoryOTPStore) VerifiedSince(ctx context.Context, email string, since time.Time) (bool, error) {
	for _, row := range s.rows {
		if row.Email == email && row.Used && row.VerifiedAt != nil && row.VerifiedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryOTPStore) liveRows(email string, now time.Time) []*models.OtpCode {
	live := []*models.OtpCode{}
	for _, row := range s.rows {
		if row.Email == email && !row.Used && row.ExpiresAt.After(now) {
			live = append(live, row)
		}
	}
	return live
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (m *fakeMailer) Send(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func newTestService(store *memoryOTPStore, mailer *fakeMailer, now time.Time) *OTPService {
	svc := NewOTPService(store, mailer)
	svc.Now = func() time.Time { return now }
	return svc
}

func issuedCode(t *testing.T, store *memoryOTPStore, email string) string {
	t.Helper()
	require.NotEmpty(t, store.rows)
	last := store.rows[len(store.rows)-1]
	require.Equal(t, email, last.Email)
	return last.Code
}

func TestIssueStoresCodeAndSendsEmail(t *testing.T) {
	store := &memoryOTPStore{}
	mailer := &fakeMailer{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(store, mailer, now)

	err := svc.Issue(context.Background(), "Ahmed@Example.com", "Ahmed Hassan")
	require.NoError(t, err)

	live := store.liveRows("ahmed@example.com", now)
	require.Len(t, live, 1)
	row := live[0]
	assert.Equal(t, "ahmed@example.com", row.Email)
	assert.Equal(t, "Ahmed Hassan", row.FullName)
	assert.Regexp(t, `^\d{6}$`, row.Code)
	assert.Equal(t, now.Add(10*time.Minute), row.ExpiresAt)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ahmed@example.com", mailer.sent[0].to)
	assert.Equal(t, OTPEmailSubject, mailer.sent[0].subject)
	assert.Contains(t, mailer.sent[0].body, row.Code)
	assert.Contains(t, mailer.sent[0].body, "Ahmed Hassan")
}

func TestIssueInvalidatesPreviousCodes(t *testing.T) {
	store := &memoryOTPStore{}
	mailer := &fakeMailer{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(store, mailer, now)

	// Fixed codes keep the scenario deterministic
	codes := []string{"111111", "222222"}
	svc.generate = func() (string, error) {
		code := codes[0]
		codes = codes[1:]
		return code, nil
	}

	require.NoError(t, svc.Issue(context.Background(), "user@example.com", "Some User"))
	firstCode := issuedCode(t, store, "user@example.com")

	now = now.Add(time.Minute)
	svc.Now = func() time.Time { return now }
	require.NoError(t, svc.Issue(context.Background(), "user@example.com", "Some User"))

	// Only the newest row is live
	live := store.liveRows("user@example.com", now)
	require.Len(t, live, 1)
	assert.Equal(t, now, live[0].CreatedAt)
	secondCode := live[0].Code

	// The earlier row was flipped to used by the reissue
	require.Len(t, store.rows, 2)
	assert.True(t, store.rows[0].Used)
	assert.Equal(t, firstCode, store.rows[0].Code)

	// The first code no longer verifies; only the newest is compared
	result, err := svc.Verify(context.Background(), "user@example.com", firstCode)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, ReasonInvalidCode, result.Reason)

	// The reissued code still does
	result, err = svc.Verify(context.Background(), "user@example.com", secondCode)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestIssueValidation(t *testing.T) {
	store := &memoryOTPStore{}
	svc := newTestService(store, &fakeMailer{}, time.Now())

	err := svc.Issue(context.Background(), "not-an-email", "Some User")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "email", vErr.Field)

	err = svc.Issue(context.Background(), "user@example.com", "A")
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "fullName", vErr.Field)

	assert.Empty(t, store.rows)
}

func TestIssueDeliveryFailureKeepsStoredCode(t *testing.T) {
	store := &memoryOTPStore{}
	mailer := &fakeMailer{err: errors.New("smtp unreachable")}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(store, mailer, now)

	err := svc.Issue(context.Background(), "user@example.com", "Some User")
	var dErr *DeliveryError
	require.ErrorAs(t, err, &dErr)

	// The row was persisted before the send attempt and is still verifiable
	live := store.liveRows("user@example.com", now)
	require.Len(t, live, 1)

	result, err := svc.Verify(context.Background(), "user@example.com", live[0].Code)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestIssueGenerateFailureIsNotStorage(t *testing.T) {
	store := &memoryOTPStore{}
	svc := newTestService(store, &fakeMailer{}, time.Now())
	svc.generate = func() (string, error) { return "", errors.New("entropy source unavailable") }

	err := svc.Issue(context.Background(), "user@example.com", "Some User")
	require.Error(t, err)

	// Nothing was written, so the error must not claim storage
	var sErr *StorageError
	assert.False(t, errors.As(err, &sErr))
	assert.Empty(t, store.rows)
}

func TestIssueStorageFailure(t *testing.T) {
	store := &memoryOTPStore{insertErr: errors.New("write concern failed")}
	svc := newTestService(store, &fakeMailer{}, time.Now())

	err := svc.Issue(context.Background(), "user@example.com", "Some User")
	var sErr *StorageError
	require.ErrorAs(t, err, &sErr)
}

func TestVerifyCorrectCode(t *testing.T) {
	store := &memoryOTPStore{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(store, &fakeMailer{}, now)

	require.NoError(t, svc.Issue(context.Background(), "ahmed@example.com", "Ahmed Hassan"))
	code := issuedCode(t, store, "ahmed@example.com")

	result, err := svc.Verify(context.Background(), "ahmed@example.com", code)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "Ahmed Hassan", result.FullName)

	// A code is single-use
	result, err = svc.Verify(context.Background(), "ahmed@example.com", code)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, ReasonInvalidOrExpired, result.Reason)
}

func TestVerifyWrongCodeLeavesRowLive(t *testing.T) {
	store := &memoryOTPStore{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(store, &fakeMailer{}, now)

	require.NoError(t, svc.Issue(context.Background(), "user@example.com", "Some User"))
	code := issuedCode(t, store, "user@example.com")

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	result, err := svc.Verify(context.Background(), "user@example.com", wrong)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, ReasonInvalidCode, result.Reason)

	// The real code still works after a failed guess
	result, err = svc.Verify(context.Background(), "user@example.com", code)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestVerifyExpiredCode(t *testing.T) {
	store := &memoryOTPStore{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(store, &fakeMailer{}, now)

	require.NoError(t, svc.Issue(context.Background(), "user@example.com", "Some User"))
	code := issuedCode(t, store, "user@example.com")

	svc.Now = func() time.Time { return now.Add(10*time.Minute + time.Second) }
	result, err := svc.Verify(context.Background(), "user@example.com", code)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, ReasonInvalidOrExpired, result.Reason)
}

func TestVerifyNoCodeIssued(t *testing.T) {
	svc := newTestService(&memoryOTPStore{}, &fakeMailer{}, time.Now())

	result, err := svc.Verify(context.Background(), "nobody@example.com", "123456")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, ReasonInvalidOrExpired, result.Reason)
}

func TestVerifyEmptyCode(t *testing.T) {
	svc := newTestService(&memoryOTPStore{}, &fakeMailer{}, time.Now())

	_, err := svc.Verify(context.Background(), "user@example.com", "")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "code", vErr.Field)
}

func TestVerifyMarkUsedFailureStillValid(t *testing.T) {
	store := &memoryOTPStore{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(store, &fakeMailer{}, now)

	require.NoError(t, svc.Issue(context.Background(), "user@example.com", "Some User"))
	code := issuedCode(t, store, "user@example.com")

	store.markUsedErr = errors.New("update failed")
	result, err := svc.Verify(context.Background(), "user@example.com", code)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "Some User", result.FullName)
}

func TestVerifiedRecently(t *testing.T) {
	store := &memoryOTPStore{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(store, &fakeMailer{}, now)

	ok, err := svc.VerifiedRecently(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, svc.Issue(context.Background(), "user@example.com", "Some User"))
	code := issuedCode(t, store, "user@example.com")
	result, err := svc.Verify(context.Background(), "user@example.com", code)
	require.NoError(t, err)
	require.True(t, result.Valid)

	ok, err = svc.VerifiedRecently(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	// Codes killed by a reissue never count as verified
	require.NoError(t, svc.Issue(context.Background(), "other@example.com", "Other User"))
	require.NoError(t, svc.Issue(context.Background(), "other@example.com", "Other User"))
	ok, err = svc.VerifiedRecently(context.Background(), "other@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	// Outside the window the proof lapses
	svc.Now = func() time.Time { return now.Add(16 * time.Minute) }
	ok, err = svc.VerifiedRecently(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}
