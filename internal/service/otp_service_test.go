package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekart/ekart/internal/config"
	"github.com/ekart/ekart/internal/models"
)

type fakeUserStore struct {
	users map[string]*models.User
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	return user, nil
}

type fakeOTPStore struct {
	entries map[string]*models.OTPEntry
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{entries: make(map[string]*models.OTPEntry)}
}

func (s *fakeOTPStore) Put(_ context.Context, entry *models.OTPEntry) error {
	copied := *entry
	s.entries[entry.Email] = &copied
	return nil
}

func (s *fakeOTPStore) Get(_ context.Context, email string) (*models.OTPEntry, error) {
	entry, ok := s.entries[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *entry
	return &copied, nil
}

func (s *fakeOTPStore) Delete(_ context.Context, email string) error {
	delete(s.entries, email)
	return nil
}

// fakeMailer captures the code out of the dispatched message body.
type fakeMailer struct {
	lastTo   string
	lastCode string
	sent     int
	err      error
}

var otpCodePattern = regexp.MustCompile(`\d{6}`)

func (m *fakeMailer) Send(_ context.Context, to, _, htmlBody string) error {
	m.sent++
	m.lastTo = to
	m.lastCode = otpCodePattern.FindString(htmlBody)
	return m.err
}

func newTestOTPService(t *testing.T) (*OTPService, *fakeOTPStore, *fakeMailer) {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	users := &fakeUserStore{users: map[string]*models.User{
		"a@x.com": {ID: 1, Name: "A", Email: "a@x.com"},
	}}
	otps := newFakeOTPStore()
	mailer := &fakeMailer{}

	svc := NewOTPService(users, otps, newTestHasher(), mailer, &config.OTPConfig{Expiry: 10 * time.Minute}, logger)
	return svc, otps, mailer
}

func TestOTPService_RequestAndVerify(t *testing.T) {
	svc, otps, mailer := newTestOTPService(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestOTP(ctx, "a@x.com"))
	assert.Equal(t, "a@x.com", mailer.lastTo)
	require.Len(t, mailer.lastCode, 6)

	// Stored entry holds a hash, not the code itself.
	entry := otps.entries["a@x.com"]
	require.NotNil(t, entry)
	assert.NotEqual(t, mailer.lastCode, entry.CodeHash)

	require.NoError(t, svc.VerifyOTP(ctx, "a@x.com", mailer.lastCode))

	// Consumed on success; a replay finds nothing.
	err := svc.VerifyOTP(ctx, "a@x.com", mailer.lastCode)
	assert.True(t, errors.Is(err, models.ErrNoActiveCode))
}

func TestOTPService_RequestUnknownEmail(t *testing.T) {
	svc, otps, mailer := newTestOTPService(t)

	err := svc.RequestOTP(context.Background(), "stranger@x.com")
	assert.True(t, errors.Is(err, models.ErrUnknownPrincipal))
	assert.Empty(t, otps.entries)
	assert.Zero(t, mailer.sent)
}

func TestOTPService_VerifyMismatch(t *testing.T) {
	svc, _, mailer := newTestOTPService(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestOTP(ctx, "a@x.com"))

	wrong := "000000"
	if mailer.lastCode == wrong {
		wrong = "000001"
	}

	err := svc.VerifyOTP(ctx, "a@x.com", wrong)
	assert.True(t, errors.Is(err, models.ErrCodeMismatch))

	// A mismatch does not consume the code.
	require.NoError(t, svc.VerifyOTP(ctx, "a@x.com", mailer.lastCode))
}

func TestOTPService_VerifyWithoutRequest(t *testing.T) {
	svc, _, _ := newTestOTPService(t)

	err := svc.VerifyOTP(context.Background(), "a@x.com", "123456")
	assert.True(t, errors.Is(err, models.ErrNoActiveCode))
}

func TestOTPService_VerifyExpired(t *testing.T) {
	svc, otps, mailer := newTestOTPService(t)
	ctx := context.Background()

	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }
	require.NoError(t, svc.RequestOTP(ctx, "a@x.com"))

	// Past the window the right code still fails, and the entry is gone.
	svc.now = func() time.Time { return issuedAt.Add(11 * time.Minute) }
	err := svc.VerifyOTP(ctx, "a@x.com", mailer.lastCode)
	assert.True(t, errors.Is(err, models.ErrCodeExpired))
	assert.Empty(t, otps.entries)
}

func TestOTPService_ReissueInvalidatesPriorCode(t *testing.T) {
	svc, _, mailer := newTestOTPService(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestOTP(ctx, "a@x.com"))
	firstCode := mailer.lastCode

	require.NoError(t, svc.RequestOTP(ctx, "a@x.com"))
	secondCode := mailer.lastCode

	if firstCode != secondCode {
		err := svc.VerifyOTP(ctx, "a@x.com", firstCode)
		assert.True(t, errors.Is(err, models.ErrCodeMismatch))
	}
	require.NoError(t, svc.VerifyOTP(ctx, "a@x.com", secondCode))
}

func TestOTPService_NotificationFailureKeepsCode(t *testing.T) {
	svc, otps, mailer := newTestOTPService(t)
	ctx := context.Background()
	mailer.err = errors.New("smtp unreachable")

	err := svc.RequestOTP(ctx, "a@x.com")
	assert.True(t, errors.Is(err, models.ErrNotification))

	// The persisted code stays valid despite the dispatch failure.
	require.NotNil(t, otps.entries["a@x.com"])
	require.NoError(t, svc.VerifyOTP(ctx, "a@x.com", mailer.lastCode))
}

func TestGenerateCode_Range(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		assert.GreaterOrEqual(t, code, "100000")
		assert.LessOrEqual(t, code, "999999")
	}
}
