package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ekart/ekart/internal/config"
	"github.com/ekart/ekart/internal/models"
)

// OTPStore is the persisted one-time-code store. Put overwrites any existing
// entry for the same email.
type OTPStore interface {
	Put(ctx context.Context, entry *models.OTPEntry) error
	Get(ctx context.Context, email string) (*models.OTPEntry, error)
	Delete(ctx context.Context, email string) error
}

// UserStore is the account lookup the OTP flow needs before issuing a code.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// OTPService issues and verifies email-bound one-time codes. The persisted
// store is the single source of truth; codes are single-use and expire after
// the configured window.
type OTPService struct {
	users  UserStore
	otps   OTPStore
	hasher *SecretHasher
	mailer Sender
	expiry time.Duration
	logger *logrus.Logger
	now    func() time.Time
}

func NewOTPService(users UserStore, otps OTPStore, hasher *SecretHasher, mailer Sender, cfg *config.OTPConfig, logger *logrus.Logger) *OTPService {
	return &OTPService{
		users:  users,
		otps:   otps,
		hasher: hasher,
		mailer: mailer,
		expiry: cfg.Expiry,
		logger: logger,
		now:    time.Now,
	}
}

// RequestOTP issues a fresh 6-digit code for a registered email, replacing
// any code issued earlier. The code is persisted before the email goes out;
// a dispatch failure surfaces as ErrNotification but leaves the stored code
// valid, so the caller may retry delivery without invalidating it.
func (s *OTPService) RequestOTP(ctx context.Context, email string) error {
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrUnknownPrincipal
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}

	codeHash, err := s.hasher.Hash(code)
	if err != nil {
		return fmt.Errorf("failed to hash OTP: %w", err)
	}

	now := s.now()
	entry := &models.OTPEntry{
		Email:     email,
		CodeHash:  codeHash,
		CreatedAt: now,
		ExpiresAt: now.Add(s.expiry),
	}

	if err := s.otps.Put(ctx, entry); err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}

	subject := "Your OTP Code"
	body := fmt.Sprintf("<h2>Your OTP is: %s</h2><p>It will expire in %d minutes.</p>", code, int(s.expiry.Minutes()))
	if err := s.mailer.Send(ctx, email, subject, body); err != nil {
		s.logger.WithError(err).WithField("email", email).Error("Failed to dispatch OTP email")
		return fmt.Errorf("%w: %v", models.ErrNotification, err)
	}

	return nil
}

// VerifyOTP checks the submitted code against the stored entry. Expiry is
// checked before the code itself, so a stale code fails with ErrCodeExpired
// even when it matches. A successful verification consumes the entry; a
// repeat attempt fails with ErrNoActiveCode.
func (s *OTPService) VerifyOTP(ctx context.Context, email, submitted string) error {
	entry, err := s.otps.Get(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNoActiveCode
		}
		return fmt.Errorf("failed to fetch OTP: %w", err)
	}

	if s.now().After(entry.ExpiresAt) {
		if err := s.otps.Delete(ctx, email); err != nil {
			s.logger.WithError(err).WithField("email", email).Warn("Failed to delete expired OTP")
		}
		return models.ErrCodeExpired
	}

	if !s.hasher.Verify(submitted, entry.CodeHash) {
		return models.ErrCodeMismatch
	}

	if err := s.otps.Delete(ctx, email); err != nil {
		return fmt.Errorf("failed to consume OTP: %w", err)
	}

	return nil
}

// generateCode draws a uniform 6-digit code in [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
