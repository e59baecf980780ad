package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ekart/ekart/internal/models"
)

// SellerStore is the slice of the seller record store the auth flow needs.
// Implementations must update both refresh token fields atomically.
type SellerStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Seller, error)
	UpdateRefreshToken(ctx context.Context, sellerID int64, tokenHash string, expiresAt time.Time) error
	ClearRefreshToken(ctx context.Context, sellerID int64) error
}

// AuthService owns the seller session lifecycle: credential checks, session
// issuance, access token verification and refresh token rotation.
type AuthService struct {
	sellers SellerStore
	tokens  *TokenService
	hasher  *SecretHasher
	logger  *logrus.Logger
	now     func() time.Time

	// Compared against on the unknown-email path so a lookup miss costs the
	// same as a password mismatch.
	dummyHash string
}

func NewAuthService(sellers SellerStore, tokens *TokenService, hasher *SecretHasher, logger *logrus.Logger) (*AuthService, error) {
	dummyHash, err := hasher.Hash("ekart-no-such-account")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}

	return &AuthService{
		sellers:   sellers,
		tokens:    tokens,
		hasher:    hasher,
		logger:    logger,
		now:       time.Now,
		dummyHash: dummyHash,
	}, nil
}

// Authenticate verifies a seller's credentials. Unknown emails and wrong
// passwords both come back as ErrInvalidCredentials so responses cannot be
// used for account enumeration. No tokens are minted here.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.Seller, error) {
	seller, err := s.sellers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up seller: %w", err)
	}

	if !s.hasher.Verify(password, seller.HashedPassword) {
		return nil, models.ErrInvalidCredentials
	}

	return seller, nil
}

// IssueSession mints an access token and a fresh refresh token, persisting
// only the refresh token's hash. Overwriting the stored hash is what rotates
// out any previously issued refresh token. A store failure surfaces as
// ErrSessionPersist and the caller must not treat the session as issued.
func (s *AuthService) IssueSession(ctx context.Context, seller *models.Seller) (*models.Session, error) {
	accessToken, accessExpiresAt, err := s.tokens.MintAccessToken(seller.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSessionPersist, err)
	}

	refreshToken, refreshExpiresAt, err := s.tokens.NewRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSessionPersist, err)
	}

	refreshHash, err := s.hasher.Hash(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSessionPersist, err)
	}

	if err := s.sellers.UpdateRefreshToken(ctx, seller.ID, refreshHash, refreshExpiresAt); err != nil {
		s.logger.WithError(err).WithField("seller_id", seller.ID).Error("Failed to persist refresh token")
		return nil, fmt.Errorf("%w: %v", models.ErrSessionPersist, err)
	}

	return &models.Session{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExpiresAt,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}

// VerifyAccessToken checks signature and expiry, then resolves the subject to
// a live seller record.
func (s *AuthService) VerifyAccessToken(ctx context.Context, tokenString string) (*models.Seller, error) {
	claims, err := s.tokens.ParseAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	seller, err := s.sellers.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("failed to resolve principal: %w", err)
	}

	return seller, nil
}

// RefreshSession exchanges a refresh token for a new session. The presented
// plaintext must verify against the stored hash and the stored expiry must
// not have passed. Success rotates: the old token stops verifying.
func (s *AuthService) RefreshSession(ctx context.Context, email, refreshToken string) (*models.Seller, *models.Session, error) {
	seller, err := s.sellers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil, models.ErrInvalidToken
		}
		return nil, nil, fmt.Errorf("failed to look up seller: %w", err)
	}

	if seller.RefreshTokenHash == nil || seller.RefreshTokenExpiresAt == nil {
		return nil, nil, models.ErrInvalidToken
	}

	if s.now().After(*seller.RefreshTokenExpiresAt) {
		return nil, nil, models.ErrTokenExpired
	}

	if !s.hasher.Verify(refreshToken, *seller.RefreshTokenHash) {
		return nil, nil, models.ErrInvalidToken
	}

	session, err := s.IssueSession(ctx, seller)
	if err != nil {
		return nil, nil, err
	}

	return seller, session, nil
}

// Logout clears the stored refresh token state. Outstanding access tokens
// stay valid until they expire on their own.
func (s *AuthService) Logout(ctx context.Context, seller *models.Seller) error {
	if err := s.sellers.ClearRefreshToken(ctx, seller.ID); err != nil {
		s.logger.WithError(err).WithField("seller_id", seller.ID).Error("Failed to clear refresh token")
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}
