package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/ekart/ekart/internal/config"
	"github.com/ekart/ekart/internal/models"
	"github.com/ekart/ekart/internal/service"
)

// In-memory stores backing the HTTP-level tests.

type memSellerStore struct {
	sellers map[string]*models.Seller
	nextID  int64
}

func newMemSellerStore() *memSellerStore {
	return &memSellerStore{sellers: make(map[string]*models.Seller), nextID: 1}
}

func (s *memSellerStore) Create(_ context.Context, seller *models.Seller) error {
	if _, ok := s.sellers[seller.Email]; ok {
		return models.ErrEmailTaken
	}
	seller.ID = s.nextID
	s.nextID++
	copied := *seller
	s.sellers[seller.Email] = &copied
	return nil
}

func (s *memSellerStore) GetByEmail(_ context.Context, email string) (*models.Seller, error) {
	seller, ok := s.sellers[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *seller
	return &copied, nil
}

func (s *memSellerStore) UpdateRefreshToken(_ context.Context, sellerID int64, tokenHash string, expiresAt time.Time) error {
	for _, seller := range s.sellers {
		if seller.ID == sellerID {
			seller.RefreshTokenHash = &tokenHash
			seller.RefreshTokenExpiresAt = &expiresAt
			return nil
		}
	}
	return models.ErrNotFound
}

func (s *memSellerStore) ClearRefreshToken(_ context.Context, sellerID int64) error {
	for _, seller := range s.sellers {
		if seller.ID == sellerID {
			seller.RefreshTokenHash = nil
			seller.RefreshTokenExpiresAt = nil
			return nil
		}
	}
	return models.ErrNotFound
}

type memUserStore struct {
	users  map[string]*models.User
	nextID int64
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*models.User), nextID: 1}
}

func (s *memUserStore) Create(_ context.Context, user *models.User) error {
	if _, ok := s.users[user.Email]; ok {
		return models.ErrEmailTaken
	}
	user.ID = s.nextID
	s.nextID++
	copied := *user
	s.users[user.Email] = &copied
	return nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

type memOTPStore struct {
	entries map[string]*models.OTPEntry
}

func newMemOTPStore() *memOTPStore {
	return &memOTPStore{entries: make(map[string]*models.OTPEntry)}
}

func (s *memOTPStore) Put(_ context.Context, entry *models.OTPEntry) error {
	copied := *entry
	s.entries[entry.Email] = &copied
	return nil
}

func (s *memOTPStore) Get(_ context.Context, email string) (*models.OTPEntry, error) {
	entry, ok := s.entries[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *entry
	return &copied, nil
}

func (s *memOTPStore) Delete(_ context.Context, email string) error {
	delete(s.entries, email)
	return nil
}

type captureMailer struct {
	lastCode string
	err      error
}

var codePattern = regexp.MustCompile(`\d{6}`)

func (m *captureMailer) Send(_ context.Context, _, _, htmlBody string) error {
	m.lastCode = codePattern.FindString(htmlBody)
	return m.err
}

// testEnv wires real services over in-memory stores.
type testEnv struct {
	sellers *memSellerStore
	users   *memUserStore
	otps    *memOTPStore
	mailer  *captureMailer

	hasher *service.SecretHasher
	auth   *service.AuthService
	otp    *service.OTPService
	logger *logrus.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	sellers := newMemSellerStore()
	users := newMemUserStore()
	otps := newMemOTPStore()
	mailer := &captureMailer{}

	hasher := service.NewSecretHasher()
	tokens, err := service.NewTokenService(&config.JWTConfig{
		SecretKey:     "0123456789abcdef0123456789abcdef",
		AccessExpiry:  600 * time.Minute,
		RefreshExpiry: 30 * 24 * time.Hour,
	}, logger)
	require.NoError(t, err)

	auth, err := service.NewAuthService(sellers, tokens, hasher, logger)
	require.NoError(t, err)

	otp := service.NewOTPService(users, otps, hasher, mailer, &config.OTPConfig{Expiry: 10 * time.Minute}, logger)

	return &testEnv{
		sellers: sellers,
		users:   users,
		otps:    otps,
		mailer:  mailer,
		hasher:  hasher,
		auth:    auth,
		otp:     otp,
		logger:  logger,
	}
}

func (e *testEnv) seedSeller(t *testing.T, email, password string) *models.Seller {
	t.Helper()

	hash, err := e.hasher.Hash(password)
	require.NoError(t, err)

	seller := &models.Seller{Name: "Shop Owner", Email: email, HashedPassword: hash}
	require.NoError(t, e.sellers.Create(context.Background(), seller))
	return seller
}

func (e *testEnv) seedUser(t *testing.T, email string) {
	t.Helper()

	hash, err := e.hasher.Hash("user-password")
	require.NoError(t, err)
	require.NoError(t, e.users.Create(context.Background(), &models.User{Name: "User", Email: email, HashedPassword: hash}))
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(out))
}

func errorCode(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	decodeBody(t, recorder, &resp)
	return resp.Error.Code
}
