package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ekart/ekart/internal/models"
	"github.com/ekart/ekart/internal/service"
)

type SellerAccountStore interface {
	Create(ctx context.Context, seller *models.Seller) error
}

type UserAccountStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AccountHandlers covers signup for sellers and users plus the simple user
// login check.
type AccountHandlers struct {
	sellers SellerAccountStore
	users   UserAccountStore
	hasher  *service.SecretHasher
	logger  *logrus.Logger
}

func NewAccountHandlers(sellers SellerAccountStore, users UserAccountStore, hasher *service.SecretHasher, logger *logrus.Logger) *AccountHandlers {
	return &AccountHandlers{
		sellers: sellers,
		users:   users,
		hasher:  hasher,
		logger:  logger,
	}
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupResponse struct {
	Message  string `json:"message"`
	SellerID int64  `json:"seller_id,omitempty"`
	UserID   int64  `json:"user_id,omitempty"`
}

func (h *AccountHandlers) SellerSignup(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSignup(w, r)
	if !ok {
		return
	}

	hashed, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.logger.WithError(err).Error("Failed to hash password")
		respondWithError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register seller")
		return
	}

	seller := &models.Seller{
		Name:           req.Name,
		Email:          req.Email,
		HashedPassword: hashed,
	}

	if err := h.sellers.Create(r.Context(), seller); err != nil {
		respondDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, SignupResponse{
		Message:  "Seller registered successfully",
		SellerID: seller.ID,
	})
}

func (h *AccountHandlers) UserSignup(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSignup(w, r)
	if !ok {
		return
	}

	hashed, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.logger.WithError(err).Error("Failed to hash password")
		respondWithError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register user")
		return
	}

	user := &models.User{
		Name:           req.Name,
		Email:          req.Email,
		HashedPassword: hashed,
	}

	if err := h.users.Create(r.Context(), user); err != nil {
		respondDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, SignupResponse{
		Message: "User registered successfully",
		UserID:  user.ID,
	})
}

// UserLogin checks user credentials; the storefront session is cookie-less
// and no tokens are minted for users.
func (h *AccountHandlers) UserLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondDomainError(w, models.ErrInvalidCredentials)
			return
		}
		h.logger.WithError(err).Error("Failed to look up user")
		respondWithError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in")
		return
	}

	if !h.hasher.Verify(req.Password, user.HashedPassword) {
		respondDomainError(w, models.ErrInvalidCredentials)
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Login successful"})
}

func (h *AccountHandlers) decodeSignup(w http.ResponseWriter, r *http.Request) (*SignupRequest, bool) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return nil, false
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if req.Name == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Name and password are required")
		return nil, false
	}
	if !isValidEmail(req.Email) {
		respondWithError(w, http.StatusBadRequest, "INVALID_EMAIL", "Invalid email address")
		return nil, false
	}

	return &req, true
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}
