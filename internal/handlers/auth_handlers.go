package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ekart/ekart/internal/middleware"
	"github.com/ekart/ekart/internal/service"
)

type AuthHandlers struct {
	authService *service.AuthService
	logger      *logrus.Logger
}

func NewAuthHandlers(authService *service.AuthService, logger *logrus.Logger) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		logger:      logger,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SellerResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	TokenType    string         `json:"token_type"`
	RefreshToken string         `json:"refresh_token"`
	Seller       SellerResponse `json:"seller"`
}

type RefreshRequest struct {
	Email        string `json:"email"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
}

// Login verifies seller credentials and issues a new session. Issuing a
// session overwrites any previously stored refresh token for the account.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Email and password are required")
		return
	}

	seller, err := h.authService.Authenticate(r.Context(), email, req.Password)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	session, err := h.authService.IssueSession(r.Context(), seller)
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue session")
		respondDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, LoginResponse{
		AccessToken:  session.AccessToken,
		TokenType:    "bearer",
		RefreshToken: session.RefreshToken,
		Seller: SellerResponse{
			ID:    seller.ID,
			Name:  seller.Name,
			Email: seller.Email,
		},
	})
}

// Refresh exchanges a valid refresh token for a new session, rotating the
// stored token in the process.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if req.Email == "" || req.RefreshToken == "" {
		respondWithError(w, http.StatusBadRequest, "MISSING_TOKEN", "Email and refresh token are required")
		return
	}

	_, session, err := h.authService.RefreshSession(r.Context(), strings.TrimSpace(req.Email), req.RefreshToken)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, RefreshResponse{
		AccessToken:  session.AccessToken,
		TokenType:    "bearer",
		RefreshToken: session.RefreshToken,
	})
}

// Logout clears the caller's stored refresh token state.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	seller, ok := middleware.SellerFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
		return
	}

	if err := h.authService.Logout(r.Context(), seller); err != nil {
		h.logger.WithError(err).Error("Failed to log out")
		respondWithError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log out")
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// Me returns the authenticated seller's profile.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	seller, ok := middleware.SellerFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
		return
	}

	respondWithJSON(w, http.StatusOK, SellerResponse{
		ID:    seller.ID,
		Name:  seller.Name,
		Email: seller.Email,
	})
}

