package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ekart/ekart/internal/models"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, status int, code, message string) {
	respondWithJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// respondDomainError maps the shared error taxonomy onto HTTP responses.
// Anything unrecognized is a 500.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, models.ErrTokenExpired):
		respondWithError(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired")
	case errors.Is(err, models.ErrInvalidToken):
		respondWithError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token")
	case errors.Is(err, models.ErrPrincipalNotFound):
		respondWithError(w, http.StatusUnauthorized, "PRINCIPAL_NOT_FOUND", "Account no longer exists")
	case errors.Is(err, models.ErrUnknownPrincipal):
		respondWithError(w, http.StatusNotFound, "EMAIL_NOT_REGISTERED", "Email not registered")
	case errors.Is(err, models.ErrNoActiveCode):
		respondWithError(w, http.StatusNotFound, "NO_ACTIVE_CODE", "No OTP found for this email")
	case errors.Is(err, models.ErrCodeMismatch):
		respondWithError(w, http.StatusBadRequest, "INVALID_OTP", "Invalid OTP")
	case errors.Is(err, models.ErrCodeExpired):
		respondWithError(w, http.StatusBadRequest, "OTP_EXPIRED", "OTP expired")
	case errors.Is(err, models.ErrEmailTaken):
		respondWithError(w, http.StatusConflict, "EMAIL_TAKEN", "Email already registered")
	case errors.Is(err, models.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "NOT_FOUND", "Record not found")
	case errors.Is(err, models.ErrForbidden):
		respondWithError(w, http.StatusForbidden, "FORBIDDEN", "You do not own this resource")
	case errors.Is(err, models.ErrSessionPersist):
		respondWithError(w, http.StatusInternalServerError, "SESSION_PERSIST_FAILED", "Failed to save session. Please try again.")
	case errors.Is(err, models.ErrNotification):
		respondWithError(w, http.StatusInternalServerError, "NOTIFICATION_FAILED", "Failed to send OTP email")
	default:
		respondWithError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
