package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ekart/ekart/internal/models"
)

type contextKey string

const sellerContextKey contextKey = "seller"

// Authenticator resolves a bearer token to the seller who presented it.
type Authenticator interface {
	VerifyAccessToken(ctx context.Context, token string) (*models.Seller, error)
}

type AuthMiddleware struct {
	auth   Authenticator
	logger *logrus.Logger
}

func NewAuthMiddleware(auth Authenticator, logger *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		auth:   auth,
		logger: logger,
	}
}

// RequireAuth extracts the token from "Authorization: Bearer <token>" and
// puts the resolved seller on the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.respondUnauthorized(w, "Missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.respondUnauthorized(w, "Invalid authorization header format")
			return
		}

		seller, err := m.auth.VerifyAccessToken(r.Context(), parts[1])
		if err != nil {
			m.logger.WithError(err).Debug("Token verification failed")
			switch {
			case errors.Is(err, models.ErrTokenExpired):
				m.respondUnauthorized(w, "Token has expired")
			case errors.Is(err, models.ErrPrincipalNotFound):
				m.respondUnauthorized(w, "Account no longer exists")
			default:
				m.respondUnauthorized(w, "Invalid or expired token")
			}
			return
		}

		ctx := context.WithValue(r.Context(), sellerContextKey, seller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SellerFromContext returns the seller placed on the context by RequireAuth.
func SellerFromContext(ctx context.Context) (*models.Seller, bool) {
	seller, ok := ctx.Value(sellerContextKey).(*models.Seller)
	return seller, ok
}

func (m *AuthMiddleware) respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"` + message + `"}}`))
}
