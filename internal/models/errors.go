package models

import "errors"

// Auth and OTP errors surfaced to API clients.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrPrincipalNotFound  = errors.New("principal not found")
	ErrUnknownPrincipal   = errors.New("email not registered")
	ErrNoActiveCode       = errors.New("no active OTP for this email")
	ErrCodeMismatch       = errors.New("invalid OTP")
	ErrCodeExpired        = errors.New("OTP expired")
)

// Server-side failures; callers should retry.
var (
	ErrSessionPersist = errors.New("failed to persist session")
	ErrNotification   = errors.New("failed to send notification")
)

// Store-level errors shared across repositories.
var (
	ErrNotFound   = errors.New("record not found")
	ErrEmailTaken = errors.New("email already registered")
	ErrForbidden  = errors.New("operation not permitted")
)
