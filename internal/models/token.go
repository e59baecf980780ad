package models

import "time"

// Session is the result of a successful login or refresh exchange.
// RefreshToken holds the plaintext secret; it is returned to the caller
// exactly once and never persisted or logged.
type Session struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}
