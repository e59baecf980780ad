package models

import "time"

// OTPEntry is the persisted form of a one-time code. At most one entry per
// email is authoritative; issuing a new code overwrites the previous one.
// Only the bcrypt hash of the code is stored.
type OTPEntry struct {
	Email     string    `json:"email"`
	CodeHash  string    `json:"code_hash"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
