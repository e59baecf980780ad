package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// SecretHasher is the single hashing capability shared by the credential and
// OTP paths: passwords, refresh tokens and one-time codes all go through it.
type SecretHasher struct {
	cost int
}

func NewSecretHasher() *SecretHasher {
	return &SecretHasher{cost: bcrypt.DefaultCost}
}

func (h *SecretHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash. A mismatch is a
// false return, never an error.
func (h *SecretHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
