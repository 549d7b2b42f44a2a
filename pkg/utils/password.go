package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
	// MaxPasswordBytes is bcrypt's input limit.
	MaxPasswordBytes = 72
)

// ErrMalformedHash means the stored value is not a bcrypt hash at all.
var ErrMalformedHash = errors.New("malformed password hash")

// HashPassword hashes a password with bcrypt at the given cost. Costs outside
// bcrypt's range fall back to bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches hashedPassword. A mismatch
// is (false, nil); an unreadable hash is (false, ErrMalformedHash).
func VerifyPassword(password, hashedPassword string) (bool, error) {
	if hashedPassword == "" {
		return false, ErrMalformedHash
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, ErrMalformedHash
	}
}

// ValidatePassword checks the length bounds for a new password. The upper
// bound is in bytes, not characters.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: "Password must be at least 6 characters"}
	}
	if len(password) > MaxPasswordBytes {
		return &ValidationError{Field: "password", Message: "Password must be at most 72 bytes"}
	}
	return nil
}
