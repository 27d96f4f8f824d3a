package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt work factor for stored credentials; 2^12 rounds keeps a single
// hash in the hundreds of milliseconds on current hardware
const bcryptCost = 12

// bcrypt silently truncates input beyond 72 bytes, so longer passwords
// are rejected outright
const maxPasswordBytes = 72

// HashPassword derives the stored bcrypt hash for a plain text password
func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", fmt.Errorf("password exceeds %d bytes", maxPasswordBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether a plain text password matches a stored hash
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
