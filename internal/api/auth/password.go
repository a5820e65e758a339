package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	maxPasswordBytes  = 72 // bcrypt ignores the rest
)

var (
	ErrPasswordTooShort  = fmt.Errorf("password must be at least %d characters", minPasswordLength)
	ErrPasswordTooLong   = fmt.Errorf("password must be at most %d bytes", maxPasswordBytes)
	ErrPasswordMismatch  = errors.New("new passwords do not match")
	ErrWrongPassword     = errors.New("current password is incorrect")
	ErrPasswordUnchanged = errors.New("new password must differ from the current one")
)

// ValidatePassword checks a password chosen at registration or on the
// settings page.
func ValidatePassword(password string) error {
	switch {
	case len(password) < minPasswordLength:
		return ErrPasswordTooShort
	case len(password) > maxPasswordBytes:
		return ErrPasswordTooLong
	}
	return nil
}

// HashPassword returns the bcrypt hash stored in users.password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CheckPasswordChange validates a settings-page password change against the
// player's stored hash and returns the hash to store.
func CheckPasswordChange(currentHash, current, next, confirm string) (string, error) {
	if !VerifyPassword(currentHash, current) {
		return "", ErrWrongPassword
	}
	if next != confirm {
		return "", ErrPasswordMismatch
	}
	if err := ValidatePassword(next); err != nil {
		return "", err
	}
	if next == current {
		return "", ErrPasswordUnchanged
	}
	return HashPassword(next)
}
