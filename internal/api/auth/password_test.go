package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashPasswordAndVerify(t *testing.T) {
	password := "v4lorant!"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if hash == "" {
		t.Fatal("expected non-empty hash")
	}
	if hash == password {
		t.Fatal("expected hash to differ from password")
	}

	if !VerifyPassword(hash, password) {
		t.Fatal("expected password to verify")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatal("expected password mismatch to fail")
	}
}

func TestVerifyPasswordWithInvalidHash(t *testing.T) {
	if VerifyPassword("not-a-valid-hash", "password") {
		t.Fatal("expected invalid hash to fail verification")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		want     error
	}{
		{"short", ErrPasswordTooShort},
		{"exactly8", nil},
		{strings.Repeat("a", 72), nil},
		{strings.Repeat("a", 73), ErrPasswordTooLong},
	}
	for _, tt := range tests {
		if err := ValidatePassword(tt.password); !errors.Is(err, tt.want) {
			t.Fatalf("ValidatePassword(%d chars) = %v, want %v", len(tt.password), err, tt.want)
		}
	}
}

func TestCheckPasswordChange(t *testing.T) {
	hash, err := HashPassword("old-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	tests := []struct {
		name                   string
		current, next, confirm string
		want                   error
	}{
		{"wrong current", "nope-nope", "new-password", "new-password", ErrWrongPassword},
		{"mismatch", "old-password", "new-password", "new-passw0rd", ErrPasswordMismatch},
		{"too short", "old-password", "short", "short", ErrPasswordTooShort},
		{"unchanged", "old-password", "old-password", "old-password", ErrPasswordUnchanged},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CheckPasswordChange(hash, tt.current, tt.next, tt.confirm); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}

	newHash, err := CheckPasswordChange(hash, "old-password", "new-password", "new-password")
	if err != nil {
		t.Fatalf("change: %v", err)
	}
	if !VerifyPassword(newHash, "new-password") || VerifyPassword(newHash, "old-password") {
		t.Fatal("new hash should verify only the new password")
	}
}
