package authutil

import (
	"errors"
	"testing"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("hash must not equal the plain password")
	}
	if !CheckPassword(hash, "correct horse") {
		t.Error("expected password to match its hash")
	}
	if CheckPassword(hash, "wrong horse") {
		t.Error("expected wrong password to be rejected")
	}
}

func TestHashPassword_Empty(t *testing.T) {
	if _, err := HashPassword(""); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestCheckPassword_EmptyHash(t *testing.T) {
	if CheckPassword("", "anything") {
		t.Error("expected empty hash to never match")
	}
}
