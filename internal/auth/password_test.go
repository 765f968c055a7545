package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("Hash must not equal the plaintext")
	}

	if !CheckPassword("hunter22", hash) {
		t.Error("Expected matching password to verify")
	}
	if CheckPassword("wrong", hash) {
		t.Error("Expected mismatched password to fail")
	}
}
