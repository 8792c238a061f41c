package auth

import (
	"strings"
	"testing"
	"time"
)

// TestExtractToken tests Authorization header parsing.
func TestExtractToken(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		expected  string
		expectErr bool
	}{
		{"valid bearer", "Bearer abc123", "abc123", false},
		{"lowercase scheme", "bearer abc123", "abc123", false},
		{"mixed case scheme", "BeArEr abc123", "abc123", false},
		{"empty header", "", "", true},
		{"missing token", "Bearer ", "", true},
		{"wrong scheme", "Basic abc123", "", true},
		{"no scheme", "abc123", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := ExtractToken(tt.header)
			if tt.expectErr {
				if err == nil {
					t.Errorf("Expected an error for header %q", tt.header)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractToken(%q) failed: %v", tt.header, err)
			}
			if token != tt.expected {
				t.Errorf("token = %q, expected %q", token, tt.expected)
			}
		})
	}
}

// TestNewJWTAuth tests construction defaults and validation.
func TestNewJWTAuth(t *testing.T) {
	if _, err := NewJWTAuth("", 0); err == nil {
		t.Error("Expected an error for an empty secret")
	}

	a, err := NewJWTAuth("secret", 0)
	if err != nil {
		t.Fatalf("NewJWTAuth failed: %v", err)
	}
	if a.TokenExpiry != 15*time.Minute {
		t.Errorf("TokenExpiry = %v, expected the 15 minute default", a.TokenExpiry)
	}

	a, err = NewJWTAuth("secret", time.Hour)
	if err != nil {
		t.Fatalf("NewJWTAuth failed: %v", err)
	}
	if a.TokenExpiry != time.Hour {
		t.Errorf("TokenExpiry = %v, expected 1h", a.TokenExpiry)
	}
}

// TestTokenRoundTrip tests that a generated token verifies back to the same
// user.
func TestTokenRoundTrip(t *testing.T) {
	a, err := NewJWTAuth("test-secret-key", time.Minute)
	if err != nil {
		t.Fatalf("NewJWTAuth failed: %v", err)
	}

	user := User{ID: "user123", Email: "user@example.com", IsAdmin: true}
	token, err := a.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Errorf("Expected a three-part JWT, got %q", token)
	}

	got, err := a.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("ID = %q, expected %q", got.ID, user.ID)
	}
	if got.Email != user.Email {
		t.Errorf("Email = %q, expected %q", got.Email, user.Email)
	}
	if !got.IsAdmin {
		t.Error("Expected IsAdmin to survive the round trip")
	}
}

// TestVerifyTokenWrongSecret tests rejection of tokens signed with another
// key.
func TestVerifyTokenWrongSecret(t *testing.T) {
	signer, _ := NewJWTAuth("signing-secret", time.Minute)
	verifier, _ := NewJWTAuth("different-secret", time.Minute)

	token, err := signer.GenerateToken(User{ID: "user123"})
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := verifier.VerifyToken(token); err == nil {
		t.Error("Expected verification to fail with the wrong secret")
	}
}

// TestVerifyTokenExpired tests rejection of expired tokens.
func TestVerifyTokenExpired(t *testing.T) {
	a, _ := NewJWTAuth("test-secret-key", -time.Minute)

	token, err := a.GenerateToken(User{ID: "user123"})
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := a.VerifyToken(token); err == nil {
		t.Error("Expected verification to fail for an expired token")
	}
}

// TestVerifyTokenGarbage tests rejection of malformed tokens.
func TestVerifyTokenGarbage(t *testing.T) {
	a, _ := NewJWTAuth("test-secret-key", time.Minute)

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := a.VerifyToken(tok); err == nil {
			t.Errorf("Expected verification to fail for %q", tok)
		}
	}
}
