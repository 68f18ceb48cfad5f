package utils

import (
	"testing"
	"time"
)

const testSecret = "test-secret-key-at-least-32-chars-long"

func TestNewAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 42, "alice", "user", 60)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if tok.Token == "" {
		t.Fatal("empty token string")
	}
	if tok.JTI == "" {
		t.Fatal("empty jti")
	}

	claims, err := ParseAccessToken(testSecret, tok.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("Username = %q, want %q", claims.Username, "alice")
	}
	if claims.Role != "user" {
		t.Errorf("Role = %q, want %q", claims.Role, "user")
	}
	if claims.JTI != tok.JTI {
		t.Errorf("JTI = %q, want %q", claims.JTI, tok.JTI)
	}
	if d := time.Until(claims.Exp); d < 59*time.Minute || d > 61*time.Minute {
		t.Errorf("Exp %v not ~60m out", claims.Exp)
	}
}

func TestJTIUniquePerToken(t *testing.T) {
	a, err := NewAccessToken(testSecret, 1, "u", "user", 60)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	b, err := NewAccessToken(testSecret, 1, "u", "user", 60)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if a.JTI == b.JTI {
		t.Errorf("two tokens share jti %q", a.JTI)
	}
}

func TestParseAccessTokenRejects(t *testing.T) {
	valid, err := NewAccessToken(testSecret, 7, "bob", "admin", 60)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	expired, err := NewAccessToken(testSecret, 7, "bob", "admin", -1)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	tests := []struct {
		name   string
		secret string
		raw    string
	}{
		{"wrong secret", "some-other-secret-that-is-long-enough", valid.Token},
		{"expired", testSecret, expired.Token},
		{"garbage", testSecret, "not.a.jwt"},
		{"empty", testSecret, ""},
		{"tampered", testSecret, valid.Token + "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAccessToken(tt.secret, tt.raw); err != ErrInvalidToken {
				t.Errorf("ParseAccessToken() err = %v, want ErrInvalidToken", err)
			}
		})
	}
}
