package auth

import (
	"testing"
	"time"
)

var testSecret = []byte("test-secret-key")

func TestSessionTokenRoundTrip(t *testing.T) {
	token, expiresAt, err := GenerateSessionToken("user-123", "user@example.com", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}
	if expiresAt <= time.Now().Unix() {
		t.Errorf("expiresAt %d is not in the future", expiresAt)
	}

	claims, err := ValidateSessionToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateSessionToken failed: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-123")
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "user@example.com")
	}
	if claims.Subject != "user-123" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "user-123")
	}
}

func TestValidateSessionToken_WrongSecret(t *testing.T) {
	token, _, err := GenerateSessionToken("user-123", "user@example.com", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	if _, err := ValidateSessionToken(token, []byte("other-secret")); err == nil {
		t.Error("expected validation to fail with the wrong secret")
	}
}

func TestValidateSessionToken_Expired(t *testing.T) {
	token, _, err := GenerateSessionToken("user-123", "user@example.com", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	if _, err := ValidateSessionToken(token, testSecret); err == nil {
		t.Error("expected validation to fail for an expired token")
	}
}

func TestValidateSessionToken_Garbage(t *testing.T) {
	if _, err := ValidateSessionToken("not-a-token", testSecret); err == nil {
		t.Error("expected validation to fail for a malformed token")
	}
}
