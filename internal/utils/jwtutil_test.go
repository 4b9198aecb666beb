package utils

import (
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, exp, err := GenerateSessionToken(secret, "sess-123", time.Hour)
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}
	if time.Until(exp) < 55*time.Minute {
		t.Errorf("expiry %v is too soon", exp)
	}

	claims, err := ParseSessionToken(secret, token)
	if err != nil {
		t.Fatalf("ParseSessionToken: %v", err)
	}
	if claims.SessionID != "sess-123" {
		t.Errorf("session ID = %q, want sess-123", claims.SessionID)
	}
}

func TestSessionTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := GenerateSessionToken([]byte("right"), "sess-123", time.Hour)
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	if _, err := ParseSessionToken([]byte("wrong"), token); err == nil {
		t.Error("token signed with a different secret should be rejected")
	}
}

func TestSessionTokenRejectsExpired(t *testing.T) {
	token, _, err := GenerateSessionToken([]byte("s"), "sess-123", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	if _, err := ParseSessionToken([]byte("s"), token); err == nil {
		t.Error("expired token should be rejected")
	}
}
