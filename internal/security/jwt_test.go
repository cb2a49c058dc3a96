package security

import (
	"strings"
	"testing"
	"time"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	svc, err := NewTokenService("a-long-enough-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	token, err := svc.Generate(42)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Errorf("token does not look like a JWT: %s", token)
	}

	userID, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if userID != 42 {
		t.Errorf("Validate() = %d, want 42", userID)
	}
}

func TestTokenServiceRejectsShortSecret(t *testing.T) {
	if _, err := NewTokenService("short", time.Hour); err == nil {
		t.Error("expected error for a short secret")
	}
}

func TestTokenServiceRejectsExpired(t *testing.T) {
	svc, err := NewTokenService("a-long-enough-test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	token, err := svc.Generate(7)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, err := svc.Validate(token); err == nil {
		t.Error("expected error for an expired token")
	}
}

func TestTokenServiceRejectsForeignToken(t *testing.T) {
	issuer, _ := NewTokenService("a-long-enough-test-secret", time.Hour)
	verifier, _ := NewTokenService("a-different-test-secret!", time.Hour)

	token, err := issuer.Generate(7)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, err := verifier.Validate(token); err == nil {
		t.Error("expected error for a token signed with another secret")
	}

	if _, err := issuer.Validate("not.a.token"); err == nil {
		t.Error("expected error for garbage input")
	}
}
