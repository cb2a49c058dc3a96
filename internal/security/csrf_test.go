package security

import (
	"testing"
)

func TestCSRFGenerator(t *testing.T) {
	g := NewCSRFGenerator("test-secret-key")

	token, err := g.GenerateToken("session-abc")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateToken() returned empty token")
	}

	tests := []struct {
		name      string
		sessionID string
		token     string
		want      bool
	}{
		{name: "valid token", sessionID: "session-abc", token: token, want: true},
		{name: "wrong session", sessionID: "session-xyz", token: token, want: false},
		{name: "tampered token", sessionID: "session-abc", token: token + "00", want: false},
		{name: "empty token", sessionID: "session-abc", token: "", want: false},
		{name: "empty session", sessionID: "", token: token, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.ValidateToken(tt.sessionID, tt.token); got != tt.want {
				t.Errorf("ValidateToken() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCSRFGeneratorRequiresSession(t *testing.T) {
	g := NewCSRFGenerator("test-secret-key")
	if _, err := g.GenerateToken(""); err == nil {
		t.Error("GenerateToken(\"\") expected an error")
	}
}

func TestCSRFDifferentSecretsDiffer(t *testing.T) {
	a := NewCSRFGenerator("secret-a")
	b := NewCSRFGenerator("secret-b")

	tokenA, _ := a.GenerateToken("session-1")
	if b.ValidateToken("session-1", tokenA) {
		t.Error("token minted with one secret validated with another")
	}
}
