package repository

import (
	"errors"
	"testing"
	"time"
)

func TestCreateUserDuplicateUsername(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, _ := newTestDB(t)
	users := NewUserRepository(db)

	if _, err := users.CreateUser("karmin", "", "hash-one"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	_, err := users.CreateUser("karmin", "", "hash-two")
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("CreateUser() duplicate error = %v, want ErrDuplicateUsername", err)
	}

	// The existing row must be untouched by the failed registration
	existing, err := users.GetUserByUsername("karmin")
	if err != nil {
		t.Fatalf("GetUserByUsername() error = %v", err)
	}
	if existing == nil {
		t.Fatal("existing user disappeared")
	}
	if existing.PasswordHash != "hash-one" {
		t.Errorf("password hash = %q, want the original %q", existing.PasswordHash, "hash-one")
	}
}

func TestUsernameLookupIsCaseSensitive(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, _ := newTestDB(t)
	users := NewUserRepository(db)

	if _, err := users.CreateUser("Karmin", "", "hash"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	got, err := users.GetUserByUsername("karmin")
	if err != nil {
		t.Fatalf("GetUserByUsername() error = %v", err)
	}
	if got != nil {
		t.Error("lookup with different casing matched, usernames must be case-sensitive")
	}
}

func TestSessionLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, ownerID := newTestDB(t)
	users := NewUserRepository(db)

	expires := time.Now().Add(time.Hour)
	if _, err := users.CreateSession("session-1", ownerID, expires); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	session, err := users.GetSession("session-1")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if session == nil || session.UserID != ownerID {
		t.Fatalf("GetSession() = %+v, want session for user %d", session, ownerID)
	}

	if err := users.DeleteSession("session-1"); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	session, err = users.GetSession("session-1")
	if err != nil {
		t.Fatalf("GetSession() after delete error = %v", err)
	}
	if session != nil {
		t.Error("session still present after delete")
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, ownerID := newTestDB(t)
	users := NewUserRepository(db)

	if _, err := users.CreateSession("fresh", ownerID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if _, err := users.CreateSession("stale", ownerID, time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	if err := users.DeleteExpiredSessions(); err != nil {
		t.Fatalf("DeleteExpiredSessions() error = %v", err)
	}

	if s, _ := users.GetSession("fresh"); s == nil {
		t.Error("unexpired session was removed")
	}
	if s, _ := users.GetSession("stale"); s != nil {
		t.Error("expired session survived cleanup")
	}
}

func TestPasswordResetTokenLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, ownerID := newTestDB(t)
	users := NewUserRepository(db)

	if err := users.CreatePasswordResetToken("tok-1", ownerID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("CreatePasswordResetToken() error = %v", err)
	}

	token, err := users.GetPasswordResetToken("tok-1")
	if err != nil {
		t.Fatalf("GetPasswordResetToken() error = %v", err)
	}
	if token == nil || token.Used {
		t.Fatalf("GetPasswordResetToken() = %+v, want unused token", token)
	}

	if err := users.MarkPasswordResetTokenAsUsed("tok-1"); err != nil {
		t.Fatalf("MarkPasswordResetTokenAsUsed() error = %v", err)
	}
	token, err = users.GetPasswordResetToken("tok-1")
	if err != nil {
		t.Fatalf("GetPasswordResetToken() error = %v", err)
	}
	if token == nil || !token.Used {
		t.Errorf("token = %+v, want used", token)
	}
}
