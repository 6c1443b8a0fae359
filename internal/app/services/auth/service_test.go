package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stocktrack/stocktrack/internal/app/storage/memory"
	"github.com/stocktrack/stocktrack/internal/errors"
)

func TestRegisterAndLogin(t *testing.T) {
	store := memory.New()
	svc := New(store, store, nil)

	pub, token, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123", "Alice Smith")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if pub.ID == "" {
		t.Fatalf("expected user id to be generated")
	}
	if token == "" {
		t.Fatalf("expected a session token")
	}

	sess, ok := svc.Session(context.Background(), token)
	if !ok {
		t.Fatalf("expected session for fresh registration")
	}
	if sess.Username != "alice" {
		t.Fatalf("session username = %q, want alice", sess.Username)
	}

	if _, _, err := svc.Login(context.Background(), "alice", "secret123"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	store := memory.New()
	svc := New(store, store, nil)

	_, _, err := svc.Register(context.Background(), "alice", "", "secret123", "Alice Smith")
	if serviceErr := errors.GetServiceError(err); serviceErr == nil || serviceErr.Message != "All fields are required" {
		t.Fatalf("expected missing-field error, got %v", err)
	}

	_, _, err = svc.Register(context.Background(), "alice", "alice@example.com", "short", "Alice Smith")
	if serviceErr := errors.GetServiceError(err); serviceErr == nil || serviceErr.Message != "Password must be at least 6 characters long" {
		t.Fatalf("expected short-password error, got %v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	store := memory.New()
	svc := New(store, store, nil)

	if _, _, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123", "Alice Smith"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, err := svc.Register(context.Background(), "alice", "other@example.com", "secret123", "Alice Smith")
	serviceErr := errors.GetServiceError(err)
	if serviceErr == nil || serviceErr.Message != "Username or email already exists" {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	// Same email under a different username conflicts too.
	_, _, err = svc.Register(context.Background(), "bob", "alice@example.com", "secret123", "Bob Jones")
	if errors.GetServiceError(err) == nil {
		t.Fatalf("expected duplicate email error, got %v", err)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	store := memory.New()
	svc := New(store, store, nil)

	if _, _, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123", "Alice Smith"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, unknownErr := svc.Login(context.Background(), "nobody", "secret123")
	_, _, wrongErr := svc.Login(context.Background(), "alice", "wrongpass")

	for _, err := range []error{unknownErr, wrongErr} {
		serviceErr := errors.GetServiceError(err)
		if serviceErr == nil || serviceErr.Message != "Invalid username or password" {
			t.Fatalf("expected uniform credential error, got %v", err)
		}
	}
}

func TestLogout(t *testing.T) {
	store := memory.New()
	svc := New(store, store, nil)

	_, token, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123", "Alice Smith")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := svc.Session(context.Background(), token); ok {
		t.Fatalf("session should be gone after logout")
	}

	// Logging out again, or with no token, is not an error.
	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("repeat logout: %v", err)
	}
	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("empty logout: %v", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	store := memory.New()
	svc := New(store, store, nil).WithTTL(-time.Minute)

	_, token, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123", "Alice Smith")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, ok := svc.Session(context.Background(), token); ok {
		t.Fatalf("expired session should not resolve")
	}
}

func TestPasswordHashNeverExposed(t *testing.T) {
	store := memory.New()
	svc := New(store, store, nil)

	_, _, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123", "Alice Smith")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	stored, err := store.GetUserByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if stored.PasswordHash == "secret123" {
		t.Fatalf("password stored in plaintext")
	}
	if stored.PasswordHash == "" {
		t.Fatalf("password hash missing")
	}
}
