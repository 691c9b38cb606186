package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestManager(ttl time.Duration) *Manager {
	return NewManager(NewMemorySessionStore(), []byte("test-secret-test-secret-test-secret"), ttl, false)
}

func TestManager_IssueAndResolve(t *testing.T) {
	m := newTestManager(time.Hour)
	ctx := context.Background()

	cookie, err := m.Issue(ctx, 42, "drasha")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if cookie.Name != CookieName {
		t.Errorf("cookie name = %q", cookie.Name)
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	s, err := m.Resolve(ctx, cookie.Value)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.DoctorID != 42 {
		t.Errorf("DoctorID = %d, want 42", s.DoctorID)
	}
	if s.Username != "drasha" {
		t.Errorf("Username = %q", s.Username)
	}
}

func TestManager_ResolveRejectsGarbage(t *testing.T) {
	m := newTestManager(time.Hour)
	for _, v := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		if _, err := m.Resolve(context.Background(), v); !errors.Is(err, ErrNoSession) {
			t.Errorf("Resolve(%q): expected ErrNoSession, got %v", v, err)
		}
	}
}

func TestManager_ResolveRejectsForeignSignature(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()
	issuer := NewManager(store, []byte("secret-one-secret-one-secret-one"), time.Hour, false)
	verifier := NewManager(store, []byte("secret-two-secret-two-secret-two"), time.Hour, false)

	cookie, err := issuer.Issue(ctx, 1, "dr")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Resolve(ctx, cookie.Value); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession for token signed with another secret, got %v", err)
	}
}

func TestManager_ResolveExpired(t *testing.T) {
	m := newTestManager(-time.Minute)
	ctx := context.Background()

	cookie, err := m.Issue(ctx, 7, "dr")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := m.Resolve(ctx, cookie.Value); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession for expired session, got %v", err)
	}
}

func TestManager_Destroy(t *testing.T) {
	m := newTestManager(time.Hour)
	ctx := context.Background()

	cookie, err := m.Issue(ctx, 9, "dr")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cleared, err := m.Destroy(ctx, cookie.Value)
	if err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if cleared.Value != "" {
		t.Error("expected cleared cookie value")
	}
	if !cleared.Expires.Before(time.Now()) {
		t.Error("expected cleared cookie to be expired")
	}

	if _, err := m.Resolve(ctx, cookie.Value); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession after destroy, got %v", err)
	}
}

func TestManager_DestroyIdempotent(t *testing.T) {
	m := newTestManager(time.Hour)
	if _, err := m.Destroy(context.Background(), "garbage"); err != nil {
		t.Errorf("Destroy with invalid cookie should not fail: %v", err)
	}
}

func TestMemoryStore_DeleteExpired(t *testing.T) {
	store := NewMemorySessionStore()
	m := NewManager(store, []byte("test-secret-test-secret-test-secret"), time.Hour, false)
	ctx := context.Background()

	if _, err := m.Issue(ctx, 1, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Issue(ctx, 2, "b"); err != nil {
		t.Fatal(err)
	}

	n, err := store.DeleteExpired(ctx, time.Now().Add(2*time.Hour))
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 expired sessions removed, got %d", n)
	}
}
