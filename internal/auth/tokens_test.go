package auth

import (
	"testing"
)

func TestTokenStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewTokenStore(dir)

	if got := store.Credential(); got != "" {
		t.Fatalf("fresh store should hold no credential, got %q", got)
	}

	if err := store.Save(Tokens{Access: "access-1", Refresh: "refresh-1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := store.Credential(); got != "access-1" {
		t.Fatalf("credential = %q, want access-1", got)
	}
	if got := store.RefreshToken(); got != "refresh-1" {
		t.Fatalf("refresh token = %q, want refresh-1", got)
	}

	// A second store over the same directory sees the persisted pair.
	reopened := NewTokenStore(dir)
	if got := reopened.Credential(); got != "access-1" {
		t.Fatalf("reopened credential = %q, want access-1", got)
	}
}

func TestTokenStoreSaveRequiresAccessToken(t *testing.T) {
	store := NewTokenStore(t.TempDir())
	if err := store.Save(Tokens{Refresh: "only-refresh"}); err == nil {
		t.Fatalf("expected error for missing access token")
	}
}

func TestTokenStoreClearIsIdempotent(t *testing.T) {
	store := NewTokenStore(t.TempDir())
	if err := store.Save(Tokens{Access: "bye"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear should be a no-op: %v", err)
	}
	if got := store.Credential(); got != "" {
		t.Fatalf("credential should be empty after clear, got %q", got)
	}
}
