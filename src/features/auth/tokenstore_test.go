package auth

import (
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestTokenStore_RoundTrip(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))
	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	if err := store.Save(token); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if loaded.AccessToken != token.AccessToken || loaded.RefreshToken != token.RefreshToken {
		t.Errorf("loaded token differs: %+v", loaded)
	}
	if !loaded.Expiry.Equal(token.Expiry) {
		t.Errorf("expected expiry %v, got %v", token.Expiry, loaded.Expiry)
	}
}

func TestTokenStore_LoadWithoutToken(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))
	if _, err := store.Load(); err == nil {
		t.Fatal("expected error when no token is saved")
	}
}

func TestTokenStore_Clear(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))
	if err := store.Save(&oauth2.Token{AccessToken: "access"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := store.Load(); err == nil {
		t.Fatal("expected error after clear")
	}
	// Clearing an already-cleared store is not an error.
	if err := store.Clear(); err != nil {
		t.Fatalf("expected idempotent clear, got %v", err)
	}
}
