package auth

import (
	"crypto/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tastebaseapp/tastebase-server/internal/domain"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("expected argon2id encoding, got %q", hash)
	}

	ok, err := VerifyPassword(hash, "correct horse battery staple")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Error("expected password to verify")
	}

	ok, err = VerifyPassword(hash, "wrong password")
	if err != nil {
		t.Fatalf("VerifyPassword wrong: %v", err)
	}
	if ok {
		t.Error("expected wrong password to fail")
	}
}

func TestHashPassword_Empty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Error("expected error for empty password")
	}
}

func TestHashPassword_Unique(t *testing.T) {
	h1, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword 1: %v", err)
	}
	h2, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword 2: %v", err)
	}
	// Random salts make each hash distinct.
	if h1 == h2 {
		t.Error("expected distinct hashes for the same password")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	ok, err := VerifyPassword("not-a-real-hash", "whatever")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Error("expected malformed hash to verify false")
	}
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := t.TempDir()

	key1, err := LoadOrGenerateKey(dir)
	if err != nil {
		t.Fatalf("LoadOrGenerateKey (generate): %v", err)
	}
	if len(key1) != keyLength {
		t.Fatalf("expected %d-byte key, got %d", keyLength, len(key1))
	}

	// Second load returns the same key.
	key2, err := LoadOrGenerateKey(dir)
	if err != nil {
		t.Fatalf("LoadOrGenerateKey (load): %v", err)
	}
	if string(key1) != string(key2) {
		t.Error("expected stable key across loads")
	}
}

func TestLoadOrGenerateKey_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "auth.key"), []byte("short"), 0o600); err != nil {
		t.Fatalf("write corrupt key: %v", err)
	}

	if _, err := LoadOrGenerateKey(dir); err == nil {
		t.Error("expected error for corrupt key file")
	}
}

func newTestTokenService(t *testing.T, duration time.Duration) *TokenService {
	t.Helper()
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("generate key: %v", err)
	}
	ts, err := NewTokenService(key, duration)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func TestGenerateAndVerifyAccessToken(t *testing.T) {
	ts := newTestTokenService(t, time.Hour)
	user := &domain.User{ID: "user-1", Email: "chef@example.com"}

	token, err := ts.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if !strings.HasPrefix(token, "v4.local.") {
		t.Errorf("expected v4.local token, got prefix %q", token[:min(len(token), 9)])
	}

	claims, err := ts.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID: got %q, want %q", claims.UserID, "user-1")
	}
	if claims.Email != "chef@example.com" {
		t.Errorf("Email: got %q, want %q", claims.Email, "chef@example.com")
	}
	if claims.Subject != "user-1" {
		t.Errorf("Subject: got %q, want %q", claims.Subject, "user-1")
	}
	if claims.TokenID == "" {
		t.Error("expected non-empty token ID")
	}
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	ts := newTestTokenService(t, -time.Minute)
	user := &domain.User{ID: "user-2", Email: "late@example.com"}

	token, err := ts.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ts.VerifyAccessToken(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestVerifyAccessToken_WrongKey(t *testing.T) {
	ts1 := newTestTokenService(t, time.Hour)
	ts2 := newTestTokenService(t, time.Hour)
	user := &domain.User{ID: "user-3", Email: "keys@example.com"}

	token, err := ts1.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ts2.VerifyAccessToken(token); err == nil {
		t.Error("expected error for token under different key")
	}
}

func TestNewTokenService_BadKeySize(t *testing.T) {
	if _, err := NewTokenService([]byte("too short"), time.Hour); err == nil {
		t.Error("expected error for undersized key")
	}
}
