package credentials

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

// testEncryptionKey is a fixed 32-byte key for testing (hex-encoded to 64 chars)
const testEncryptionKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// newTestStore returns a Store backed by a temp dir and the fixed test key.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	tmp := t.TempDir()
	t.Setenv("QUANTUM_CONFIG_DIR", tmp)
	t.Setenv(envEncryptionKey, testEncryptionKey)

	store, err := NewStoreWithKeyProvider(NewEnvKeyProvider(envEncryptionKey))
	if err != nil {
		t.Fatalf("NewStoreWithKeyProvider() error = %v", err)
	}
	return store
}

func TestSaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	creds := &Credentials{
		Token:     "eyJhbGciOiJIUzI1NiJ9.test-token-payload.signature",
		BaseURL:   "http://localhost:8000/api",
		Email:     "demo@quantum.ai",
		Name:      "Demo User",
		Role:      "manager",
		ExpiresAt: time.Now().Add(30 * time.Minute).Truncate(time.Second),
	}

	if err := store.Save(creds); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Token != creds.Token {
		t.Errorf("Token = %v, want %v", loaded.Token, creds.Token)
	}
	if loaded.Email != "demo@quantum.ai" {
		t.Errorf("Email = %v, want demo@quantum.ai", loaded.Email)
	}
	if loaded.Role != "manager" {
		t.Errorf("Role = %v, want manager", loaded.Role)
	}
	if loaded.LastUpdated.IsZero() {
		t.Error("LastUpdated should be set by Save")
	}
}

func TestTokenEncryptedAtRest(t *testing.T) {
	store := newTestStore(t)

	token := "super-secret-session-token"
	if err := store.Save(&Credentials{Token: token}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	path, err := CredentialsPath()
	if err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if strings.Contains(string(raw), token) {
		t.Error("token stored in plaintext")
	}

	// The on-disk token field must not be the raw token.
	var onDisk Credentials
	if err := yaml.Unmarshal(raw, &onDisk); err != nil {
		t.Fatal(err)
	}
	if onDisk.Token == token {
		t.Error("on-disk token should be ciphertext")
	}
}

func TestLoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load()
	if !errors.Is(err, ErrNoCredentials) {
		t.Errorf("Load() error = %v, want ErrNoCredentials", err)
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save(&Credentials{Token: "tok"}); err != nil {
		t.Fatal(err)
	}
	if !store.Exists() {
		t.Fatal("credentials should exist after Save")
	}

	if err := store.Delete(); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if store.Exists() {
		t.Error("credentials should not exist after Delete")
	}

	// Deleting twice is not an error.
	if err := store.Delete(); err != nil {
		t.Errorf("second Delete() error = %v", err)
	}
}

func TestActiveToken(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		store := newTestStore(t)
		t.Setenv("QUANTUM_TOKEN", "env-token")

		tok, err := store.ActiveToken()
		if err != nil {
			t.Fatalf("ActiveToken() error = %v", err)
		}
		if tok != "env-token" {
			t.Errorf("ActiveToken() = %v, want env-token", tok)
		}
	})

	t.Run("stored token", func(t *testing.T) {
		store := newTestStore(t)
		if err := store.Save(&Credentials{Token: "stored-token"}); err != nil {
			t.Fatal(err)
		}

		tok, err := store.ActiveToken()
		if err != nil {
			t.Fatalf("ActiveToken() error = %v", err)
		}
		if tok != "stored-token" {
			t.Errorf("ActiveToken() = %v, want stored-token", tok)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		store := newTestStore(t)
		creds := &Credentials{
			Token:     "old-token",
			ExpiresAt: time.Now().Add(-time.Minute),
		}
		if err := store.Save(creds); err != nil {
			t.Fatal(err)
		}

		_, err := store.ActiveToken()
		if !errors.Is(err, ErrExpiredToken) {
			t.Errorf("ActiveToken() error = %v, want ErrExpiredToken", err)
		}
	})

	t.Run("no session", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.ActiveToken()
		if !errors.Is(err, ErrNoCredentials) {
			t.Errorf("ActiveToken() error = %v, want ErrNoCredentials", err)
		}
	})
}

func TestSetTokenPreservesProfile(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save(&Credentials{Token: "first", Email: "demo@quantum.ai"}); err != nil {
		t.Fatal(err)
	}

	if err := store.SetToken("second"); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Token != "second" {
		t.Errorf("Token = %v, want second", loaded.Token)
	}
	if loaded.Email != "demo@quantum.ai" {
		t.Errorf("Email = %v, SetToken should not drop profile fields", loaded.Email)
	}
}

func TestClearToken(t *testing.T) {
	store := newTestStore(t)

	if err := store.SetToken("tok"); err != nil {
		t.Fatal(err)
	}
	if err := store.ClearToken(); err != nil {
		t.Fatalf("ClearToken() error = %v", err)
	}
	if store.Exists() {
		t.Error("credentials should be removed by ClearToken")
	}
}

func TestCredentialsDir(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("QUANTUM_CONFIG_DIR", tmp)

	dir, err := CredentialsDir()
	if err != nil {
		t.Fatalf("CredentialsDir() error = %v", err)
	}
	if dir != tmp {
		t.Errorf("CredentialsDir() = %v, want %v", dir, tmp)
	}

	path, err := CredentialsPath()
	if err != nil {
		t.Fatalf("CredentialsPath() error = %v", err)
	}
	if path != filepath.Join(tmp, DefaultCredentialsFile) {
		t.Errorf("CredentialsPath() = %v", path)
	}
}

func TestMaskToken(t *testing.T) {
	if got := MaskToken("short"); got != "*****" {
		t.Errorf("MaskToken(short) = %v, want *****", got)
	}

	long := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9"
	got := MaskToken(long)
	if !strings.HasPrefix(got, long[:8]) || !strings.HasSuffix(got, long[len(long)-8:]) {
		t.Errorf("MaskToken(%q) = %v", long, got)
	}
	if strings.Contains(got, long[10:len(long)-10]) {
		t.Errorf("MaskToken(%q) leaks middle of token", long)
	}
}

func TestFormatExpiry(t *testing.T) {
	if got := FormatExpiry(time.Time{}); got != "unknown" {
		t.Errorf("FormatExpiry(zero) = %v, want unknown", got)
	}
	if got := FormatExpiry(time.Now().Add(-time.Hour)); got != "expired" {
		t.Errorf("FormatExpiry(past) = %v, want expired", got)
	}
	if got := FormatExpiry(time.Now().Add(30 * time.Minute)); !strings.Contains(got, "minutes") {
		t.Errorf("FormatExpiry(30m) = %v, want minutes", got)
	}
	if got := FormatExpiry(time.Now().Add(5 * time.Hour)); !strings.Contains(got, "hours") {
		t.Errorf("FormatExpiry(5h) = %v, want hours", got)
	}
	if got := FormatExpiry(time.Now().Add(72 * time.Hour)); !strings.Contains(got, "days") {
		t.Errorf("FormatExpiry(72h) = %v, want days", got)
	}
}
