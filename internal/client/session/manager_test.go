package session

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"estimapp/internal/domain"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestManagerEstablishPersistsTokenAndUserTogether(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store)

	if err := store.Set(KeyPendingEmail, "ana@example.com"); err != nil {
		t.Fatalf("seed pending email: %v", err)
	}
	user := domain.User{ID: "user-1", Email: "ana@example.com", Role: domain.RoleEstimator}
	if err := m.Establish(signedToken(t, time.Now().Add(time.Hour)), user); err != nil {
		t.Fatalf("establish: %v", err)
	}

	if !m.IsAuthenticated() {
		t.Fatalf("expected authenticated session")
	}
	if _, err := store.Get(KeyAuthToken); err != nil {
		t.Fatalf("expected token stored: %v", err)
	}
	if _, err := store.Get(KeyUser); err != nil {
		t.Fatalf("expected user stored: %v", err)
	}
	if _, err := store.Get(KeyPendingEmail); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected pending email dropped, got %v", err)
	}
}

func TestManagerClearRemovesAllThreeKeys(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store)

	user := domain.User{ID: "user-1", Email: "ana@example.com"}
	if err := m.Establish(signedToken(t, time.Now().Add(time.Hour)), user); err != nil {
		t.Fatalf("establish: %v", err)
	}
	if err := m.SetPendingEmail("otra@example.com"); err != nil {
		t.Fatalf("set pending email: %v", err)
	}

	if err := m.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if m.IsAuthenticated() {
		t.Fatalf("expected cleared session")
	}
	for _, key := range []string{KeyAuthToken, KeyUser, KeyPendingEmail} {
		if _, err := store.Get(key); !errors.Is(err, ErrKeyNotFound) {
			t.Fatalf("expected %s removed, got %v", key, err)
		}
	}
}

func TestManagerLoadRehydratesValidSession(t *testing.T) {
	store := NewMemoryStore()
	first := NewManager(store)
	user := domain.User{ID: "user-1", Email: "ana@example.com", Role: domain.RoleViewer}
	if err := first.Establish(signedToken(t, time.Now().Add(time.Hour)), user); err != nil {
		t.Fatalf("establish: %v", err)
	}

	second := NewManager(store)
	if err := second.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !second.IsAuthenticated() {
		t.Fatalf("expected rehydrated session")
	}
	got, ok := second.User()
	if !ok || got.Email != "ana@example.com" || got.Role != domain.RoleViewer {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestManagerLoadDiscardsExpiredToken(t *testing.T) {
	store := NewMemoryStore()
	first := NewManager(store)
	user := domain.User{ID: "user-1", Email: "ana@example.com"}
	if err := first.Establish(signedToken(t, time.Now().Add(-time.Minute)), user); err != nil {
		t.Fatalf("establish: %v", err)
	}

	second := NewManager(store)
	if err := second.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if second.IsAuthenticated() {
		t.Fatalf("expected expired session discarded")
	}
	if _, err := store.Get(KeyAuthToken); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected expired token removed, got %v", err)
	}
}

func TestManagerLoadDiscardsGarbageToken(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Set(KeyAuthToken, "not-a-jwt"); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	m := NewManager(store)
	if err := m.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.IsAuthenticated() {
		t.Fatalf("expected garbage token discarded")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	if err := store.Set(KeyAuthToken, "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(KeyPendingEmail, "ana@example.com"); err != nil {
		t.Fatalf("set: %v", err)
	}

	reopened := NewFileStore(path)
	got, err := reopened.Get(KeyAuthToken)
	if err != nil || got != "abc" {
		t.Fatalf("expected persisted token, got %q err %v", got, err)
	}
	if err := reopened.Delete(KeyAuthToken); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := reopened.Get(KeyAuthToken); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected key removed, got %v", err)
	}
}
