package session

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"TopicChat/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testUser() model.User {
	return model.User{ID: 7, Username: "alice", Role: model.RoleUser}
}

func TestLoginLogoutAtomicity(t *testing.T) {
	store := NewStore(nil, testLogger())

	if store.IsLoggedIn() {
		t.Fatal("fresh store should not be logged in")
	}
	if _, ok := store.User(); ok {
		t.Fatal("fresh store should hold no user")
	}
	if _, ok := store.BearerToken(); ok {
		t.Fatal("fresh store should hold no token")
	}

	store.Login(testUser(), model.AuthToken{Token: "tok", Expiry: time.Now().Add(time.Hour)})

	if !store.IsLoggedIn() {
		t.Fatal("expected logged in after Login")
	}
	user, ok := store.User()
	if !ok || user.Username != "alice" {
		t.Fatalf("expected user alice, got %+v (ok=%v)", user, ok)
	}
	token, ok := store.BearerToken()
	if !ok || token != "tok" {
		t.Fatalf("expected token tok, got %q (ok=%v)", token, ok)
	}

	store.Logout()

	if store.IsLoggedIn() {
		t.Fatal("expected logged out after Logout")
	}
	if _, ok := store.User(); ok {
		t.Fatal("user should be cleared after Logout")
	}
	if _, ok := store.BearerToken(); ok {
		t.Fatal("token should be cleared after Logout")
	}
}

func TestExpiryBoundary(t *testing.T) {
	tests := []struct {
		name   string
		expiry time.Time
		want   bool
	}{
		{"expired one second ago", time.Now().Add(-time.Second), false},
		{"expires in one hour", time.Now().Add(time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(nil, testLogger())
			store.Login(testUser(), model.AuthToken{Token: "tok", Expiry: tt.expiry})
			if got := store.IsLoggedIn(); got != tt.want {
				t.Errorf("IsLoggedIn() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpiryRecoveredFromJWT(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}

	store := NewStore(nil, testLogger())
	store.Login(testUser(), model.AuthToken{Token: signed})

	if !store.IsLoggedIn() {
		t.Fatal("expected logged in with expiry recovered from the exp claim")
	}
}

func TestTokenWithoutExpiryIsExpired(t *testing.T) {
	store := NewStore(nil, testLogger())
	store.Login(testUser(), model.AuthToken{Token: "not-a-jwt"})

	if store.IsLoggedIn() {
		t.Fatal("a token with no recoverable expiry must not count as logged in")
	}
}

func TestPersistenceAcrossRestart(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "client.db")

	storage, err := OpenSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	defer storage.Close()

	store := NewStore(storage, testLogger())
	store.Login(testUser(), model.AuthToken{Token: "tok", Expiry: time.Now().Add(time.Hour)})

	// A second store over the same storage stands in for a process restart
	restored := NewStore(storage, testLogger())
	if !restored.IsLoggedIn() {
		t.Fatal("expected session to survive a restart before expiry")
	}
	user, ok := restored.User()
	if !ok || user.ID != 7 {
		t.Fatalf("expected restored user id 7, got %+v (ok=%v)", user, ok)
	}

	restored.Logout()

	after := NewStore(storage, testLogger())
	if after.IsLoggedIn() {
		t.Fatal("logout must remove the persisted session")
	}
}

func TestExpiredSessionDoesNotRestoreAsLoggedIn(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "client.db")

	storage, err := OpenSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	defer storage.Close()

	store := NewStore(storage, testLogger())
	store.Login(testUser(), model.AuthToken{Token: "tok", Expiry: time.Now().Add(-time.Minute)})

	restored := NewStore(storage, testLogger())
	if restored.IsLoggedIn() {
		t.Fatal("an expired persisted session must restore as logged out")
	}
	// The identity is still restored; only the gate is closed and there is
	// no silent renewal.
	if _, ok := restored.User(); !ok {
		t.Fatal("expected the persisted identity to be readable")
	}
}

func TestStorageLoadEmptyDatabase(t *testing.T) {
	storage, err := OpenSQLiteStorage(filepath.Join(t.TempDir(), "client.db"))
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	defer storage.Close()

	snap, err := storage.Load()
	if err != nil {
		t.Fatalf("Load() on empty database: %v", err)
	}
	if snap != nil {
		t.Fatalf("expected nil snapshot, got %+v", snap)
	}
}
