package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"TopicChat/internal/model"
)

// Store is the single source of truth for who is logged in and until when.
// It is constructed once at startup and passed by reference to every consumer;
// there is no package-level instance.
type Store struct {
	mu      sync.Mutex
	user    *model.User
	token   *model.AuthToken
	storage Storage
	logger  *slog.Logger
}

// NewStore creates a session store backed by the given storage. A previously
// persisted session is restored if one exists; a corrupt or missing entry
// leaves the store logged out. storage may be nil for a purely in-memory
// store.
func NewStore(storage Storage, logger *slog.Logger) *Store {
	s := &Store{storage: storage, logger: logger}

	if storage != nil {
		snap, err := storage.Load()
		if err != nil {
			logger.Warn("failed to restore session, starting logged out", "error", err)
		} else if snap != nil {
			s.user = &snap.User
			s.token = &snap.Token
			logger.Info("restored session", "username", snap.User.Username, "expiry", snap.Token.Expiry)
		}
	}

	return s
}

// Login sets the identity and credential atomically and persists them so a
// process restart does not force re-authentication before expiry. When the
// token carries no expiry, the JWT exp claim is used instead.
func (s *Store) Login(user model.User, token model.AuthToken) {
	if token.Expiry.IsZero() {
		if exp, err := expiryFromJWT(token.Token); err != nil {
			s.logger.Warn("token has no usable expiry", "error", err)
		} else {
			token.Expiry = exp
		}
	}

	s.mu.Lock()
	s.user = &user
	s.token = &token
	s.mu.Unlock()

	if s.storage != nil {
		if err := s.storage.Save(Snapshot{User: user, Token: token}); err != nil {
			s.logger.Error("failed to persist session", "error", err)
		}
	}

	s.logger.Info("logged in", "username", user.Username, "role", user.Role, "expiry", token.Expiry)
}

// Logout clears the identity and credential atomically and removes the
// persisted entry.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.token = nil
	s.mu.Unlock()

	if s.storage != nil {
		if err := s.storage.Clear(); err != nil {
			s.logger.Error("failed to clear persisted session", "error", err)
		}
	}

	s.logger.Info("logged out")
}

// IsLoggedIn reports whether a session is present and its token expiry is
// strictly in the future. It has no side effects and is safe to call on every
// protected-view entry. There is no expiry refresh: once false, it stays
// false until the next Login.
func (s *Store) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil || s.token == nil {
		return false
	}
	return s.token.Expiry.After(time.Now())
}

// User returns a copy of the logged-in user, if any
func (s *Store) User() (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// BearerToken returns the raw access token for outgoing calls. It returns the
// token whenever one is held; callers are expected to have gated access via
// IsLoggedIn already.
func (s *Store) BearerToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == nil {
		return "", false
	}
	return s.token.Token, true
}

// expiryFromJWT extracts the exp claim without verifying the signature. The
// client holds no signing key; the backend remains the authority and will
// reject a forged token anyway.
func expiryFromJWT(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, jwt.ErrTokenRequiredClaimMissing
	}
	return exp.Time, nil
}
