package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dori/taskdeck/internal/model"
)

// Storage keys for the persisted session.
const (
	keyToken = "session.token"
	keyUser  = "session.user"
)

// ErrInvalidResponse is returned when an otherwise-successful auth response
// is missing the token or the user.
var ErrInvalidResponse = errors.New("auth response missing token or user")

// Authenticator is the slice of the remote client the session store needs.
type Authenticator interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthPayload, error)
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthPayload, error)
}

// KV is the persisted key-value storage the session survives reloads in.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// Store owns the current session: the pair of bearer token and user
// identity. Both are set together or both absent, never one without the
// other. The store is passed by reference to whoever needs identity; there
// is no package-level session.
type Store struct {
	auth Authenticator
	kv   KV

	mu        sync.RWMutex
	token     string
	user      *model.User
	listeners []func()
}

// New creates a session store backed by the given authenticator and storage.
func New(auth Authenticator, kv KV) *Store {
	return &Store{auth: auth, kv: kv}
}

// Subscribe registers fn to run after every session change (login, register,
// logout, teardown). Listeners run on the calling goroutine.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Restore loads the persisted session at startup. A missing key or an
// unparseable stored user clears both entries and yields no session; it
// never fails the caller.
func (s *Store) Restore() {
	token, okToken, err := s.kv.Get(keyToken)
	if err != nil || !okToken || token == "" {
		s.clear()
		return
	}
	raw, okUser, err := s.kv.Get(keyUser)
	if err != nil || !okUser {
		s.clear()
		return
	}
	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.clear()
		return
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()
}

// Login authenticates with the backend and activates the session.
func (s *Store) Login(ctx context.Context, req model.LoginRequest) (*model.User, error) {
	payload, err := s.auth.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.activate(payload)
}

// Register creates an account and activates the session. Failures keep
// their remote classification (duplicate email arrives as a conflict,
// malformed input as validation) for the caller to present.
func (s *Store) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	payload, err := s.auth.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.activate(payload)
}

// activate validates the payload shape, persists the session and notifies
// listeners.
func (s *Store) activate(payload *model.AuthPayload) (*model.User, error) {
	if payload == nil || payload.Token == "" || payload.User == nil {
		return nil, ErrInvalidResponse
	}

	raw, err := json.Marshal(payload.User)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}
	if err := s.kv.Set(keyToken, payload.Token); err != nil {
		return nil, fmt.Errorf("persist token: %w", err)
	}
	if err := s.kv.Set(keyUser, string(raw)); err != nil {
		s.kv.Delete(keyToken)
		return nil, fmt.Errorf("persist user: %w", err)
	}

	s.mu.Lock()
	s.token = payload.Token
	s.user = payload.User
	s.mu.Unlock()

	s.notify()
	return payload.User, nil
}

// Logout clears the in-memory and persisted session unconditionally.
func (s *Store) Logout() {
	s.clear()
	s.notify()
}

// Teardown is the unauthorized-response hook: it drops the session exactly
// like Logout. Kept as a separate name so call sites read as what happened.
func (s *Store) Teardown() {
	s.Logout()
}

func (s *Store) clear() {
	s.kv.Delete(keyToken)
	s.kv.Delete(keyUser)

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.RLock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn()
	}
}

// Token implements the remote client's token source.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current user, nil when logged out.
func (s *Store) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsAuthenticated reports whether a non-empty token is held.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}
