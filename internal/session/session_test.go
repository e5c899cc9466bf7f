package session

import (
	"context"
	"testing"

	"github.com/dori/taskdeck/internal/api"
	"github.com/dori/taskdeck/internal/model"
)

// fakeKV is an in-memory stand-in for the sqlite store.
type fakeKV struct {
	data map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) Get(key string) (string, bool, error) {
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKV) Set(key, value string) error {
	f.data[key] = value
	return nil
}

func (f *fakeKV) Delete(key string) error {
	delete(f.data, key)
	return nil
}

// fakeAuth returns a canned payload or error for both endpoints.
type fakeAuth struct {
	payload *model.AuthPayload
	err     error
}

func (f *fakeAuth) Login(ctx context.Context, req model.LoginRequest) (*model.AuthPayload, error) {
	return f.payload, f.err
}

func (f *fakeAuth) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthPayload, error) {
	return f.payload, f.err
}

func validPayload() *model.AuthPayload {
	return &model.AuthPayload{
		Token: "tok-abc",
		User:  &model.User{ID: 5, Name: "Dana", Email: "dana@example.com"},
	}
}

func TestLoginActivatesAndPersists(t *testing.T) {
	kv := newFakeKV()
	s := New(&fakeAuth{payload: validPayload()}, kv)

	user, err := s.Login(context.Background(), model.LoginRequest{Email: "dana@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != 5 {
		t.Errorf("user = %+v", user)
	}
	if !s.IsAuthenticated() || s.Token() != "tok-abc" {
		t.Error("session not active after login")
	}
	if _, ok := kv.data[keyToken]; !ok {
		t.Error("token not persisted")
	}
	if _, ok := kv.data[keyUser]; !ok {
		t.Error("user not persisted")
	}
}

func TestLoginErrorKeepsNoSession(t *testing.T) {
	kv := newFakeKV()
	s := New(&fakeAuth{err: &api.Error{Kind: api.KindUnauthorized, Status: 401}}, kv)

	_, err := s.Login(context.Background(), model.LoginRequest{Email: "x@y.z", Password: "bad"})
	if !api.IsUnauthorized(err) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
	if s.IsAuthenticated() {
		t.Error("session active after failed login")
	}
	if len(kv.data) != 0 {
		t.Errorf("storage holds %d entries after failed login", len(kv.data))
	}
}

func TestActivateRejectsIncompletePayload(t *testing.T) {
	tests := []struct {
		name    string
		payload *model.AuthPayload
	}{
		{"missing token", &model.AuthPayload{User: &model.User{ID: 1}}},
		{"missing user", &model.AuthPayload{Token: "t"}},
		{"nil payload", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newFakeKV()
			s := New(&fakeAuth{payload: tt.payload}, kv)

			_, err := s.Login(context.Background(), model.LoginRequest{})
			if err != ErrInvalidResponse {
				t.Fatalf("err = %v, want ErrInvalidResponse", err)
			}
			if s.IsAuthenticated() {
				t.Error("session active after invalid payload")
			}
		})
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	kv := newFakeKV()
	s := New(&fakeAuth{payload: validPayload()}, kv)
	if _, err := s.Login(context.Background(), model.LoginRequest{}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	restored := New(&fakeAuth{}, kv)
	restored.Restore()
	if !restored.IsAuthenticated() {
		t.Fatal("session not restored")
	}
	if restored.Token() != "tok-abc" {
		t.Errorf("token = %q", restored.Token())
	}
	user := restored.User()
	if user == nil || user.ID != 5 || user.Email != "dana@example.com" {
		t.Errorf("user = %+v", user)
	}
}

// Token and user are set together or not at all. A lone entry, whichever
// one, restores to no session and scrubs the leftover.
func TestRestorePartialEntriesClearBoth(t *testing.T) {
	tests := []struct {
		name string
		seed map[string]string
	}{
		{"token only", map[string]string{keyToken: "tok"}},
		{"user only", map[string]string{keyUser: `{"id":5,"name":"Dana","email":"d@e.f"}`}},
		{"corrupt user", map[string]string{keyToken: "tok", keyUser: "{not json"}},
		{"empty token", map[string]string{keyToken: "", keyUser: `{"id":5}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newFakeKV()
			for k, v := range tt.seed {
				kv.data[k] = v
			}

			s := New(&fakeAuth{}, kv)
			s.Restore()
			if s.IsAuthenticated() {
				t.Error("session restored from partial storage")
			}
			if s.User() != nil {
				t.Error("user present without full session")
			}
			if len(kv.data) != 0 {
				t.Errorf("storage holds %d entries after failed restore", len(kv.data))
			}
		})
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	kv := newFakeKV()
	s := New(&fakeAuth{payload: validPayload()}, kv)
	if _, err := s.Login(context.Background(), model.LoginRequest{}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	s.Logout()
	if s.IsAuthenticated() || s.Token() != "" || s.User() != nil {
		t.Error("session survives logout")
	}
	if len(kv.data) != 0 {
		t.Errorf("storage holds %d entries after logout", len(kv.data))
	}

	// A fresh store over the same storage sees nothing.
	again := New(&fakeAuth{}, kv)
	again.Restore()
	if again.IsAuthenticated() {
		t.Error("session restored after logout")
	}
}

func TestTeardownDropsSession(t *testing.T) {
	kv := newFakeKV()
	s := New(&fakeAuth{payload: validPayload()}, kv)
	if _, err := s.Login(context.Background(), model.LoginRequest{}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	s.Teardown()
	if s.IsAuthenticated() {
		t.Error("session survives teardown")
	}

	// The next startup must not resurrect the dropped session.
	next := New(&fakeAuth{}, kv)
	next.Restore()
	if next.IsAuthenticated() {
		t.Error("session restored after teardown")
	}
}

func TestSubscribeFiresOnChanges(t *testing.T) {
	kv := newFakeKV()
	s := New(&fakeAuth{payload: validPayload()}, kv)

	fired := 0
	s.Subscribe(func() { fired++ })

	if _, err := s.Login(context.Background(), model.LoginRequest{}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	s.Logout()

	if fired != 2 {
		t.Errorf("listener fired %d times, want 2", fired)
	}
}
