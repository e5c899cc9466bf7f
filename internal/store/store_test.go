package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestGetMissingKey(t *testing.T) {
	s, _ := openTestStore(t)

	value, ok, err := s.Get("session.token")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Errorf("expected missing key, got value %q", value)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	s, _ := openTestStore(t)

	if err := s.Set("session.token", "abc123"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok, err := s.Get("session.token")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected key to exist")
	}
	if value != "abc123" {
		t.Errorf("Get = %q, want %q", value, "abc123")
	}
}

func TestSetOverwrites(t *testing.T) {
	s, _ := openTestStore(t)

	if err := s.Set("session.token", "first"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set("session.token", "second"); err != nil {
		t.Fatalf("Set (overwrite) failed: %v", err)
	}

	value, ok, err := s.Get("session.token")
	if err != nil || !ok {
		t.Fatalf("Get failed: value=%q ok=%v err=%v", value, ok, err)
	}
	if value != "second" {
		t.Errorf("Get = %q, want %q", value, "second")
	}
}

func TestDelete(t *testing.T) {
	s, _ := openTestStore(t)

	if err := s.Set("session.user", `{"id":1}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Delete("session.user"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, ok, err := s.Get("session.user")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected key to be gone after Delete")
	}

	// Deleting an absent key is not an error
	if err := s.Delete("session.user"); err != nil {
		t.Errorf("Delete of missing key failed: %v", err)
	}
}

// TestReopenPersistence verifies values survive a close/reopen cycle, which
// is what lets a session outlive the process.
func TestReopenPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	if err := s.Set("session.token", "persisted"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	value, ok, err := reopened.Get("session.token")
	if err != nil || !ok {
		t.Fatalf("Get after reopen failed: value=%q ok=%v err=%v", value, ok, err)
	}
	if value != "persisted" {
		t.Errorf("Get = %q, want %q", value, "persisted")
	}
}
