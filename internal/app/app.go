package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"github.com/dori/taskdeck/internal/api"
	"github.com/dori/taskdeck/internal/config"
	"github.com/dori/taskdeck/internal/session"
	"github.com/dori/taskdeck/internal/store"
)

// App holds the wired application dependencies: configuration, the local
// key-value store, the session store and the remote client.
type App struct {
	Config   *config.Config
	Store    *store.Store
	Session  *session.Store
	Client   *api.Client
	lockFile *flock.Flock

	// sessionExpired is set by the remote client's unauthorized hook, which
	// runs on a request goroutine, so the UI can navigate to the login
	// screen on its next update.
	sessionExpired atomic.Bool
}

// New creates a new application instance
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		cfg = config.Load()
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	a := &App{Config: cfg}

	// The local store has a single sqlite writer; lock out other instances.
	if err := a.acquireLock(); err != nil {
		return nil, err
	}

	kv, err := store.Open(cfg.StorePath)
	if err != nil {
		a.releaseLock()
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	a.Store = kv

	a.Client = api.New(cfg.APIURL, nil, cfg.Timeout)
	a.Session = session.New(a.Client, kv)
	a.Client.SetTokenSource(a.Session)

	// Any 401 from a non-auth endpoint tears the session down globally.
	a.Client.OnUnauthorized(func() {
		a.Session.Teardown()
		a.sessionExpired.Store(true)
	})

	a.Session.Restore()

	return a, nil
}

// SessionExpired reports and clears the pending expiry flag.
func (a *App) SessionExpired() bool {
	return a.sessionExpired.Swap(false)
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.Config.DataDir, "taskdeck.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another instance of taskdeck is already running")
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close local store: %w", err))
		}
	}

	a.releaseLock()

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
