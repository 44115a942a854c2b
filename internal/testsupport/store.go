package testsupport

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"mediamend/internal/config"
	"mediamend/internal/sessions"
)

// MustOpenSessions opens a session store under the config's data directory
// and registers cleanup.
func MustOpenSessions(t testing.TB, cfg *config.Config) *sessions.Store {
	t.Helper()

	store, err := sessions.Open(filepath.Join(cfg.Paths.DataDir, "sessions.db"))
	if err != nil {
		t.Fatalf("sessions.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// NewSession creates a one-hour session for tests using the provided store.
func NewSession(t testing.TB, store *sessions.Store, username string) sessions.Session {
	t.Helper()

	session, err := store.Create(context.Background(), username, time.Hour)
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return session
}
