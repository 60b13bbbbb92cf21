package testsupport

import (
	"context"
	"testing"

	"github.com/kl63/VerseVisions/internal/config"
	"github.com/kl63/VerseVisions/internal/taskstore"
)

// MustOpenStore opens a taskstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *taskstore.Store {
	t.Helper()

	store, err := taskstore.Open(cfg.TaskDBPath())
	if err != nil {
		t.Fatalf("taskstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewRun records a submitted run for tests using the provided store.
func NewRun(t testing.TB, store *taskstore.Store, taskID, theme string) *taskstore.Run {
	t.Helper()

	run, err := store.NewRun(context.Background(), taskID, theme, "", "", "")
	if err != nil {
		t.Fatalf("store.NewRun: %v", err)
	}
	return run
}
