package resume

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kl63/VerseVisions/internal/logging"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "state", "last_task_id.txt"), logging.NewNop())
}

func TestSaveThenLoad(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save("abc123"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	taskID, ok, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !ok {
		t.Fatal("Load found nothing after Save")
	}
	if taskID != "abc123" {
		t.Errorf("taskID = %q, want abc123", taskID)
	}
}

func TestSaveWritesExactHandle(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save("abc123"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read resume file: %v", err)
	}
	if string(data) != "abc123" {
		t.Errorf("file contents = %q, want exactly abc123", data)
	}
}

func TestSaveOverwritesPreviousHandle(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save("first"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save("second"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	taskID, ok, err := store.Load()
	if err != nil || !ok {
		t.Fatalf("Load = %q, %v, %v", taskID, ok, err)
	}
	if taskID != "second" {
		t.Errorf("taskID = %q, want second", taskID)
	}
}

func TestLoadMissingFile(t *testing.T) {
	store := newTestStore(t)
	taskID, ok, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ok || taskID != "" {
		t.Errorf("Load = %q, %v, want empty and false", taskID, ok)
	}
}

func TestSaveRejectsEmptyHandle(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save("  "); err == nil {
		t.Fatal("Save accepted a blank handle")
	}
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save("abc123"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok, _ := store.Load(); ok {
		t.Error("handle still present after Clear")
	}
	if err := store.Clear(); err != nil {
		t.Errorf("Clear on empty store failed: %v", err)
	}
}
