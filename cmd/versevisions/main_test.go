package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kl63/VerseVisions/internal/taskstore"
)

func TestRootCommandShowsHelp(t *testing.T) {
	out, _, err := runCLI(t, nil, "")
	if err != nil {
		t.Fatalf("root command: %v", err)
	}
	requireContains(t, out, "generate")
	requireContains(t, out, "check")
}

func TestGenerateRequiresTheme(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"generate"}, env.configPath)
	if err == nil {
		t.Fatal("expected generate without a theme to fail")
	}
}

func TestCheckWithoutSavedHandleFails(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err == nil {
		t.Fatal("expected check without a handle to fail")
	}
	if !strings.Contains(err.Error(), "no task handle") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTasksCommandEmptyHistory(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"tasks"}, env.configPath)
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	requireContains(t, out, "No runs recorded yet")
}

func TestTasksCommandListsRuns(t *testing.T) {
	env := setupCLITestEnv(t)

	store, err := taskstore.Open(filepath.Join(env.stateDir, "tasks.db"))
	if err != nil {
		t.Fatalf("taskstore.Open: %v", err)
	}
	run, err := store.NewRun(context.Background(), "task-123", "rivers", "River Song", "folk", "V4")
	if err != nil {
		t.Fatalf("NewRun: %v", err)
	}
	if err := store.UpdateStatus(context.Background(), run.ID, taskstore.StatusSucceeded, ""); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	out, _, err := runCLI(t, []string{"tasks"}, env.configPath)
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	requireContains(t, out, "River Song")
	requireContains(t, out, "task-123")
	requireContains(t, out, "succeeded")
}

func TestDoctorWithConfiguredKey(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	requireContains(t, out, "suno")
	requireContains(t, out, "All required dependencies are available")
}

func TestDownloadCommandSavesArtifact(t *testing.T) {
	env := setupCLITestEnv(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audio-bytes"))
	}))
	defer server.Close()

	out, _, err := runCLI(t, []string{"download", server.URL + "/song.mp3"}, env.configPath)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	requireContains(t, out, "Saved")

	target := filepath.Join(env.outputDir, "song.mp3")
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(data) != "audio-bytes" {
		t.Errorf("artifact contents = %q", data)
	}
}
