package deps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kl63/VerseVisions/internal/config"
	"github.com/kl63/VerseVisions/internal/testsupport"
)

func TestCheckBinariesReportsMissing(t *testing.T) {
	results := CheckBinaries([]Requirement{
		{Name: "missing", Command: "versevisions-test-no-such-binary"},
	})
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Available {
		t.Error("nonexistent binary reported available")
	}
	if results[0].Detail == "" {
		t.Error("missing binary needs a detail message")
	}
}

func TestCheckBinariesEmptyCommand(t *testing.T) {
	results := CheckBinaries([]Requirement{{Name: "unset"}})
	if results[0].Available {
		t.Error("empty command reported available")
	}
	if results[0].Detail != "command not configured" {
		t.Errorf("Detail = %q", results[0].Detail)
	}
}

func TestCheckBinariesFindsExecutable(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "fakefmpeg")
	if err := os.WriteFile(binary, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write stub binary: %v", err)
	}
	t.Setenv("PATH", dir)

	results := CheckBinaries([]Requirement{{Name: "ffmpeg", Command: "fakefmpeg"}})
	if !results[0].Available {
		t.Errorf("stub binary not found: %+v", results[0])
	}
}

func TestRequirementsOptionalUnlessVideoEnabled(t *testing.T) {
	cfg := config.Default()
	cfg.Video.Enabled = false
	if reqs := Requirements(&cfg); !reqs[0].Optional {
		t.Error("ffmpeg should be optional when video is disabled")
	}
	cfg.Video.Enabled = true
	if reqs := Requirements(&cfg); reqs[0].Optional {
		t.Error("ffmpeg should be required when video is enabled")
	}
}

func TestCheckCredentials(t *testing.T) {
	cfg := config.Default()
	cfg.Suno.APIKey = "key"
	cfg.Images.Enabled = true

	byName := map[string]Status{}
	for _, status := range CheckCredentials(&cfg) {
		byName[status.Name] = status
	}
	if !byName["suno api key"].Available {
		t.Error("suno key should report available")
	}
	if byName["lyrics api key"].Available {
		t.Error("unset lyrics key should report unavailable")
	}
	if byName["images api key"].Optional {
		t.Error("images key should be required when images are enabled")
	}
}

func TestRequirementsSatisfiedWithStubbedFFmpeg(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	cfg.Video.Enabled = true

	for _, status := range CheckBinaries(Requirements(cfg)) {
		if status.Name == "ffmpeg" && !status.Available {
			t.Errorf("stubbed ffmpeg not found: %+v", status)
		}
	}
}
