package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitAndValidate(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SUNO_API_KEY", "test")

	// config validate falls back to defaults when no file exists
	out, _, err := runCLI(t, []string{"config", "validate"}, "")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	// config init to temp location
	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// a second init without --overwrite refuses to clobber
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init over an existing file to fail")
	}

	// --overwrite replaces the file
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigShowMasksSecrets(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SUNO_API_KEY", "super-secret-key")

	out, _, err := runCLI(t, []string{"config", "show"}, "")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "suno.api_key")
	if strings.Contains(out, "super-secret-key") {
		t.Error("api key printed in clear text")
	}
}

func TestMaskSecret(t *testing.T) {
	if got := maskSecret(""); got != "(unset)" {
		t.Errorf("maskSecret(empty) = %q", got)
	}
	if got := maskSecret("abcd"); got != "****" {
		t.Errorf("maskSecret(short) = %q", got)
	}
	got := maskSecret("super-secret-key")
	if strings.Contains(got, "secret") {
		t.Errorf("maskSecret leaked middle: %q", got)
	}
	if !strings.HasPrefix(got, "su") || !strings.HasSuffix(got, "ey") {
		t.Errorf("maskSecret edges wrong: %q", got)
	}
}
