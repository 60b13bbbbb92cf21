package main

import (
	"testing"

	"github.com/kl63/VerseVisions/internal/config"
)

func TestApplyPollFlagsOverridesSchedule(t *testing.T) {
	cfg := config.Default()
	cmd := newGenerateCommand(newCommandContext(nil, nil))
	if err := cmd.ParseFlags([]string{"--interval", "3", "--checks", "7"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	applyPollFlags(cmd, &cfg)
	if cfg.Poll.IntervalSeconds != 3 {
		t.Errorf("IntervalSeconds = %d, want 3", cfg.Poll.IntervalSeconds)
	}
	if cfg.Poll.MaxChecks != 7 {
		t.Errorf("MaxChecks = %d, want 7", cfg.Poll.MaxChecks)
	}
}

func TestApplyPollFlagsKeepsConfigWhenUnset(t *testing.T) {
	cfg := config.Default()
	wantInterval := cfg.Poll.IntervalSeconds
	wantChecks := cfg.Poll.MaxChecks

	cmd := newCheckCommand(newCommandContext(nil, nil))
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	applyPollFlags(cmd, &cfg)
	if cfg.Poll.IntervalSeconds != wantInterval || cfg.Poll.MaxChecks != wantChecks {
		t.Errorf("poll schedule changed without flags: %+v", cfg.Poll)
	}
}
