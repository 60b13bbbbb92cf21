// Package deps checks the availability of external binaries and credentials
// the pipeline depends on, for the doctor-style preflight command.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/kl63/VerseVisions/internal/config"
)

// Requirement defines an external dependency VerseVisions relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements builds the dependency list for the given configuration.
// ffmpeg is only required when video assembly is enabled.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "ffmpeg",
			Command:     cfg.Video.FFmpegBinary,
			Description: "slideshow video assembly",
			Optional:    !cfg.Video.Enabled,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// CheckCredentials reports which API credentials are configured. These are
// presence checks only; no network calls are made.
func CheckCredentials(cfg *config.Config) []Status {
	return []Status{
		{
			Name:        "suno api key",
			Description: "music generation",
			Available:   strings.TrimSpace(cfg.Suno.APIKey) != "",
		},
		{
			Name:        "lyrics api key",
			Description: "lyrics generation",
			Optional:    true,
			Available:   strings.TrimSpace(cfg.Lyrics.APIKey) != "",
		},
		{
			Name:        "images api key",
			Description: "cover image generation",
			Optional:    !cfg.Images.Enabled,
			Available:   strings.TrimSpace(cfg.Images.APIKey) != "",
		},
	}
}
