package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	StateDir  string `toml:"state_dir"`
	LogDir    string `toml:"log_dir"`
}

// Suno contains configuration for the music generation API.
type Suno struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	CustomMode     bool   `toml:"custom_mode"`
	Instrumental   bool   `toml:"instrumental"`
	CallbackURL    string `toml:"callback_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Lyrics contains configuration for the LLM lyrics generator.
type Lyrics struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	MaxTokens      int    `toml:"max_tokens"`
	Verses         int    `toml:"verses"`
	Chorus         bool   `toml:"chorus"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Images contains configuration for optional cover image generation.
type Images struct {
	Enabled        bool   `toml:"enabled"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Count          int    `toml:"count"`
	Size           string `toml:"size"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Video contains configuration for optional slideshow assembly.
type Video struct {
	Enabled          bool   `toml:"enabled"`
	FFmpegBinary     string `toml:"ffmpeg_binary"`
	SecondsPerImage  int    `toml:"seconds_per_image"`
	OutputExtension  string `toml:"output_extension"`
	KeepIntermediate bool   `toml:"keep_intermediate"`
}

// Poll contains configuration for the status poller.
type Poll struct {
	IntervalSeconds int `toml:"interval_seconds"`
	MaxChecks       int `toml:"max_checks"`
}

// Download contains configuration for artifact downloads.
type Download struct {
	MaxRetries     int `toml:"max_retries"`
	ChunkBytes     int `toml:"chunk_bytes"`
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for VerseVisions.
//
// Configuration sections by subsystem:
//   - Paths: output, state, and log directories
//   - Suno: music generation API connection and submission defaults
//   - Lyrics: LLM connection for lyrics generation
//   - Images: optional cover image generation
//   - Video: optional slideshow assembly via ffmpeg
//   - Poll: status poll interval and attempt budget
//   - Download: retry budget and chunk size for artifact downloads
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Suno     Suno     `toml:"suno"`
	Lyrics   Lyrics   `toml:"lyrics"`
	Images   Images   `toml:"images"`
	Video    Video    `toml:"video"`
	Poll     Poll     `toml:"poll"`
	Download Download `toml:"download"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/versevisions/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("versevisions.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for pipeline operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ResumeFilePath returns the location of the single-slot task handle file.
func (c *Config) ResumeFilePath() string {
	return filepath.Join(c.Paths.StateDir, "last_task_id.txt")
}

// TaskDBPath returns the location of the task history database.
func (c *Config) TaskDBPath() string {
	return filepath.Join(c.Paths.StateDir, "tasks.db")
}

// CreateSample writes the embedded sample configuration to the target path.
func CreateSample(target string) error {
	sample := sampleConfig
	if !strings.HasSuffix(sample, "\n") {
		sample += "\n"
	}
	return os.WriteFile(target, []byte(sample), 0o644)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
