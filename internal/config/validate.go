package config

import (
	"errors"
	"fmt"
)

var sunoModels = map[string]struct{}{
	"V3_5": {},
	"V4":   {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSuno(); err != nil {
		return err
	}
	if err := c.validateLyrics(); err != nil {
		return err
	}
	if err := c.validateImages(); err != nil {
		return err
	}
	if err := c.validatePoll(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSuno() error {
	if c.Suno.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/versevisions/config.toml"
		}
		return fmt.Errorf("suno.api_key is required. Set SUNO_API_KEY env var or edit %s (create with 'versevisions config init')", defaultPath)
	}
	if _, ok := sunoModels[c.Suno.Model]; !ok {
		return fmt.Errorf("suno.model must be one of V3_5 or V4, got %q", c.Suno.Model)
	}
	return nil
}

func (c *Config) validateLyrics() error {
	// Lyrics are optional when running instrumental; the pipeline disables
	// the stage when no key is configured, so only shapes are validated here.
	if c.Lyrics.MaxTokens < 1 {
		return errors.New("lyrics.max_tokens must be positive")
	}
	if c.Lyrics.Verses < 1 {
		return errors.New("lyrics.verses must be positive")
	}
	return nil
}

func (c *Config) validateImages() error {
	if !c.Images.Enabled {
		return nil
	}
	if c.Images.APIKey == "" {
		return errors.New("images.enabled is set but images.api_key is empty (set IMAGES_API_KEY or disable the stage)")
	}
	if c.Images.Count < 1 {
		return errors.New("images.count must be positive")
	}
	return nil
}

func (c *Config) validatePoll() error {
	if c.Poll.IntervalSeconds < 1 {
		return errors.New("poll.interval_seconds must be positive")
	}
	if c.Poll.MaxChecks < 1 {
		return errors.New("poll.max_checks must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
