package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSuno()
	c.normalizeLyrics()
	c.normalizeImages()
	c.normalizeVideo()
	c.normalizePoll()
	c.normalizeDownload()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSuno() {
	if c.Suno.APIKey == "" {
		if value, ok := os.LookupEnv("SUNO_API_KEY"); ok {
			c.Suno.APIKey = strings.TrimSpace(value)
		}
	}
	c.Suno.BaseURL = strings.TrimRight(strings.TrimSpace(c.Suno.BaseURL), "/")
	if c.Suno.BaseURL == "" {
		c.Suno.BaseURL = defaultSunoBaseURL
	}
	c.Suno.Model = strings.TrimSpace(c.Suno.Model)
	if c.Suno.Model == "" {
		c.Suno.Model = defaultSunoModel
	}
	c.Suno.CallbackURL = strings.TrimSpace(c.Suno.CallbackURL)
	if c.Suno.CallbackURL == "" {
		c.Suno.CallbackURL = defaultSunoCallbackURL
	}
	if c.Suno.TimeoutSeconds <= 0 {
		c.Suno.TimeoutSeconds = defaultSunoTimeoutSeconds
	}
}

func (c *Config) normalizeLyrics() {
	if c.Lyrics.APIKey == "" {
		if value, ok := os.LookupEnv("ANTHROPIC_API_KEY"); ok {
			c.Lyrics.APIKey = strings.TrimSpace(value)
		}
	}
	c.Lyrics.BaseURL = strings.TrimSpace(c.Lyrics.BaseURL)
	if c.Lyrics.BaseURL == "" {
		c.Lyrics.BaseURL = defaultLyricsBaseURL
	}
	c.Lyrics.Model = strings.TrimSpace(c.Lyrics.Model)
	if c.Lyrics.Model == "" {
		c.Lyrics.Model = defaultLyricsModel
	}
	if c.Lyrics.MaxTokens <= 0 {
		c.Lyrics.MaxTokens = defaultLyricsMaxTokens
	}
	if c.Lyrics.Verses <= 0 {
		c.Lyrics.Verses = defaultLyricsVerses
	}
	if c.Lyrics.TimeoutSeconds <= 0 {
		c.Lyrics.TimeoutSeconds = defaultLyricsTimeout
	}
}

func (c *Config) normalizeImages() {
	if c.Images.APIKey == "" {
		if value, ok := os.LookupEnv("IMAGES_API_KEY"); ok {
			c.Images.APIKey = strings.TrimSpace(value)
		}
	}
	c.Images.BaseURL = strings.TrimSpace(c.Images.BaseURL)
	if c.Images.BaseURL == "" {
		c.Images.BaseURL = defaultImagesBaseURL
	}
	c.Images.Model = strings.TrimSpace(c.Images.Model)
	if c.Images.Model == "" {
		c.Images.Model = defaultImagesModel
	}
	if c.Images.Count <= 0 {
		c.Images.Count = defaultImagesCount
	}
	c.Images.Size = strings.TrimSpace(c.Images.Size)
	if c.Images.Size == "" {
		c.Images.Size = defaultImagesSize
	}
	if c.Images.TimeoutSeconds <= 0 {
		c.Images.TimeoutSeconds = defaultImagesTimeout
	}
}

func (c *Config) normalizeVideo() {
	c.Video.FFmpegBinary = strings.TrimSpace(c.Video.FFmpegBinary)
	if c.Video.FFmpegBinary == "" {
		c.Video.FFmpegBinary = defaultFFmpegBinary
	}
	if c.Video.SecondsPerImage <= 0 {
		c.Video.SecondsPerImage = defaultSecondsPerImage
	}
	c.Video.OutputExtension = strings.TrimSpace(c.Video.OutputExtension)
	if c.Video.OutputExtension == "" {
		c.Video.OutputExtension = defaultVideoExtension
	}
	if !strings.HasPrefix(c.Video.OutputExtension, ".") {
		c.Video.OutputExtension = "." + c.Video.OutputExtension
	}
}

func (c *Config) normalizePoll() {
	if c.Poll.IntervalSeconds <= 0 {
		c.Poll.IntervalSeconds = defaultPollIntervalSeconds
	}
	if c.Poll.MaxChecks <= 0 {
		c.Poll.MaxChecks = defaultPollMaxChecks
	}
}

func (c *Config) normalizeDownload() {
	if c.Download.MaxRetries <= 0 {
		c.Download.MaxRetries = defaultDownloadMaxRetries
	}
	if c.Download.ChunkBytes <= 0 {
		c.Download.ChunkBytes = defaultDownloadChunkBytes
	}
	if c.Download.TimeoutSeconds <= 0 {
		c.Download.TimeoutSeconds = defaultDownloadTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
