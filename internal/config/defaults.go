package config

const (
	defaultOutputDir           = "~/Music/versevisions"
	defaultStateDir            = "~/.local/share/versevisions"
	defaultLogDir              = "~/.local/share/versevisions/logs"
	defaultSunoBaseURL         = "https://apibox.erweima.ai/api/v1"
	defaultSunoModel           = "V3_5"
	defaultSunoCallbackURL     = "https://example.com/callback"
	defaultSunoTimeoutSeconds  = 30
	defaultLyricsBaseURL       = "https://api.anthropic.com/v1/messages"
	defaultLyricsModel         = "claude-3-opus-20240229"
	defaultLyricsMaxTokens     = 1000
	defaultLyricsVerses        = 2
	defaultLyricsTimeout       = 60
	defaultImagesBaseURL       = "https://api.openai.com/v1/images/generations"
	defaultImagesModel         = "dall-e-3"
	defaultImagesCount         = 4
	defaultImagesSize          = "1024x1024"
	defaultImagesTimeout       = 120
	defaultFFmpegBinary        = "ffmpeg"
	defaultSecondsPerImage     = 5
	defaultVideoExtension      = ".mp4"
	defaultPollIntervalSeconds = 10
	defaultPollMaxChecks       = 30
	defaultDownloadMaxRetries  = 5
	defaultDownloadChunkBytes  = 8192
	defaultDownloadTimeout     = 60
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
		},
		Suno: Suno{
			BaseURL:        defaultSunoBaseURL,
			Model:          defaultSunoModel,
			CustomMode:     true,
			CallbackURL:    defaultSunoCallbackURL,
			TimeoutSeconds: defaultSunoTimeoutSeconds,
		},
		Lyrics: Lyrics{
			BaseURL:        defaultLyricsBaseURL,
			Model:          defaultLyricsModel,
			MaxTokens:      defaultLyricsMaxTokens,
			Verses:         defaultLyricsVerses,
			Chorus:         true,
			TimeoutSeconds: defaultLyricsTimeout,
		},
		Images: Images{
			BaseURL:        defaultImagesBaseURL,
			Model:          defaultImagesModel,
			Count:          defaultImagesCount,
			Size:           defaultImagesSize,
			TimeoutSeconds: defaultImagesTimeout,
		},
		Video: Video{
			FFmpegBinary:    defaultFFmpegBinary,
			SecondsPerImage: defaultSecondsPerImage,
			OutputExtension: defaultVideoExtension,
		},
		Poll: Poll{
			IntervalSeconds: defaultPollIntervalSeconds,
			MaxChecks:       defaultPollMaxChecks,
		},
		Download: Download{
			MaxRetries:     defaultDownloadMaxRetries,
			ChunkBytes:     defaultDownloadChunkBytes,
			TimeoutSeconds: defaultDownloadTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
