package config

import (
	"fmt"
	"os"
	"strings"

	"ekko/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscripts()
	c.normalizeYouTube()
	c.normalizeWhisper()
	c.normalizeDownload()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if c.Paths.AudioDir, err = expandPath(c.Paths.AudioDir); err != nil {
		return fmt.Errorf("paths.audio_dir: %w", err)
	}
	if c.Paths.TranscriptsDir, err = expandPath(c.Paths.TranscriptsDir); err != nil {
		return fmt.Errorf("paths.transcripts_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.LedgerPath, err = expandPath(c.Paths.LedgerPath); err != nil {
		return fmt.Errorf("paths.ledger_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscripts() {
	if len(c.Transcripts.Languages) == 0 {
		c.Transcripts.Languages = []string{"en"}
	}
	normalized := make([]string, 0, len(c.Transcripts.Languages))
	seen := make(map[string]struct{}, len(c.Transcripts.Languages))
	for _, lang := range c.Transcripts.Languages {
		code := language.ToISO2(lang)
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		normalized = append(normalized, code)
	}
	if len(normalized) > 0 {
		c.Transcripts.Languages = normalized
	}
	if c.Transcripts.EllipsisThreshold <= 0 {
		c.Transcripts.EllipsisThreshold = defaultEllipsisThreshold
	}
}

func (c *Config) normalizeYouTube() {
	c.YouTube.Binary = strings.TrimSpace(c.YouTube.Binary)
	if c.YouTube.Binary == "" {
		c.YouTube.Binary = defaultYouTubeBinary
	}
	if c.YouTube.MaxSearchResults <= 0 {
		c.YouTube.MaxSearchResults = defaultMaxSearchResults
	}
	aliases := make(map[string]string, len(defaultChannelAliases)+len(c.YouTube.ChannelAliases))
	for show, alias := range defaultChannelAliases {
		aliases[show] = alias
	}
	for show, alias := range c.YouTube.ChannelAliases {
		show = strings.TrimSpace(show)
		alias = strings.TrimSpace(alias)
		if show == "" || alias == "" {
			continue
		}
		aliases[show] = alias
	}
	c.YouTube.ChannelAliases = aliases
}

func (c *Config) normalizeWhisper() {
	c.Whisper.Backend = strings.ToLower(strings.TrimSpace(c.Whisper.Backend))
	if c.Whisper.Backend == "" {
		c.Whisper.Backend = BackendHosted
	}
	if c.Whisper.Hosted.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.Whisper.Hosted.APIKey = value
		}
	}
	c.Whisper.Hosted.BaseURL = strings.TrimRight(strings.TrimSpace(c.Whisper.Hosted.BaseURL), "/")
	if c.Whisper.Hosted.BaseURL == "" {
		c.Whisper.Hosted.BaseURL = defaultHostedBaseURL
	}
	if c.Whisper.Hosted.Model == "" {
		c.Whisper.Hosted.Model = defaultHostedModel
	}
	if c.Whisper.Hosted.TimeoutSeconds <= 0 {
		c.Whisper.Hosted.TimeoutSeconds = defaultHostedTimeout
	}
	if c.Whisper.Remote.Token == "" {
		if value, ok := os.LookupEnv("EKKO_TRANSCRIBER_TOKEN"); ok {
			c.Whisper.Remote.Token = value
		}
	}
	c.Whisper.Remote.URL = strings.TrimRight(strings.TrimSpace(c.Whisper.Remote.URL), "/")
	if c.Whisper.Remote.TimeoutSeconds <= 0 {
		c.Whisper.Remote.TimeoutSeconds = defaultRemoteTimeout
	}
	if c.Whisper.Local.Model == "" {
		c.Whisper.Local.Model = defaultLocalModel
	}
	c.Whisper.Local.Binary = strings.TrimSpace(c.Whisper.Local.Binary)
	if c.Whisper.Local.Binary == "" {
		c.Whisper.Local.Binary = defaultLocalBinary
	}
}

func (c *Config) normalizeDownload() {
	if c.Download.ConnectTimeoutSeconds <= 0 {
		c.Download.ConnectTimeoutSeconds = defaultConnectTimeout
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
