package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. Credential problems for the
// active transcription backend surface here, at load time, because no
// fallback at call time can recover from them.
func (c *Config) Validate() error {
	if err := c.validateTranscripts(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateYouTube(); err != nil {
		return err
	}
	if err := c.validateWhisper(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTranscripts() error {
	if len(c.Transcripts.Languages) == 0 {
		return errors.New("transcripts.languages must contain at least one recognized language code")
	}
	return nil
}

func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		return errors.New("paths.cache_dir must be set when cache.enabled is true")
	}
	if c.Cache.MaxSizeMB <= 0 {
		return errors.New("cache.max_size_mb must be positive")
	}
	return nil
}

func (c *Config) validateYouTube() error {
	if c.YouTube.MaxSearchResults <= 0 {
		return errors.New("youtube.max_search_results must be positive")
	}
	return nil
}

func (c *Config) validateWhisper() error {
	switch c.Whisper.Backend {
	case BackendHosted:
		if strings.TrimSpace(c.Whisper.Hosted.APIKey) == "" {
			defaultPath, err := DefaultConfigPath()
			if err != nil {
				defaultPath = "~/.config/ekko/config.toml"
			}
			return fmt.Errorf("whisper.hosted.api_key is required for the hosted backend. Set OPENAI_API_KEY or edit %s (create with 'ekko config init')", defaultPath)
		}
	case BackendRemote:
		if strings.TrimSpace(c.Whisper.Remote.URL) == "" {
			return errors.New("whisper.remote.url must be set for the remote backend")
		}
		if strings.TrimSpace(c.Whisper.Remote.Token) == "" {
			return errors.New("whisper.remote.token is required for the remote backend. Set EKKO_TRANSCRIBER_TOKEN or add it to the config file")
		}
	case BackendLocal:
		if strings.TrimSpace(c.Whisper.Local.Model) == "" {
			return errors.New("whisper.local.model must be set for the local backend")
		}
	default:
		return fmt.Errorf("whisper.backend: unsupported value %q (expected %q, %q, or %q)",
			c.Whisper.Backend, BackendHosted, BackendRemote, BackendLocal)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
