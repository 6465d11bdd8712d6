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
	CacheDir       string `toml:"cache_dir"`
	AudioDir       string `toml:"audio_dir"`
	TranscriptsDir string `toml:"transcripts_dir"`
	LogDir         string `toml:"log_dir"`
	LedgerPath     string `toml:"ledger_path"`
}

// Transcripts contains fetch policy settings.
type Transcripts struct {
	PreferYouTube     bool     `toml:"prefer_youtube"`
	Languages         []string `toml:"languages"`
	EllipsisThreshold int      `toml:"ellipsis_threshold"`
}

// Cache contains transcript cache settings.
type Cache struct {
	Enabled   bool `toml:"enabled"`
	MaxSizeMB int  `toml:"max_size_mb"`
}

// YouTube contains video search settings.
type YouTube struct {
	Binary           string            `toml:"binary"`
	MaxSearchResults int               `toml:"max_search_results"`
	ChannelAliases   map[string]string `toml:"channel_aliases"`
}

// WhisperHosted configures the hosted speech API backend.
type WhisperHosted struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// WhisperRemote configures the self-hosted transcription service backend.
type WhisperRemote struct {
	URL            string `toml:"url"`
	Token          string `toml:"token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// WhisperLocal configures the on-device model backend.
type WhisperLocal struct {
	Model  string `toml:"model"`
	Binary string `toml:"binary"`
}

// Whisper selects and configures the speech transcription backend. Exactly
// one backend is active; the choice is made here, once, not per call.
type Whisper struct {
	Backend string        `toml:"backend"` // "hosted", "remote", or "local"
	Hosted  WhisperHosted `toml:"hosted"`
	Remote  WhisperRemote `toml:"remote"`
	Local   WhisperLocal  `toml:"local"`
}

// Download contains audio download settings.
type Download struct {
	ConnectTimeoutSeconds int `toml:"connect_timeout_seconds"`
}

// Logging contains log output settings.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Recognized whisper backend values.
const (
	BackendHosted = "hosted"
	BackendRemote = "remote"
	BackendLocal  = "local"
)

// Config encapsulates all configuration values for ekko.
type Config struct {
	Paths       Paths       `toml:"paths"`
	Transcripts Transcripts `toml:"transcripts"`
	Cache       Cache       `toml:"cache"`
	YouTube     YouTube     `toml:"youtube"`
	Whisper     Whisper     `toml:"whisper"`
	Download    Download    `toml:"download"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/ekko/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The bool result
// reports whether a file was found at the resolved path.
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

	projectPath, err := filepath.Abs("ekko.toml")
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

// EnsureDirectories creates the directories the fetch pipeline writes to.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.AudioDir, c.Paths.TranscriptsDir, c.Paths.LogDir}
	if c.Cache.Enabled {
		dirs = append(dirs, c.Paths.CacheDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if path := strings.TrimSpace(c.Paths.LedgerPath); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create ledger directory: %w", err)
		}
	}
	return nil
}

// CacheBudgetBytes returns the configured cache budget in bytes.
func (c *Config) CacheBudgetBytes() int64 {
	return int64(c.Cache.MaxSizeMB) * 1024 * 1024
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

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
