package config

const (
	defaultCacheDir          = "~/.local/share/ekko/transcript_cache"
	defaultAudioDir          = "~/.local/share/ekko/audio"
	defaultTranscriptsDir    = "~/.local/share/ekko/transcripts"
	defaultLogDir            = "~/.local/share/ekko/logs"
	defaultLedgerPath        = "~/.local/share/ekko/ledger.db"
	defaultCacheMaxSizeMB    = 500
	defaultEllipsisThreshold = 10
	defaultYouTubeBinary     = "yt-dlp"
	defaultMaxSearchResults  = 5
	defaultHostedBaseURL     = "https://api.openai.com/v1"
	defaultHostedModel       = "whisper-1"
	defaultHostedTimeout     = 600
	defaultRemoteTimeout     = 300
	defaultLocalModel        = "large-v3-turbo"
	defaultLocalBinary       = "uvx"
	defaultConnectTimeout    = 30
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// defaultChannelAliases biases video search for shows whose YouTube channel
// name differs from the podcast title. Merged under any user-configured
// aliases; user entries win.
var defaultChannelAliases = map[string]string{
	"The Joe Rogan Experience":     "joerogan",
	"Lex Fridman Podcast":          "lexfridman",
	"The Tim Ferriss Show":         "tim ferriss",
	"Huberman Lab":                 "hubermanlab",
	"The Daily":                    "nytimes the daily",
	"This American Life":           "this american life",
	"Conan O'Brien Needs a Friend": "conan obrien",
	"The Diary Of A CEO":           "steven bartlett",
	"All-In Podcast":               "all in podcast",
	"My First Million":             "my first million",
	"Lenny's Podcast":              "lennys podcast",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir:       defaultCacheDir,
			AudioDir:       defaultAudioDir,
			TranscriptsDir: defaultTranscriptsDir,
			LogDir:         defaultLogDir,
			LedgerPath:     defaultLedgerPath,
		},
		Transcripts: Transcripts{
			PreferYouTube:     true,
			Languages:         []string{"en"},
			EllipsisThreshold: defaultEllipsisThreshold,
		},
		Cache: Cache{
			Enabled:   true,
			MaxSizeMB: defaultCacheMaxSizeMB,
		},
		YouTube: YouTube{
			Binary:           defaultYouTubeBinary,
			MaxSearchResults: defaultMaxSearchResults,
		},
		Whisper: Whisper{
			Backend: BackendHosted,
			Hosted: WhisperHosted{
				BaseURL:        defaultHostedBaseURL,
				Model:          defaultHostedModel,
				TimeoutSeconds: defaultHostedTimeout,
			},
			Remote: WhisperRemote{
				TimeoutSeconds: defaultRemoteTimeout,
			},
			Local: WhisperLocal{
				Model:  defaultLocalModel,
				Binary: defaultLocalBinary,
			},
		},
		Download: Download{
			ConnectTimeoutSeconds: defaultConnectTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
