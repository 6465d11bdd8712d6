package fetcher

import (
	"fmt"
	"log/slog"
	"time"

	"ekko/internal/cache"
	"ekko/internal/config"
	"ekko/internal/download"
	"ekko/internal/language"
	"ekko/internal/ledger"
	"ekko/internal/logging"
	"ekko/internal/services/whisper"
	"ekko/internal/services/whisperd"
	"ekko/internal/services/whisperlocal"
	"ekko/internal/subtitles"
	"ekko/internal/transcribe"
	"ekko/internal/transcript"
	"ekko/internal/youtube"
)

// New is the composition root: it builds every component of the acquisition
// chain from configuration. All clients are constructed once here and
// injected; nothing in the chain reaches for global state.
func New(cfg *config.Config, logger *slog.Logger) (*Fetcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("fetcher: config is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("fetcher: ensure directories: %w", err)
	}

	ledg, err := ledger.Open(cfg.Paths.LedgerPath)
	if err != nil {
		return nil, err
	}

	var store *cache.Store
	if cfg.Cache.Enabled {
		store = cache.NewStore(cfg.Paths.CacheDir, cfg.CacheBudgetBytes(), logger)
	}

	searcher := youtube.NewYTDLPSearcher(cfg.YouTube.Binary)
	locator := youtube.NewLocator(searcher, cfg.YouTube.ChannelAliases, cfg.YouTube.MaxSearchResults, logger)
	captions := subtitles.NewService(
		subtitles.NewYTDLPClient(cfg.YouTube.Binary),
		cfg.Transcripts.Languages,
		logging.NewComponentLogger(logger, "subtitles"))

	scorer := transcript.Scorer{EllipsisThreshold: cfg.Transcripts.EllipsisThreshold}
	downloader := download.New(
		cfg.Paths.AudioDir,
		time.Duration(cfg.Download.ConnectTimeoutSeconds)*time.Second,
		ledg, logger)

	engine, err := buildEngine(cfg, downloader, scorer, logger)
	if err != nil {
		ledg.Close()
		return nil, err
	}
	logger.Debug("transcription backend configured",
		logging.String(logging.FieldBackend, cfg.Whisper.Backend))

	return &Fetcher{
		cache:         store,
		locator:       locator,
		captions:      captions,
		engine:        engine,
		ledger:        ledg,
		preferYouTube: cfg.Transcripts.PreferYouTube,
		logger:        logging.NewComponentLogger(logger, "fetcher"),
	}, nil
}

func buildEngine(cfg *config.Config, downloader *download.Downloader, scorer transcript.Scorer, logger *slog.Logger) (*transcribe.Engine, error) {
	engineLogger := logging.NewComponentLogger(logger, "transcribe")
	opts := []transcribe.Option{
		transcribe.WithSideFileDir(cfg.Paths.TranscriptsDir),
		transcribe.WithLogger(engineLogger),
	}

	switch cfg.Whisper.Backend {
	case config.BackendHosted:
		var hint string
		if langs := cfg.Transcripts.Languages; len(langs) > 0 {
			hint = language.ToISO2(langs[0])
		}
		client, err := whisper.New(whisper.Config{
			APIKey:   cfg.Whisper.Hosted.APIKey,
			BaseURL:  cfg.Whisper.Hosted.BaseURL,
			Model:    cfg.Whisper.Hosted.Model,
			Language: hint,
			Timeout:  time.Duration(cfg.Whisper.Hosted.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, transcribe.WithModel(client.Model()))
		return transcribe.NewHosted(client, downloader, scorer, opts...), nil

	case config.BackendRemote:
		client, err := whisperd.New(whisperd.Config{
			URL:     cfg.Whisper.Remote.URL,
			Token:   cfg.Whisper.Remote.Token,
			Timeout: time.Duration(cfg.Whisper.Remote.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			return nil, err
		}
		return transcribe.NewRemote(client, scorer, opts...), nil

	case config.BackendLocal:
		svc := whisperlocal.NewService(whisperlocal.Config{
			Binary: cfg.Whisper.Local.Binary,
			Model:  cfg.Whisper.Local.Model,
		})
		return transcribe.NewLocal(svc, cfg.Paths.TranscriptsDir, downloader, scorer, opts...), nil
	}
	return nil, fmt.Errorf("fetcher: unknown whisper backend %q", cfg.Whisper.Backend)
}
