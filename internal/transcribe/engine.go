package transcribe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"ekko/internal/logging"
	"ekko/internal/services"
	"ekko/internal/services/whisper"
	"ekko/internal/services/whisperlocal"
	"ekko/internal/textutil"
	"ekko/internal/transcript"
)

// Downloader fetches episode audio to local disk and returns the file path.
type Downloader interface {
	Download(ctx context.Context, audioURL, podcastName, episodeTitle string) (string, error)
}

// FileBackend transcribes a local audio file. prompt is optional episode
// context; backends without a prompt surface ignore it.
type FileBackend interface {
	Transcribe(ctx context.Context, audioPath, prompt string) (string, error)
}

// RemoteBackend transcribes an episode the backend downloads itself.
type RemoteBackend interface {
	Transcribe(ctx context.Context, episodeURL, episodeTitle, podcastTitle string) (string, error)
}

// Engine runs one configured speech backend and packages its output as a
// scored transcript result. Transcribe never returns an error: every failure
// becomes an unavailable result with the reason in metadata.
type Engine struct {
	source     transcript.Source
	fileBack   FileBackend
	remoteBack RemoteBackend
	downloader Downloader
	scorer     transcript.Scorer
	sideDir    string
	model      string
	logger     *slog.Logger
}

// Option adjusts engine construction.
type Option func(*Engine)

// WithModel records the backend model name in result metadata.
func WithModel(model string) Option {
	return func(e *Engine) { e.model = model }
}

// WithSideFileDir enables writing each transcript to a text file under dir.
func WithSideFileDir(dir string) Option {
	return func(e *Engine) { e.sideDir = dir }
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewHosted builds an engine around the hosted transcription API. Audio is
// downloaded locally first because the API takes file uploads.
func NewHosted(client FileBackend, downloader Downloader, scorer transcript.Scorer, opts ...Option) *Engine {
	e := &Engine{
		source:     transcript.SourceWhisperHosted,
		fileBack:   client,
		downloader: downloader,
		scorer:     scorer,
	}
	return e.apply(opts)
}

// NewRemote builds an engine around the transcription daemon, which fetches
// the episode itself from the audio URL.
func NewRemote(client RemoteBackend, scorer transcript.Scorer, opts ...Option) *Engine {
	e := &Engine{
		source:     transcript.SourceWhisperRemote,
		remoteBack: client,
		scorer:     scorer,
	}
	return e.apply(opts)
}

// NewLocal builds an engine around a local whisper binary.
func NewLocal(svc *whisperlocal.Service, outputDir string, downloader Downloader, scorer transcript.Scorer, opts ...Option) *Engine {
	e := &Engine{
		source:     transcript.SourceWhisperLocal,
		fileBack:   localAdapter{svc: svc, outputDir: outputDir},
		downloader: downloader,
		scorer:     scorer,
		model:      svc.Model(),
	}
	return e.apply(opts)
}

func (e *Engine) apply(opts []Option) *Engine {
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	return e
}

// localAdapter pins the whisper binary's output directory so the local
// service fits the FileBackend shape.
type localAdapter struct {
	svc       *whisperlocal.Service
	outputDir string
}

func (a localAdapter) Transcribe(ctx context.Context, audioPath, _ string) (string, error) {
	return a.svc.Transcribe(ctx, audioPath, a.outputDir)
}

// Source returns the source tag this engine stamps on its results.
func (e *Engine) Source() transcript.Source {
	return e.source
}

// Transcribe produces a transcript for the request's audio URL. A request
// without an audio URL, a failed download, or a backend failure all yield an
// unavailable result.
func (e *Engine) Transcribe(ctx context.Context, req transcript.Request) transcript.Result {
	if strings.TrimSpace(req.AudioURL) == "" {
		return transcript.Unavailable("no audio url for speech transcription")
	}
	logger := e.logger
	if fetchID, ok := services.FetchIDFromContext(ctx); ok {
		logger = logger.With(logging.String(logging.FieldFetchID, fetchID))
	}

	var (
		text      string
		audioPath string
		err       error
	)
	if e.remoteBack != nil {
		text, err = e.remoteBack.Transcribe(ctx, req.AudioURL, req.EpisodeTitle, req.PodcastName)
	} else {
		audioPath, err = e.downloader.Download(ctx, req.AudioURL, req.PodcastName, req.EpisodeTitle)
		if err != nil {
			logger.Warn("audio download failed",
				logging.String(logging.FieldPodcast, req.PodcastName),
				logging.Error(err))
			return transcript.Unavailable(fmt.Sprintf("audio download failed: %v", err))
		}
		text, err = e.fileBack.Transcribe(ctx, audioPath, contextPrompt(req))
	}
	if err != nil {
		logger.Warn("speech transcription failed",
			logging.String(logging.FieldSource, string(e.source)),
			logging.Error(err))
		result := transcript.Unavailable(fmt.Sprintf("speech transcription failed: %v", err))
		if errors.Is(err, whisper.ErrFileTooLarge) {
			result = result.WithMeta(transcript.MetaFileTooLarge, "true")
		}
		return result
	}
	if strings.TrimSpace(text) == "" {
		return transcript.Unavailable("speech transcription produced empty text")
	}

	result := transcript.Result{
		Text:         text,
		Source:       e.source,
		QualityScore: e.scorer.Score(text),
	}
	result = result.WithMeta(transcript.MetaWordCount, strconv.Itoa(len(strings.Fields(text))))
	if e.model != "" {
		result = result.WithMeta(transcript.MetaModel, e.model)
	}
	if audioPath != "" {
		result = result.WithMeta(transcript.MetaAudioFile, audioPath)
	}
	if sidePath := e.writeSideFile(req, audioPath, text); sidePath != "" {
		result = result.WithMeta(transcript.MetaTranscriptFile, sidePath)
	}
	return result
}

// contextPrompt describes the episode to the transcription model so it picks
// up names and vocabulary from the show.
func contextPrompt(req transcript.Request) string {
	title := strings.TrimSpace(req.EpisodeTitle)
	podcast := strings.TrimSpace(req.PodcastName)
	switch {
	case title == "":
		return ""
	case podcast == "":
		return fmt.Sprintf("This is a podcast episode titled '%s'", title)
	default:
		return fmt.Sprintf("This is a podcast episode titled '%s' from %s", title, podcast)
	}
}

// writeSideFile stores the transcript text next to the audio library so it
// survives cache eviction. Failures are logged and otherwise ignored.
func (e *Engine) writeSideFile(req transcript.Request, audioPath, text string) string {
	if e.sideDir == "" {
		return ""
	}
	var base string
	if audioPath != "" {
		base = strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	} else {
		base = textutil.SafeFileName(req.PodcastName+" - "+req.EpisodeTitle, 120)
	}
	if base == "" {
		base = "transcript"
	}
	if err := os.MkdirAll(e.sideDir, 0o755); err != nil {
		e.logger.Warn("transcript dir create failed", logging.Error(err))
		return ""
	}
	path := filepath.Join(e.sideDir, base+".txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		e.logger.Warn("transcript side file write failed",
			logging.String(logging.FieldPath, path),
			logging.Error(err))
		return ""
	}
	return path
}
