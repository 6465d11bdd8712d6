package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"ekko/internal/cache"
	"ekko/internal/ledger"
	"ekko/internal/logging"
	"ekko/internal/services"
	"ekko/internal/transcript"
	"ekko/internal/youtube"
)

// captionService fetches a transcript from a video's caption tracks.
type captionService interface {
	Fetch(ctx context.Context, videoID string) (transcript.Result, error)
}

// videoLocator finds the video for an episode by search.
type videoLocator interface {
	Locate(ctx context.Context, podcastName, episodeTitle string) (*youtube.Video, bool)
}

// speechEngine produces a transcript from episode audio.
type speechEngine interface {
	Transcribe(ctx context.Context, req transcript.Request) transcript.Result
}

// Fetcher coordinates the acquisition chain for one process.
type Fetcher struct {
	cache         *cache.Store
	locator       videoLocator
	captions      captionService
	engine        speechEngine
	ledger        *ledger.Ledger
	preferYouTube bool
	logger        *slog.Logger
}

// Fetch resolves a transcript for the request. It never returns an error or
// panics: every failure mode collapses into an unavailable result whose
// metadata carries the reason.
func (f *Fetcher) Fetch(ctx context.Context, req transcript.Request) (result transcript.Result) {
	fetchID := uuid.NewString()
	ctx = services.WithFetchID(ctx, fetchID)
	logger := f.logger.With(
		logging.String(logging.FieldFetchID, fetchID),
		logging.String(logging.FieldPodcast, req.PodcastName),
		logging.String(logging.FieldEpisode, req.EpisodeTitle))

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "fetch panicked", logging.Any("panic", r))
			result = transcript.Unavailable(fmt.Sprintf("internal error: %v", r)).
				WithMeta(transcript.MetaFetchID, fetchID)
		}
	}()

	if strings.TrimSpace(req.EpisodeTitle) == "" {
		return transcript.Unavailable("episode title is required").
			WithMeta(transcript.MetaFetchID, fetchID)
	}

	if cached, ok := f.cache.Get(ctx, req.PodcastName, req.EpisodeTitle); ok {
		logger.InfoContext(ctx, "cache hit",
			logging.String(logging.FieldSource, string(cached.Source)))
		return cached
	}

	if f.preferYouTube && videoStageEligible(req) {
		if result, ok := f.fromCaptions(ctx, logger, req); ok {
			return f.finish(ctx, logger, req, result, fetchID)
		}
	}

	if f.engine != nil {
		result := f.engine.Transcribe(ctx, req)
		if result.HasText() {
			return f.finish(ctx, logger, req, result, fetchID)
		}
		logger.InfoContext(ctx, "speech transcription unavailable",
			logging.String(logging.FieldReason, result.Metadata[transcript.MetaError]))
		return f.finish(ctx, logger, req, result, fetchID)
	}

	return f.finish(ctx, logger, req,
		transcript.Unavailable("no transcript source produced text"), fetchID)
}

// videoStageEligible reports whether the caption stage may run at all: the
// request must carry a feed URL, or one of its URLs must embed a video ID
// outright. A bare episode title is not enough to anchor a video search.
func videoStageEligible(req transcript.Request) bool {
	if strings.TrimSpace(req.FeedURL) != "" {
		return true
	}
	return youtube.ExtractVideoID(req.AudioURL) != ""
}

// fromCaptions attempts the video caption stage. Returns false when the
// episode has no locatable video or its captions yield nothing.
func (f *Fetcher) fromCaptions(ctx context.Context, logger *slog.Logger, req transcript.Request) (transcript.Result, bool) {
	if f.captions == nil {
		return transcript.Result{}, false
	}
	videoID := f.findVideoID(ctx, logger, req)
	if videoID == "" {
		logger.DebugContext(ctx, "no video found for episode")
		return transcript.Result{}, false
	}

	result, err := f.captions.Fetch(ctx, videoID)
	if err != nil {
		logger.InfoContext(ctx, "caption fetch failed",
			logging.String(logging.FieldVideoID, videoID),
			logging.Error(err))
		return transcript.Result{}, false
	}
	return result, true
}

// findVideoID first tries to read a video ID straight out of the request
// URLs, then falls back to search.
func (f *Fetcher) findVideoID(ctx context.Context, logger *slog.Logger, req transcript.Request) string {
	for _, raw := range []string{req.AudioURL, req.FeedURL} {
		if id := youtube.ExtractVideoID(raw); id != "" {
			logger.DebugContext(ctx, "video id from request url",
				logging.String(logging.FieldVideoID, id))
			return id
		}
	}
	if f.locator == nil {
		return ""
	}
	video, ok := f.locator.Locate(ctx, req.PodcastName, req.EpisodeTitle)
	if !ok {
		return ""
	}
	return video.ID
}

// finish persists a terminal result and returns it. Cache writes only
// happen for results with text; the ledger records every outcome.
func (f *Fetcher) finish(ctx context.Context, logger *slog.Logger, req transcript.Request, result transcript.Result, fetchID string) transcript.Result {
	if result.Metadata[transcript.MetaFetchID] == "" {
		result = result.WithMeta(transcript.MetaFetchID, fetchID)
	}
	if result.HasText() {
		if err := f.cache.Put(ctx, req.PodcastName, req.EpisodeTitle, result); err != nil {
			logger.WarnContext(ctx, "cache write failed", logging.Error(err))
		}
	}
	if err := f.ledger.RecordResult(ctx, req.PodcastName, req.EpisodeTitle, req.AudioURL, result); err != nil {
		logger.WarnContext(ctx, "ledger write failed", logging.Error(err))
	}
	logger.InfoContext(ctx, "fetch finished",
		logging.String(logging.FieldSource, string(result.Source)),
		logging.Float64("quality", result.QualityScore))
	return result
}

// Close releases the fetcher's persistent resources.
func (f *Fetcher) Close() error {
	return f.ledger.Close()
}
