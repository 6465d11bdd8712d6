package subtitles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ekko/internal/logging"
	"ekko/internal/transcript"
)

// ErrNoTracks reports that the video carries no caption track in any
// preferred language.
var ErrNoTracks = errors.New("no caption tracks in preferred languages")

// Service turns a video's caption tracks into a transcript result.
type Service struct {
	client    TrackClient
	languages []string
	logger    *slog.Logger
}

// NewService builds a caption service. languages is the preference order;
// when empty it defaults to English.
func NewService(client TrackClient, languages []string, logger *slog.Logger) *Service {
	if len(languages) == 0 {
		languages = []string{"en"}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{client: client, languages: languages, logger: logger}
}

// Fetch downloads the best caption track for the video and returns it as a
// transcript. Manually uploaded captions score 1.0 and auto-generated ones
// 0.8; the caller decides whether a missing track means falling through to
// speech transcription.
func (s *Service) Fetch(ctx context.Context, videoID string) (transcript.Result, error) {
	tracks, err := s.client.ListTracks(ctx, videoID)
	if err != nil {
		return transcript.Result{}, fmt.Errorf("captions for %s: %w", videoID, err)
	}
	track, ok := SelectTrack(tracks, s.languages)
	if !ok {
		return transcript.Result{}, fmt.Errorf("captions for %s: %w", videoID, ErrNoTracks)
	}

	payload, err := s.client.DownloadTrack(ctx, track)
	if err != nil {
		return transcript.Result{}, fmt.Errorf("captions for %s: %w", videoID, err)
	}
	text := ParseVTT(payload)
	if strings.TrimSpace(text) == "" {
		return transcript.Result{}, fmt.Errorf("captions for %s: track %s parsed to empty text", videoID, track.Language)
	}

	source := transcript.SourceYouTubeManual
	score := 1.0
	if track.Auto {
		source = transcript.SourceYouTubeAuto
		score = 0.8
	}
	s.logger.Info("caption track selected",
		logging.String(logging.FieldVideoID, videoID),
		logging.String(logging.FieldLanguage, track.Language),
		logging.Bool("auto", track.Auto))

	result := transcript.Result{
		Text:         text,
		Source:       source,
		QualityScore: score,
	}
	return result.
		WithMeta(transcript.MetaVideoID, videoID).
		WithMeta(transcript.MetaLanguage, track.Language), nil
}
