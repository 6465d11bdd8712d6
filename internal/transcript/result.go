package transcript

import "strings"

// Source identifies where a transcript came from.
type Source string

const (
	// SourceYouTubeManual is a human-authored caption track.
	SourceYouTubeManual Source = "youtube_manual"
	// SourceYouTubeAuto is a machine-generated caption track.
	SourceYouTubeAuto Source = "youtube_auto"
	// SourceWhisperHosted is the hosted speech-to-text API backend.
	SourceWhisperHosted Source = "whisper_hosted"
	// SourceWhisperRemote is the self-hosted transcription service backend.
	SourceWhisperRemote Source = "whisper_remote"
	// SourceWhisperLocal is the on-device model backend.
	SourceWhisperLocal Source = "whisper_local"
	// SourceUnavailable means no transcript could be produced.
	SourceUnavailable Source = "not_available"
)

// Valid reports whether s is one of the known source tags.
func (s Source) Valid() bool {
	switch s {
	case SourceYouTubeManual, SourceYouTubeAuto,
		SourceWhisperHosted, SourceWhisperRemote, SourceWhisperLocal,
		SourceUnavailable:
		return true
	}
	return false
}

// Request identifies one transcript fetch. Constructed once per call and
// never mutated.
type Request struct {
	PodcastName  string
	EpisodeTitle string
	AudioURL     string // optional; empty disables the speech fallback
	FeedURL      string // optional; empty disables the video lookup
}

// Result is the central value type of the fetch pipeline.
//
// Invariant: Text == "" exactly when Source == SourceUnavailable and
// QualityScore == 0.
type Result struct {
	Text         string            `json:"text"`
	Source       Source            `json:"source"`
	QualityScore float64           `json:"quality_score"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// HasText reports whether the result carries a usable transcript.
func (r Result) HasText() bool {
	return strings.TrimSpace(r.Text) != ""
}

// WithMeta returns a copy of r with the metadata key set, allocating the
// map if needed.
func (r Result) WithMeta(key, value string) Result {
	meta := make(map[string]string, len(r.Metadata)+1)
	for k, v := range r.Metadata {
		meta[k] = v
	}
	meta[key] = value
	r.Metadata = meta
	return r
}

// Unavailable builds the canonical failure result. The reason lands in
// metadata so callers can surface it without parsing log output.
func Unavailable(reason string) Result {
	result := Result{
		Source:       SourceUnavailable,
		QualityScore: 0,
	}
	if reason != "" {
		result = result.WithMeta("error", reason)
	}
	return result
}

// Metadata keys shared by producers and consumers of results. Advisory
// only; callers must not branch on them.
const (
	MetaError          = "error"
	MetaVideoID        = "video_id"
	MetaLanguage       = "language"
	MetaWordCount      = "word_count"
	MetaAudioFile      = "audio_file"
	MetaTranscriptFile = "transcript_file"
	MetaModel          = "model"
	MetaFetchID        = "fetch_id"
	MetaFileTooLarge   = "file_too_large"
)
