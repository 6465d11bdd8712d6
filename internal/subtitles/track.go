package subtitles

import (
	"context"

	"ekko/internal/language"
)

// Track describes one caption track available for a video.
type Track struct {
	Language string
	Auto     bool
	URL      string
}

// TrackClient lists and fetches caption tracks for a video. Implementations
// return the raw WebVTT payload from DownloadTrack.
type TrackClient interface {
	ListTracks(ctx context.Context, videoID string) ([]Track, error)
	DownloadTrack(ctx context.Context, track Track) ([]byte, error)
}

// SelectTrack picks the best caption track: for each preferred language in
// order, a manual track wins, then an auto-generated one. Returns false when
// no track matches any preferred language.
func SelectTrack(tracks []Track, languages []string) (Track, bool) {
	for _, want := range languages {
		var autoMatch *Track
		for i := range tracks {
			track := tracks[i]
			if !language.Matches(track.Language, want) {
				continue
			}
			if !track.Auto {
				return track, true
			}
			if autoMatch == nil {
				autoMatch = &tracks[i]
			}
		}
		if autoMatch != nil {
			return *autoMatch, true
		}
	}
	return Track{}, false
}
