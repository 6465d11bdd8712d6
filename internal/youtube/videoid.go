package youtube

import (
	"regexp"
	"strings"
)

// recognized video host domains; anything else never yields an ID.
var videoDomains = []string{"youtube.com", "youtu.be", "youtube-nocookie.com"}

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`watch\?v=([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`embed/([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`youtu\.be/([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`[?&]v=([0-9A-Za-z_-]{11})`),
	// bare path segment of exactly 11 ID characters, e.g. /v/<id>
	regexp.MustCompile(`/([0-9A-Za-z_-]{11})(?:[?&#/]|$)`),
}

// ExtractVideoID pulls the canonical 11-character video identifier out of a
// YouTube URL. Returns the empty string when the URL does not belong to a
// recognized video host or carries no identifier.
func ExtractVideoID(rawURL string) string {
	lower := strings.ToLower(rawURL)
	hosted := false
	for _, domain := range videoDomains {
		if strings.Contains(lower, domain) {
			hosted = true
			break
		}
	}
	if !hosted {
		return ""
	}
	for _, pattern := range videoIDPatterns {
		if match := pattern.FindStringSubmatch(rawURL); len(match) == 2 {
			return match[1]
		}
	}
	return ""
}

// WatchURL builds the canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
