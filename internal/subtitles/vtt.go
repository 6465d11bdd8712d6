package subtitles

import (
	"regexp"
	"strings"

	"ekko/internal/textutil"
)

var (
	cueTagPattern  = regexp.MustCompile(`<[^>]+>`)
	numericPattern = regexp.MustCompile(`^\d+$`)
)

// ParseVTT extracts the spoken text from a WebVTT payload. Header, cue
// numbering, timing, and style lines are dropped; consecutive duplicate
// lines (common in rolling auto captions) collapse to one.
func ParseVTT(raw []byte) string {
	normalized := strings.ReplaceAll(string(raw), "\r\n", "\n")
	var parts []string
	var previous string
	for _, line := range strings.Split(normalized, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "WEBVTT") ||
			strings.HasPrefix(line, "Kind:") ||
			strings.HasPrefix(line, "Language:") ||
			strings.HasPrefix(line, "NOTE") ||
			strings.HasPrefix(line, "STYLE") {
			continue
		}
		if strings.Contains(line, "-->") || numericPattern.MatchString(line) {
			continue
		}
		text := textutil.CollapseWhitespace(cueTagPattern.ReplaceAllString(line, ""))
		if text == "" || text == previous {
			continue
		}
		parts = append(parts, text)
		previous = text
	}
	return strings.Join(parts, " ")
}
