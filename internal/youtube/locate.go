package youtube

import (
	"context"
	"log/slog"
	"strings"

	"ekko/internal/logging"
)

// Video is a located episode video.
type Video struct {
	ID    string
	Title string
}

// Locator finds the YouTube video for a podcast episode by search. A lookup
// never returns an error: any failure is reported as not found.
type Locator struct {
	searcher   Searcher
	aliases    map[string]string
	maxResults int
	logger     *slog.Logger
}

// NewLocator builds a locator. aliases maps lowercase podcast names to the
// channel name used in search queries; podcasts with an alias also accept the
// first search result when no candidate matches the episode title.
func NewLocator(searcher Searcher, aliases map[string]string, maxResults int, logger *slog.Logger) *Locator {
	if maxResults <= 0 {
		maxResults = 5
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	normalized := make(map[string]string, len(aliases))
	for name, channel := range aliases {
		normalized[strings.ToLower(strings.TrimSpace(name))] = channel
	}
	return &Locator{
		searcher:   searcher,
		aliases:    normalized,
		maxResults: maxResults,
		logger:     logger,
	}
}

// Locate searches for the episode and returns the best matching video. The
// second return value is false when no suitable video could be found.
func (l *Locator) Locate(ctx context.Context, podcastName, episodeTitle string) (*Video, bool) {
	channel, aliased := l.aliases[strings.ToLower(strings.TrimSpace(podcastName))]
	queryName := podcastName
	if aliased {
		queryName = channel
	}
	query := buildQuery(queryName, episodeTitle)

	results, err := l.searcher.Search(ctx, query, l.maxResults)
	if err != nil {
		l.logger.Debug("video search failed",
			logging.String(logging.FieldPodcast, podcastName),
			logging.Error(err))
		return nil, false
	}
	if len(results) == 0 {
		return nil, false
	}

	for _, candidate := range results {
		if titleMatches(episodeTitle, candidate.Title) {
			return &Video{ID: candidate.ID, Title: candidate.Title}, true
		}
	}

	// Aliased channels reliably surface the right video first even when the
	// uploaded title diverges from the feed title.
	if aliased {
		first := results[0]
		l.logger.Debug("accepting first result for aliased channel",
			logging.String(logging.FieldPodcast, podcastName),
			logging.String(logging.FieldVideoID, first.ID))
		return &Video{ID: first.ID, Title: first.Title}, true
	}
	return nil, false
}

func buildQuery(podcastName, episodeTitle string) string {
	words := strings.Fields(episodeTitle)
	if len(words) > 5 {
		words = words[:5]
	}
	return strings.TrimSpace(podcastName + " " + strings.Join(words, " "))
}

// titleMatches reports whether a search result plausibly is the episode:
// either at least two significant words from the title's first five appear in
// the candidate, or the opening of the episode title appears verbatim. Only
// the opening words count, mirroring the query truncation in buildQuery.
func titleMatches(episodeTitle, candidateTitle string) bool {
	episode := strings.ToLower(episodeTitle)
	candidate := strings.ToLower(candidateTitle)

	tokens := strings.Fields(episode)
	if len(tokens) > 5 {
		tokens = tokens[:5]
	}
	matched := 0
	for _, token := range tokens {
		if len(token) <= 3 {
			continue
		}
		if strings.Contains(candidate, token) {
			matched++
			if matched >= 2 {
				return true
			}
		}
	}

	prefix := episode
	if len(prefix) > 30 {
		prefix = prefix[:30]
	}
	return prefix != "" && strings.Contains(candidate, prefix)
}
