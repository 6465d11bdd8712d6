package youtube

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// SearchResult is one candidate video returned by a search.
type SearchResult struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Searcher runs a video search and returns up to maxResults candidates.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}

// YTDLPSearcher searches YouTube through the yt-dlp binary in flat-playlist
// mode, which lists metadata without downloading anything.
type YTDLPSearcher struct {
	binary string
	runner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewYTDLPSearcher creates a searcher using the given yt-dlp binary.
func NewYTDLPSearcher(binary string) *YTDLPSearcher {
	if strings.TrimSpace(binary) == "" {
		binary = "yt-dlp"
	}
	return &YTDLPSearcher{binary: binary}
}

// WithRunner sets a custom command runner (for testing).
func (s *YTDLPSearcher) WithRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	s.runner = runner
}

// Search runs a ytsearchN query and decodes the line-delimited JSON output.
func (s *YTDLPSearcher) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	if maxResults <= 0 {
		maxResults = 5
	}
	target := fmt.Sprintf("ytsearch%d:%s", maxResults, query)
	args := []string{
		target,
		"--dump-json",
		"--flat-playlist",
		"--no-warnings",
		"--quiet",
	}

	output, err := s.run(ctx, s.binary, args...)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp search: %w", err)
	}

	var results []SearchResult
	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry SearchResult
		if err := json.Unmarshal(line, &entry); err != nil {
			continue // tolerate the occasional non-JSON diagnostic line
		}
		if entry.ID == "" {
			continue
		}
		results = append(results, entry)
		if len(results) >= maxResults {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("yt-dlp search: read output: %w", err)
	}
	return results, nil
}

func (s *YTDLPSearcher) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if s.runner != nil {
		return s.runner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return output, nil
}
