package subtitles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"ekko/internal/youtube"
)

const defaultDownloadTimeout = 45 * time.Second

// YTDLPClient discovers caption tracks through yt-dlp metadata dumps and
// downloads the track payloads over plain HTTP.
type YTDLPClient struct {
	binary string
	http   *http.Client
	runner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewYTDLPClient creates a track client backed by the given yt-dlp binary.
func NewYTDLPClient(binary string) *YTDLPClient {
	if strings.TrimSpace(binary) == "" {
		binary = "yt-dlp"
	}
	return &YTDLPClient{
		binary: binary,
		http:   &http.Client{Timeout: defaultDownloadTimeout},
	}
}

// WithRunner sets a custom command runner (for testing).
func (c *YTDLPClient) WithRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	c.runner = runner
}

// WithHTTPClient sets a custom HTTP client (for testing).
func (c *YTDLPClient) WithHTTPClient(client *http.Client) {
	c.http = client
}

type trackFormat struct {
	URL string `json:"url"`
	Ext string `json:"ext"`
}

type videoMetadata struct {
	Subtitles         map[string][]trackFormat `json:"subtitles"`
	AutomaticCaptions map[string][]trackFormat `json:"automatic_captions"`
}

// ListTracks dumps video metadata and returns every caption track that has a
// WebVTT rendition.
func (c *YTDLPClient) ListTracks(ctx context.Context, videoID string) ([]Track, error) {
	args := []string{
		youtube.WatchURL(videoID),
		"--dump-json",
		"--skip-download",
		"--no-warnings",
		"--quiet",
	}
	output, err := c.run(ctx, c.binary, args...)
	if err != nil {
		return nil, fmt.Errorf("list caption tracks: %w", err)
	}

	var meta videoMetadata
	if err := json.Unmarshal(output, &meta); err != nil {
		return nil, fmt.Errorf("list caption tracks: decode metadata: %w", err)
	}

	var tracks []Track
	tracks = appendVTTTracks(tracks, meta.Subtitles, false)
	tracks = appendVTTTracks(tracks, meta.AutomaticCaptions, true)
	return tracks, nil
}

func appendVTTTracks(tracks []Track, formats map[string][]trackFormat, auto bool) []Track {
	for lang, renditions := range formats {
		for _, rendition := range renditions {
			if rendition.Ext != "vtt" || rendition.URL == "" {
				continue
			}
			tracks = append(tracks, Track{Language: lang, Auto: auto, URL: rendition.URL})
			break
		}
	}
	return tracks
}

// DownloadTrack fetches the raw WebVTT payload for a track.
func (c *YTDLPClient) DownloadTrack(ctx context.Context, track Track) ([]byte, error) {
	if track.URL == "" {
		return nil, errors.New("download caption track: empty url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, track.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("download caption track: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download caption track: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download caption track: status %d", resp.StatusCode)
	}
	payload, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("download caption track: read body: %w", err)
	}
	return payload, nil
}

func (c *YTDLPClient) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if c.runner != nil {
		return c.runner(ctx, name, args...)
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
