package whisperd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"ekko/internal/services"
)

const defaultHTTPTimeout = 10 * time.Minute

// Config describes the transcription daemon client configuration.
type Config struct {
	URL        string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client wraps the transcription daemon's HTTP API.
type Client struct {
	endpoint *url.URL
	token    string
	http     *http.Client
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.URL)
	if raw == "" {
		return nil, services.Wrap(services.ErrConfiguration, "remote", "new", "daemon url is required", nil)
	}
	endpoint, err := url.Parse(raw)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "remote", "new", "parse daemon url", err)
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		endpoint: endpoint,
		token:    strings.TrimSpace(cfg.Token),
		http:     client,
	}, nil
}

type transcribeRequest struct {
	EpisodeURL   string `json:"episode_url"`
	EpisodeTitle string `json:"episode_title"`
	PodcastTitle string `json:"podcast_title"`
}

type transcribeResponse struct {
	TranscriptionFilePath string `json:"transcription_file_path"`
	Error                 string `json:"error,omitempty"`
}

// Transcribe asks the daemon to fetch and transcribe the episode, then reads
// back the transcript file the daemon reports. The daemon and this process
// must share the filesystem the path refers to.
func (c *Client) Transcribe(ctx context.Context, episodeURL, episodeTitle, podcastTitle string) (string, error) {
	if strings.TrimSpace(episodeURL) == "" {
		return "", services.Wrap(services.ErrValidation, "remote", "transcribe", "episode url is required", nil)
	}

	payload, err := json.Marshal(transcribeRequest{
		EpisodeURL:   episodeURL,
		EpisodeTitle: episodeTitle,
		PodcastTitle: podcastTitle,
	})
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "remote", "transcribe", "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "remote", "transcribe", "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "remote", "transcribe", "post request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "remote", "transcribe", "read response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrExternalTool, "remote", "transcribe",
			fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	var decoded transcribeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "remote", "transcribe", "decode response", err)
	}
	if decoded.Error != "" {
		return "", services.Wrap(services.ErrExternalTool, "remote", "transcribe", decoded.Error, nil)
	}
	if strings.TrimSpace(decoded.TranscriptionFilePath) == "" {
		return "", services.Wrap(services.ErrExternalTool, "remote", "transcribe", "daemon returned no transcript path", nil)
	}

	text, err := os.ReadFile(decoded.TranscriptionFilePath)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "remote", "transcribe", "read transcript file", err)
	}
	return string(text), nil
}
