package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"ekko/internal/ledger"
	"ekko/internal/logging"
	"ekko/internal/textutil"
)

const (
	defaultConnectTimeout = 30 * time.Second
	copyChunkBytes        = 8 * 1024
	maxFileNameLen        = 120
)

// Downloader streams episode audio to local disk.
type Downloader struct {
	audioDir string
	ledger   *ledger.Ledger
	http     *http.Client
	logger   *slog.Logger
}

// New builds a downloader writing into audioDir. ledger may be nil, which
// disables download dedupe.
func New(audioDir string, connectTimeout time.Duration, ledg *ledger.Ledger, logger *slog.Logger) *Downloader {
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	transport := &http.Transport{
		DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
		Proxy:       http.ProxyFromEnvironment,
	}
	return &Downloader{
		audioDir: audioDir,
		ledger:   ledg,
		// No overall client timeout: large episodes legitimately take a
		// long time, and ctx cancellation still applies.
		http:   &http.Client{Transport: transport},
		logger: logging.NewComponentLogger(logger, "download"),
	}
}

// WithHTTPClient sets a custom HTTP client (for testing).
func (d *Downloader) WithHTTPClient(client *http.Client) {
	d.http = client
}

// Download fetches the audio URL and returns the local file path. An episode
// already recorded in the ledger, or already present at the target path, is
// returned without touching the network.
func (d *Downloader) Download(ctx context.Context, audioURL, podcastName, episodeTitle string) (string, error) {
	if strings.TrimSpace(audioURL) == "" {
		return "", fmt.Errorf("download: audio url is required")
	}

	if d.ledger != nil {
		if existing, ok, err := d.ledger.AudioPath(ctx, audioURL); err != nil {
			d.logger.WarnContext(ctx, "ledger lookup failed", logging.Error(err))
		} else if ok {
			d.logger.DebugContext(ctx, "audio already downloaded",
				logging.String(logging.FieldPath, existing))
			return existing, nil
		}
	}

	dest := d.targetPath(audioURL, podcastName, episodeTitle)
	if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
		d.record(ctx, podcastName, episodeTitle, audioURL, dest)
		return dest, nil
	}

	if err := os.MkdirAll(d.audioDir, 0o755); err != nil {
		return "", fmt.Errorf("download: ensure audio dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return "", fmt.Errorf("download: build request: %w", err)
	}
	resp, err := d.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: fetch %s: %w", audioURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download: fetch %s: status %d", audioURL, resp.StatusCode)
	}

	tmpPath := filepath.Join(d.audioDir, "."+uuid.NewString()+".part")
	if err := d.stream(resp.Body, tmpPath); err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("download: publish audio file: %w", err)
	}

	d.logger.InfoContext(ctx, "audio downloaded",
		logging.String(logging.FieldPodcast, podcastName),
		logging.String(logging.FieldEpisode, episodeTitle),
		logging.String(logging.FieldPath, dest))
	d.record(ctx, podcastName, episodeTitle, audioURL, dest)
	return dest, nil
}

func (d *Downloader) stream(body io.Reader, tmpPath string) error {
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("download: create temp file: %w", err)
	}
	buf := make([]byte, copyChunkBytes)
	if _, err := io.CopyBuffer(file, body, buf); err != nil {
		file.Close()
		return fmt.Errorf("download: stream body: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("download: close temp file: %w", err)
	}
	return nil
}

func (d *Downloader) record(ctx context.Context, podcastName, episodeTitle, audioURL, dest string) {
	if d.ledger == nil {
		return
	}
	if err := d.ledger.MarkDownloaded(ctx, podcastName, episodeTitle, audioURL, dest); err != nil {
		d.logger.WarnContext(ctx, "ledger record failed", logging.Error(err))
	}
}

// targetPath derives the destination file name from podcast and episode
// names plus the URL's extension.
func (d *Downloader) targetPath(audioURL, podcastName, episodeTitle string) string {
	name := textutil.SafeFileName(podcastName+" - "+episodeTitle, maxFileNameLen)
	if name == "" {
		name = textutil.SafeFileName(uuid.NewString(), maxFileNameLen)
	}
	return filepath.Join(d.audioDir, name+audioExtension(audioURL))
}

func audioExtension(audioURL string) string {
	parsed, err := url.Parse(audioURL)
	if err != nil {
		return ".mp3"
	}
	ext := strings.ToLower(path.Ext(parsed.Path))
	switch ext {
	case ".mp3", ".m4a", ".aac", ".ogg", ".opus", ".wav", ".flac":
		return ext
	}
	return ".mp3"
}
