package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ekko/internal/config"
	"ekko/internal/transcript"
)

// buildTestConfig wires every path into a temp dir and the hosted backend
// into the given base URL.
func buildTestConfig(t *testing.T, hostedBaseURL string) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths = config.Paths{
		CacheDir:       filepath.Join(root, "cache"),
		AudioDir:       filepath.Join(root, "audio"),
		TranscriptsDir: filepath.Join(root, "transcripts"),
		LogDir:         filepath.Join(root, "logs"),
		LedgerPath:     filepath.Join(root, "ledger.db"),
	}
	cfg.Transcripts.PreferYouTube = false
	cfg.Whisper.Backend = config.BackendHosted
	cfg.Whisper.Hosted.APIKey = "sk-test"
	cfg.Whisper.Hosted.BaseURL = hostedBaseURL
	return &cfg
}

func TestFetchEndToEndHostedBackend(t *testing.T) {
	// Plenty of well-formed sentences so no score penalty applies.
	var sb strings.Builder
	for i := 0; i < 120; i++ {
		sb.WriteString("this sentence carries exactly ten words to keep scoring calm. ")
	}
	apiText := strings.TrimSpace(sb.String())

	mux := http.NewServeMux()
	mux.HandleFunc("/audio/ep1.mp3", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("fake audio bytes"))
	})
	mux.HandleFunc("/v1/audio/transcriptions", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"text":%q}`, apiText)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := buildTestConfig(t, server.URL+"/v1")
	f, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer f.Close()

	req := transcript.Request{
		PodcastName:  "Acme Cast",
		EpisodeTitle: "Episode 1",
		AudioURL:     server.URL + "/audio/ep1.mp3",
	}
	result := f.Fetch(context.Background(), req)

	if result.Source != transcript.SourceWhisperHosted {
		t.Fatalf("source = %s", result.Source)
	}
	if result.QualityScore != 1.0 {
		t.Fatalf("quality = %v, want 1.0", result.QualityScore)
	}
	if result.Text != apiText {
		t.Fatal("text does not match api response")
	}

	// Cache entry lands at the sanitized key.
	entry := filepath.Join(cfg.Paths.CacheDir, "Acme_Cast", "Episode_1.json")
	if _, err := os.Stat(entry); err != nil {
		t.Fatalf("cache entry missing: %v", err)
	}

	// Second fetch is served from cache: kill the server first.
	server.Close()
	again := f.Fetch(context.Background(), req)
	if again.Text != apiText || again.Source != transcript.SourceWhisperHosted {
		t.Fatalf("cache replay mismatch: %+v", again.Source)
	}

	// Audio landed in the library and the transcript side file exists.
	if _, err := os.Stat(filepath.Join(cfg.Paths.AudioDir, "Acme Cast - Episode 1.mp3")); err != nil {
		t.Fatalf("audio file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.TranscriptsDir, "Acme Cast - Episode 1.txt")); err != nil {
		t.Fatalf("transcript side file missing: %v", err)
	}
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	cfg := buildTestConfig(t, "http://localhost:1")
	cfg.Whisper.Backend = "cloudy"
	if _, err := New(cfg, nil); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
