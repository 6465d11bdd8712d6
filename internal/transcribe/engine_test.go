package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ekko/internal/services/whisper"
	"ekko/internal/transcript"
)

type fakeFileBackend struct {
	text      string
	err       error
	got       string
	gotPrompt string
}

func (f *fakeFileBackend) Transcribe(_ context.Context, audioPath, prompt string) (string, error) {
	f.got = audioPath
	f.gotPrompt = prompt
	return f.text, f.err
}

type fakeRemoteBackend struct {
	text string
	err  error
}

func (f *fakeRemoteBackend) Transcribe(context.Context, string, string, string) (string, error) {
	return f.text, f.err
}

type fakeDownloader struct {
	path string
	err  error
}

func (f *fakeDownloader) Download(context.Context, string, string, string) (string, error) {
	return f.path, f.err
}

func longTranscript() string {
	var b strings.Builder
	for i := 0; i < 120; i++ {
		b.WriteString("this sentence carries exactly ten words to keep scoring calm. ")
	}
	return strings.TrimSpace(b.String())
}

func baseRequest() transcript.Request {
	return transcript.Request{
		PodcastName:  "Acme Cast",
		EpisodeTitle: "Episode 1",
		AudioURL:     "https://cdn.example.com/ep1.mp3",
	}
}

func TestHostedEngineSuccess(t *testing.T) {
	backend := &fakeFileBackend{text: longTranscript()}
	downloader := &fakeDownloader{path: "/audio/Acme Cast - Episode 1.mp3"}
	engine := NewHosted(backend, downloader, transcript.Scorer{}, WithModel("whisper-1"))

	result := engine.Transcribe(context.Background(), baseRequest())
	if result.Source != transcript.SourceWhisperHosted {
		t.Fatalf("source = %s", result.Source)
	}
	if result.QualityScore != 1.0 {
		t.Fatalf("quality = %v, want 1.0", result.QualityScore)
	}
	if backend.got != downloader.path {
		t.Fatalf("backend received %q, want %q", backend.got, downloader.path)
	}
	if result.Metadata[transcript.MetaModel] != "whisper-1" {
		t.Fatalf("metadata = %v", result.Metadata)
	}
	if result.Metadata[transcript.MetaAudioFile] != downloader.path {
		t.Fatalf("metadata = %v", result.Metadata)
	}
	if result.Metadata[transcript.MetaWordCount] != "1200" {
		t.Fatalf("word_count = %q", result.Metadata[transcript.MetaWordCount])
	}
}

func TestHostedEngineSendsEpisodePrompt(t *testing.T) {
	backend := &fakeFileBackend{text: longTranscript()}
	engine := NewHosted(backend, &fakeDownloader{path: "/audio/ep1.mp3"}, transcript.Scorer{})

	engine.Transcribe(context.Background(), baseRequest())
	want := "This is a podcast episode titled 'Episode 1' from Acme Cast"
	if backend.gotPrompt != want {
		t.Fatalf("prompt = %q, want %q", backend.gotPrompt, want)
	}
}

func TestContextPromptOmitsEmptyPodcast(t *testing.T) {
	prompt := contextPrompt(transcript.Request{EpisodeTitle: "Episode 1"})
	if prompt != "This is a podcast episode titled 'Episode 1'" {
		t.Fatalf("prompt = %q", prompt)
	}
}

func TestEngineNoAudioURL(t *testing.T) {
	engine := NewHosted(&fakeFileBackend{}, &fakeDownloader{}, transcript.Scorer{})
	result := engine.Transcribe(context.Background(), transcript.Request{PodcastName: "Acme Cast"})
	if result.Source != transcript.SourceUnavailable {
		t.Fatalf("source = %s", result.Source)
	}
	if result.HasText() {
		t.Fatal("unavailable result must carry no text")
	}
}

func TestEngineDownloadFailure(t *testing.T) {
	engine := NewHosted(&fakeFileBackend{}, &fakeDownloader{err: errors.New("connect timeout")}, transcript.Scorer{})
	result := engine.Transcribe(context.Background(), baseRequest())
	if result.Source != transcript.SourceUnavailable {
		t.Fatalf("source = %s", result.Source)
	}
	if !strings.Contains(result.Metadata[transcript.MetaError], "download failed") {
		t.Fatalf("metadata = %v", result.Metadata)
	}
}

func TestEngineFileTooLargeIsTagged(t *testing.T) {
	backend := &fakeFileBackend{err: fmt.Errorf("upload: %w", whisper.ErrFileTooLarge)}
	engine := NewHosted(backend, &fakeDownloader{path: "/audio/big.mp3"}, transcript.Scorer{})

	result := engine.Transcribe(context.Background(), baseRequest())
	if result.Source != transcript.SourceUnavailable {
		t.Fatalf("source = %s", result.Source)
	}
	if result.Metadata[transcript.MetaFileTooLarge] != "true" {
		t.Fatalf("metadata = %v", result.Metadata)
	}
}

func TestEngineEmptyTextIsUnavailable(t *testing.T) {
	engine := NewHosted(&fakeFileBackend{text: "   "}, &fakeDownloader{path: "/audio/a.mp3"}, transcript.Scorer{})
	result := engine.Transcribe(context.Background(), baseRequest())
	if result.Source != transcript.SourceUnavailable {
		t.Fatalf("source = %s", result.Source)
	}
}

func TestRemoteEngineSkipsDownload(t *testing.T) {
	engine := NewRemote(&fakeRemoteBackend{text: longTranscript()}, transcript.Scorer{})
	result := engine.Transcribe(context.Background(), baseRequest())
	if result.Source != transcript.SourceWhisperRemote {
		t.Fatalf("source = %s", result.Source)
	}
	if _, ok := result.Metadata[transcript.MetaAudioFile]; ok {
		t.Fatal("remote backend must not record a local audio file")
	}
}

func TestEngineWritesSideFile(t *testing.T) {
	dir := t.TempDir()
	backend := &fakeFileBackend{text: longTranscript()}
	downloader := &fakeDownloader{path: "/audio/Acme Cast - Episode 1.mp3"}
	engine := NewHosted(backend, downloader, transcript.Scorer{}, WithSideFileDir(dir))

	result := engine.Transcribe(context.Background(), baseRequest())
	sidePath := result.Metadata[transcript.MetaTranscriptFile]
	if sidePath == "" {
		t.Fatal("expected transcript side file")
	}
	if filepath.Base(sidePath) != "Acme Cast - Episode 1.txt" {
		t.Fatalf("side file name = %q", filepath.Base(sidePath))
	}
	content, err := os.ReadFile(sidePath)
	if err != nil {
		t.Fatalf("read side file: %v", err)
	}
	if string(content) != backend.text {
		t.Fatal("side file content mismatch")
	}
}

func TestRemoteEngineSideFileUsesEpisodeName(t *testing.T) {
	dir := t.TempDir()
	engine := NewRemote(&fakeRemoteBackend{text: longTranscript()}, transcript.Scorer{}, WithSideFileDir(dir))

	result := engine.Transcribe(context.Background(), baseRequest())
	sidePath := result.Metadata[transcript.MetaTranscriptFile]
	if filepath.Base(sidePath) != "Acme Cast - Episode 1.txt" {
		t.Fatalf("side file name = %q", filepath.Base(sidePath))
	}
}
