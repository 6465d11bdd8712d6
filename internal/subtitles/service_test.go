package subtitles

import (
	"context"
	"errors"
	"testing"

	"ekko/internal/transcript"
)

type fakeTrackClient struct {
	tracks   []Track
	listErr  error
	payloads map[string][]byte
	dlErr    error
}

func (f *fakeTrackClient) ListTracks(context.Context, string) ([]Track, error) {
	return f.tracks, f.listErr
}

func (f *fakeTrackClient) DownloadTrack(_ context.Context, track Track) ([]byte, error) {
	if f.dlErr != nil {
		return nil, f.dlErr
	}
	return f.payloads[track.URL], nil
}

const sampleVTT = "WEBVTT\n\n1\n00:00:00.000 --> 00:00:02.000\nHello world\n"

func TestServiceFetchManualTrack(t *testing.T) {
	client := &fakeTrackClient{
		tracks:   []Track{{Language: "en", Auto: false, URL: "manual"}},
		payloads: map[string][]byte{"manual": []byte(sampleVTT)},
	}
	svc := NewService(client, []string{"en"}, nil)

	result, err := svc.Fetch(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.Source != transcript.SourceYouTubeManual {
		t.Fatalf("source = %s", result.Source)
	}
	if result.QualityScore != 1.0 {
		t.Fatalf("quality = %v, want 1.0", result.QualityScore)
	}
	if result.Text != "Hello world" {
		t.Fatalf("text = %q", result.Text)
	}
	if result.Metadata[transcript.MetaVideoID] != "dQw4w9WgXcQ" {
		t.Fatalf("metadata = %v", result.Metadata)
	}
	if result.Metadata[transcript.MetaLanguage] != "en" {
		t.Fatalf("metadata = %v", result.Metadata)
	}
}

func TestServiceFetchAutoTrackScoresLower(t *testing.T) {
	client := &fakeTrackClient{
		tracks:   []Track{{Language: "en", Auto: true, URL: "auto"}},
		payloads: map[string][]byte{"auto": []byte(sampleVTT)},
	}
	svc := NewService(client, []string{"en"}, nil)

	result, err := svc.Fetch(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.Source != transcript.SourceYouTubeAuto {
		t.Fatalf("source = %s", result.Source)
	}
	if result.QualityScore != 0.8 {
		t.Fatalf("quality = %v, want 0.8", result.QualityScore)
	}
}

func TestServiceFetchNoMatchingTracks(t *testing.T) {
	client := &fakeTrackClient{
		tracks: []Track{{Language: "fr", Auto: false, URL: "french"}},
	}
	svc := NewService(client, []string{"en"}, nil)

	if _, err := svc.Fetch(context.Background(), "dQw4w9WgXcQ"); !errors.Is(err, ErrNoTracks) {
		t.Fatalf("err = %v, want ErrNoTracks", err)
	}
}

func TestServiceFetchListError(t *testing.T) {
	client := &fakeTrackClient{listErr: errors.New("metadata dump failed")}
	svc := NewService(client, []string{"en"}, nil)

	if _, err := svc.Fetch(context.Background(), "dQw4w9WgXcQ"); err == nil {
		t.Fatal("expected error")
	}
}

func TestServiceFetchEmptyPayload(t *testing.T) {
	client := &fakeTrackClient{
		tracks:   []Track{{Language: "en", Auto: false, URL: "manual"}},
		payloads: map[string][]byte{"manual": []byte("WEBVTT\n")},
	}
	svc := NewService(client, []string{"en"}, nil)

	if _, err := svc.Fetch(context.Background(), "dQw4w9WgXcQ"); err == nil {
		t.Fatal("empty caption text must be an error")
	}
}
