package subtitles

import "testing"

func TestSelectTrackPrefersManual(t *testing.T) {
	tracks := []Track{
		{Language: "en", Auto: true, URL: "auto"},
		{Language: "en", Auto: false, URL: "manual"},
	}
	track, ok := SelectTrack(tracks, []string{"en"})
	if !ok {
		t.Fatal("expected a track")
	}
	if track.Auto || track.URL != "manual" {
		t.Fatalf("expected manual track, got %+v", track)
	}
}

func TestSelectTrackFallsBackToAuto(t *testing.T) {
	tracks := []Track{
		{Language: "en", Auto: true, URL: "auto"},
	}
	track, ok := SelectTrack(tracks, []string{"en"})
	if !ok {
		t.Fatal("expected a track")
	}
	if !track.Auto {
		t.Fatalf("expected auto track, got %+v", track)
	}
}

func TestSelectTrackLanguageOrder(t *testing.T) {
	tracks := []Track{
		{Language: "de", Auto: false, URL: "german"},
		{Language: "en", Auto: true, URL: "english"},
	}
	// English is first preference, so even an auto English track beats a
	// manual German one.
	track, ok := SelectTrack(tracks, []string{"en", "de"})
	if !ok {
		t.Fatal("expected a track")
	}
	if track.URL != "english" {
		t.Fatalf("expected english track, got %+v", track)
	}
}

func TestSelectTrackMatchesRegionalVariants(t *testing.T) {
	tracks := []Track{
		{Language: "en-US", Auto: false, URL: "us"},
	}
	track, ok := SelectTrack(tracks, []string{"en"})
	if !ok {
		t.Fatal("expected regional variant to match")
	}
	if track.URL != "us" {
		t.Fatalf("got %+v", track)
	}
}

func TestSelectTrackNoMatch(t *testing.T) {
	tracks := []Track{
		{Language: "fr", Auto: false, URL: "french"},
	}
	if _, ok := SelectTrack(tracks, []string{"en", "de"}); ok {
		t.Fatal("expected no track")
	}
}
