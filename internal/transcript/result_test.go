package transcript

import "testing"

func TestUnavailableInvariant(t *testing.T) {
	result := Unavailable("no audio URL provided")
	if result.HasText() {
		t.Error("unavailable result must not carry text")
	}
	if result.Source != SourceUnavailable {
		t.Errorf("Source = %q", result.Source)
	}
	if result.QualityScore != 0 {
		t.Errorf("QualityScore = %v", result.QualityScore)
	}
	if result.Metadata[MetaError] != "no audio URL provided" {
		t.Errorf("metadata error = %q", result.Metadata[MetaError])
	}
}

func TestWithMetaDoesNotMutateOriginal(t *testing.T) {
	original := Result{Source: SourceYouTubeManual, Text: "hello", QualityScore: 1}
	annotated := original.WithMeta(MetaVideoID, "dQw4w9WgXcQ")

	if len(original.Metadata) != 0 {
		t.Error("original metadata mutated")
	}
	if annotated.Metadata[MetaVideoID] != "dQw4w9WgXcQ" {
		t.Errorf("annotated metadata = %v", annotated.Metadata)
	}
}

func TestSourceValid(t *testing.T) {
	for _, s := range []Source{
		SourceYouTubeManual, SourceYouTubeAuto,
		SourceWhisperHosted, SourceWhisperRemote, SourceWhisperLocal,
		SourceUnavailable,
	} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if Source("mystery").Valid() {
		t.Error("unknown tag should be invalid")
	}
}
