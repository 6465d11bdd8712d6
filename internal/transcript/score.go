package transcript

import "strings"

// DefaultEllipsisThreshold is the number of "..." occurrences tolerated
// before the run-on penalty applies.
const DefaultEllipsisThreshold = 10

// Scorer estimates transcript usability from text structure alone. The
// estimate is deterministic and does no I/O, so a stored score can always
// be recomputed from the transcript text.
//
// Caption provenance scores (manual/auto tracks) are fixed by the subtitle
// retriever and do not go through the Scorer; it is used for speech
// transcription output, where no provenance signal exists.
type Scorer struct {
	// EllipsisThreshold overrides DefaultEllipsisThreshold when positive.
	EllipsisThreshold int
}

// DefaultScorer is the scorer used when no threshold override is configured.
var DefaultScorer = Scorer{}

// Score maps text to a quality estimate in [0, 1]. Empty input scores 0.
func (s Scorer) Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	score := 1.0
	lower := strings.ToLower(text)

	wordCount := len(strings.Fields(text))
	switch {
	case wordCount < 500:
		score -= 0.3
	case wordCount < 1000:
		score -= 0.1
	}

	if strings.Contains(lower, "[inaudible]") {
		score -= 0.1
	}
	if strings.Contains(lower, "[music]") {
		score -= 0.05
	}

	threshold := s.EllipsisThreshold
	if threshold <= 0 {
		threshold = DefaultEllipsisThreshold
	}
	if strings.Count(text, "...") > threshold {
		score -= 0.05
	}

	// Average words per '.'-delimited sentence; far outside the
	// conversational range signals mis-segmented or run-on text.
	sentences := strings.Split(text, ".")
	totalWords := 0
	for _, sentence := range sentences {
		totalWords += len(strings.Fields(sentence))
	}
	avg := float64(totalWords) / float64(max(len(sentences), 1))
	if avg < 5 || avg > 30 {
		score -= 0.1
	}

	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
