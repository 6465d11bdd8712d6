// Package language normalizes language identifiers used by caption tracks
// and transcription backends. Feed metadata and caption listings mix ISO
// 639-1 codes, region-qualified BCP 47 tags ("en-US"), and full words
// ("english"); everything funnels through here so the rest of the code
// compares plain two-letter codes.
package language
