// Package fetcher runs the transcript acquisition chain: cache, then
// YouTube captions, then speech transcription. Every stage failure falls
// through to the next stage, and the final result is always a value, never
// an error.
package fetcher
