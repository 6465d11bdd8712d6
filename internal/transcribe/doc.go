// Package transcribe adapts the speech transcription backends to a single
// engine that yields scored transcript results. Backend failures come back
// as unavailable results carrying the failure reason, never as errors.
package transcribe
