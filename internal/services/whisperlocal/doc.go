// Package whisperlocal runs speech transcription through a local whisper
// command line binary.
package whisperlocal
