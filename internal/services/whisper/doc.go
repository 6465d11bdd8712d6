// Package whisper talks to an OpenAI-compatible hosted transcription API.
// Uploads are capped at the API's 25 MiB limit; oversized files fail with a
// distinct error instead of being chunked.
package whisper
