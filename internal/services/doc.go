// Package services defines shared utilities consumed by the transcription
// backends and other external integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper so failures carry a
//     classification the fetcher can log and report uniformly.
//   - Context helpers that stamp fetch correlation identifiers for logging.
package services
