// Package cache persists fetched transcripts as JSON files keyed by
// sanitized podcast and episode names. Entries are written atomically and
// pruned oldest-first when the cache exceeds its byte budget or the
// filesystem runs low on free space.
package cache
