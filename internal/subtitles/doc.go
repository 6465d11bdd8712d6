// Package subtitles retrieves YouTube caption tracks and turns them into
// plain transcript text. Manually uploaded captions always win over
// auto-generated ones, and languages are tried in the caller's preference
// order.
package subtitles
