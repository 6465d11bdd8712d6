// Package ledger tracks downloaded episodes and fetch outcomes in SQLite.
// The audio URL is the dedupe key: an episode that was already downloaded is
// never fetched from the network again.
package ledger
