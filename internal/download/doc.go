// Package download fetches episode audio over HTTP into the audio library.
// Downloads stream through a temp file that is renamed into place only on
// success, and the ledger short-circuits repeat downloads of the same URL.
package download
