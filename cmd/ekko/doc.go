// Command ekko fetches podcast episode transcripts. It tries the local
// cache, then YouTube captions, then the configured speech transcription
// backend, and prints the best transcript it finds.
package main
