// Package whisperd talks to a self-hosted transcription daemon. The daemon
// downloads and transcribes the episode itself and answers with the path of
// the transcript file it wrote to shared storage.
package whisperd
