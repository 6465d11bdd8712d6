// Package youtube locates podcast episodes on YouTube. The Locator builds
// a search query from podcast and episode names, runs a capped search
// through a Searcher, and fuzzy-matches result titles against the episode
// title. It answers "is this episode on YouTube, and which video is it" —
// caption retrieval lives in the subtitles package.
package youtube
