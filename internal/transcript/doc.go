// Package transcript defines the value types that flow through the fetch
// pipeline: the fetch request, the tagged result, and the text quality
// scorer. Every source component produces a Result; failure is a Result
// with SourceUnavailable, never an error crossing a public boundary.
package transcript
