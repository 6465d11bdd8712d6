// Package config loads and validates the ekko configuration file.
//
// Configuration flows through three steps: Default() fills repository
// defaults, normalize() expands paths and applies environment fallbacks,
// and Validate() rejects unusable combinations before anything touches the
// network. Missing credentials for the active transcription backend are a
// load-time error, not a runtime fallback.
package config
