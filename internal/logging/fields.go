package logging

// Standardized attribute keys. Keeping these in one place makes log output
// greppable across components.
const (
	FieldComponent = "component"
	FieldPodcast   = "podcast"
	FieldEpisode   = "episode"
	FieldFetchID   = "fetch_id"
	FieldVideoID   = "video_id"
	FieldSource    = "source"
	FieldBackend   = "backend"
	FieldPath      = "path"
	FieldReason    = "reason"
	FieldLanguage  = "language"
)
