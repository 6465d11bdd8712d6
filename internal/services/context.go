package services

import "context"

type contextKey string

const fetchIDKey contextKey = "fetch_id"

// WithFetchID annotates context with the fetch correlation identifier.
func WithFetchID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, fetchIDKey, id)
}

// FetchIDFromContext extracts the fetch correlation identifier if present.
func FetchIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(fetchIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
