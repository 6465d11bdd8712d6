// Package logging constructs the application's slog loggers and provides
// shared attribute helpers. Components receive a logger through their
// constructor and tag records with a component attribute; nothing in this
// repository logs through a package-level logger.
package logging
