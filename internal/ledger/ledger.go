package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"ekko/internal/transcript"
)

// Ledger manages episode persistence backed by SQLite.
type Ledger struct {
	db   *sql.DB
	path string
}

// Entry is one recorded episode.
type Entry struct {
	ID           int64
	PodcastName  string
	EpisodeTitle string
	AudioURL     string
	AudioPath    string
	Source       transcript.Source
	QualityScore float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Open initializes or connects to the ledger database and applies migrations.
func Open(path string) (*Ledger, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("ledger: database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ledger: ensure db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ledger: open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ledger: apply pragma %q: %w", pragma, execErr)
		}
	}

	ledger := &Ledger{db: db, path: path}
	if err := ledger.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return ledger, nil
}

// Close closes the underlying database connection.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Path returns the database file path.
func (l *Ledger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// AudioPath returns the recorded local audio path for an audio URL. The
// second return value is false when the URL was never downloaded or the
// recorded file no longer exists on disk.
func (l *Ledger) AudioPath(ctx context.Context, audioURL string) (string, bool, error) {
	if l == nil {
		return "", false, nil
	}
	var path sql.NullString
	err := l.db.QueryRowContext(ctx,
		"SELECT audio_path FROM episodes WHERE audio_url = ?", audioURL,
	).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("ledger: query audio path: %w", err)
	}
	if !path.Valid || strings.TrimSpace(path.String) == "" {
		return "", false, nil
	}
	if _, err := os.Stat(path.String); err != nil {
		return "", false, nil
	}
	return path.String, true, nil
}

// MarkDownloaded records a completed audio download, keyed by audio URL.
func (l *Ledger) MarkDownloaded(ctx context.Context, podcastName, episodeTitle, audioURL, audioPath string) error {
	if l == nil {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO episodes (podcast_name, episode_title, audio_url, audio_path, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(audio_url) DO UPDATE SET
             podcast_name = excluded.podcast_name,
             episode_title = excluded.episode_title,
             audio_path = excluded.audio_path,
             updated_at = excluded.updated_at`,
		podcastName, episodeTitle, audioURL, audioPath, now, now)
	if err != nil {
		return fmt.Errorf("ledger: record download: %w", err)
	}
	return nil
}

// RecordResult stores the outcome of a transcript fetch for an episode. A
// row is created when the episode was never downloaded (subtitle path).
func (l *Ledger) RecordResult(ctx context.Context, podcastName, episodeTitle, audioURL string, result transcript.Result) error {
	if l == nil {
		return nil
	}
	if strings.TrimSpace(audioURL) == "" {
		// No stable dedupe key without an audio URL; nothing to record.
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO episodes (podcast_name, episode_title, audio_url, transcript_source, quality_score, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(audio_url) DO UPDATE SET
             transcript_source = excluded.transcript_source,
             quality_score = excluded.quality_score,
             updated_at = excluded.updated_at`,
		podcastName, episodeTitle, audioURL, string(result.Source), result.QualityScore, now, now)
	if err != nil {
		return fmt.Errorf("ledger: record result: %w", err)
	}
	return nil
}

// Recent returns the most recently updated entries, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if l == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, podcast_name, episode_title, audio_url, audio_path, transcript_source, quality_score, created_at, updated_at
         FROM episodes ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("ledger: list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry     Entry
			audioPath sql.NullString
			source    sql.NullString
			score     sql.NullFloat64
			created   string
			updated   string
		)
		if err := rows.Scan(&entry.ID, &entry.PodcastName, &entry.EpisodeTitle, &entry.AudioURL,
			&audioPath, &source, &score, &created, &updated); err != nil {
			return nil, fmt.Errorf("ledger: scan entry: %w", err)
		}
		entry.AudioPath = audioPath.String
		entry.Source = transcript.Source(source.String)
		entry.QualityScore = score.Float64
		entry.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		entry.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ledger: iterate entries: %w", err)
	}
	return entries, nil
}
