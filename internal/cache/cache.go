package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"ekko/internal/logging"
	"ekko/internal/textutil"
	"ekko/internal/transcript"
)

const (
	// freeSpaceFloor is the minimum free-space ratio we allow before pruning.
	freeSpaceFloor = 0.10
	lockFileName   = ".lock"
)

// statfsFunc allows tests to stub filesystem stats.
type statfsFunc func(path string) (total uint64, free uint64, err error)

// Store persists transcript results on disk.
type Store struct {
	root     string
	maxBytes int64
	logger   *slog.Logger
	statfs   statfsFunc
	lock     *flock.Flock
}

// NewStore builds a transcript cache when enabled; returns nil when caching
// is disabled or misconfigured. A nil Store is safe to use: every lookup
// misses and every write is a no-op.
func NewStore(root string, maxBytes int64, logger *slog.Logger) *Store {
	root = strings.TrimSpace(root)
	if root == "" || maxBytes <= 0 {
		return nil
	}
	store := &Store{
		root:     root,
		maxBytes: maxBytes,
		statfs:   realStatfs,
		lock:     flock.New(filepath.Join(root, lockFileName)),
	}
	store.SetLogger(logger)
	return store
}

// SetLogger refreshes the store's logging destination.
func (s *Store) SetLogger(logger *slog.Logger) {
	if s == nil {
		return
	}
	s.logger = logging.NewComponentLogger(logger, "cache")
}

// Key returns the relative cache key for a podcast episode, e.g.
// "Acme_Cast/Episode_1".
func Key(podcastName, episodeTitle string) string {
	return textutil.SafeComponent(podcastName) + "/" + textutil.SafeComponent(episodeTitle)
}

func (s *Store) entryPath(podcastName, episodeTitle string) string {
	return filepath.Join(s.root, filepath.FromSlash(Key(podcastName, episodeTitle))+".json")
}

// Get looks up a cached transcript. Any read or decode failure is a miss:
// a corrupt entry must never poison a fetch.
func (s *Store) Get(ctx context.Context, podcastName, episodeTitle string) (transcript.Result, bool) {
	if s == nil {
		return transcript.Result{}, false
	}
	path := s.entryPath(podcastName, episodeTitle)
	payload, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.WarnContext(ctx, "cache read failed",
				logging.String(logging.FieldPath, path),
				logging.Error(err))
		}
		return transcript.Result{}, false
	}
	var result transcript.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		s.logger.WarnContext(ctx, "cache entry corrupt",
			logging.String(logging.FieldPath, path),
			logging.Error(err))
		return transcript.Result{}, false
	}
	if !result.HasText() {
		return transcript.Result{}, false
	}
	return result, true
}

// Put stores a successful transcript and prunes the cache to budget.
// Results without text are never cached so a transient failure cannot mask
// a later successful fetch.
func (s *Store) Put(ctx context.Context, podcastName, episodeTitle string, result transcript.Result) error {
	if s == nil {
		return nil
	}
	if !result.HasText() {
		return nil
	}
	path := s.entryPath(podcastName, episodeTitle)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cache: ensure entry dir: %w", err)
	}
	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: encode entry: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*.tmp")
	if err != nil {
		return fmt.Errorf("cache: create temp entry: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("cache: write temp entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("cache: close temp entry: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("cache: publish entry: %w", err)
	}

	if err := s.prune(ctx, path); err != nil {
		return fmt.Errorf("cache: prune after put: %w", err)
	}
	s.logger.DebugContext(ctx, "cached transcript",
		logging.String(logging.FieldPodcast, podcastName),
		logging.String(logging.FieldEpisode, episodeTitle),
		logging.String(logging.FieldPath, path))
	return nil
}

// Clear removes every cache entry.
func (s *Store) Clear(ctx context.Context) error {
	if s == nil {
		return nil
	}
	entries, _, err := s.scan()
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.Remove(entry.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("cache: remove %q: %w", entry.path, err)
		}
	}
	s.logger.InfoContext(ctx, "cache cleared", logging.Int("entries", len(entries)))
	return nil
}

// Stats describes current cache usage.
type Stats struct {
	Entries      int            `json:"entries"`
	TotalBytes   int64          `json:"total_bytes"`
	MaxBytes     int64          `json:"max_bytes"`
	FreeBytes    uint64         `json:"free_bytes"`
	TotalFSBytes uint64         `json:"total_fs_bytes"`
	FreeRatio    float64        `json:"free_ratio"`
	EntryList    []EntrySummary `json:"entry_list"`
}

// EntrySummary surfaces per-entry details so the CLI can show what is stored.
type EntrySummary struct {
	Key        string    `json:"key"`
	SizeBytes  int64     `json:"size_bytes"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Stats returns current cache usage and filesystem free-space info.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	if s == nil {
		return stats, nil
	}
	entries, total, err := s.scan()
	if err != nil {
		return stats, err
	}
	totalFS, freeFS, err := s.statfs(s.root)
	if err != nil {
		return stats, fmt.Errorf("cache: statfs: %w", err)
	}
	ratio := 1.0
	if totalFS > 0 {
		ratio = float64(freeFS) / float64(totalFS)
	}
	list := make([]EntrySummary, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		list = append(list, EntrySummary{
			Key:        entry.key,
			SizeBytes:  entry.sizeBytes,
			ModifiedAt: entry.modTime,
		})
	}
	stats = Stats{
		Entries:      len(entries),
		TotalBytes:   total,
		MaxBytes:     s.maxBytes,
		FreeBytes:    freeFS,
		TotalFSBytes: totalFS,
		FreeRatio:    ratio,
		EntryList:    list,
	}
	if len(entries) == 0 {
		s.logger.DebugContext(ctx, "cache empty")
	}
	return stats, nil
}

// prune removes oldest entries until both size and free-space thresholds are
// satisfied. keepPath protects the entry just written. Concurrent fetchers
// serialize pruning through a file lock so they do not race over deletions.
func (s *Store) prune(ctx context.Context, keepPath string) error {
	if s.lock != nil {
		if err := s.lock.Lock(); err != nil {
			return fmt.Errorf("cache: acquire prune lock: %w", err)
		}
		defer s.lock.Unlock() //nolint:errcheck
	}

	entries, totalSize, err := s.scan()
	if err != nil {
		return err
	}
	for len(entries) > 0 {
		freeOK, err := s.freeSpaceOK()
		if err != nil {
			return err
		}
		if totalSize <= s.maxBytes && freeOK {
			return nil
		}
		oldest := entries[0]
		if oldest.path == keepPath {
			if len(entries) == 1 {
				return fmt.Errorf("cache: over limits and active entry %q cannot be pruned", keepPath)
			}
			entries = entries[1:]
			continue
		}
		if err := os.Remove(oldest.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("cache: remove %q: %w", oldest.path, err)
		}
		s.logger.InfoContext(ctx, "pruned cache entry",
			logging.String("key", oldest.key),
			logging.Int64("entry_size_bytes", oldest.sizeBytes))
		totalSize -= oldest.sizeBytes
		entries = entries[1:]
	}
	return nil
}

type cacheEntry struct {
	path      string
	key       string
	sizeBytes int64
	modTime   time.Time
}

// scan lists every entry sorted by modification time, oldest first.
// Modification time approximates recency of use; reads do not refresh it.
func (s *Store) scan() ([]cacheEntry, int64, error) {
	entries := make([]cacheEntry, 0)
	var total int64
	podcasts, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entries, 0, nil
		}
		return nil, 0, fmt.Errorf("cache: list root: %w", err)
	}
	for _, podcast := range podcasts {
		if !podcast.IsDir() {
			continue
		}
		dir := filepath.Join(s.root, podcast.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			s.logger.Warn("cache: skip podcast dir",
				logging.String(logging.FieldPath, dir),
				logging.Error(err))
			continue
		}
		for _, file := range files {
			if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
				continue
			}
			info, err := file.Info()
			if err != nil {
				continue
			}
			total += info.Size()
			entries = append(entries, cacheEntry{
				path:      filepath.Join(dir, file.Name()),
				key:       podcast.Name() + "/" + strings.TrimSuffix(file.Name(), ".json"),
				sizeBytes: info.Size(),
				modTime:   info.ModTime(),
			})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].modTime.Before(entries[j].modTime)
	})
	return entries, total, nil
}

func (s *Store) freeSpaceOK() (bool, error) {
	total, free, err := s.statfs(s.root)
	if err != nil {
		return false, fmt.Errorf("cache: statfs: %w", err)
	}
	if total == 0 {
		return true, nil
	}
	return float64(free)/float64(total) >= freeSpaceFloor, nil
}
