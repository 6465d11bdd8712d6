package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ekko/internal/transcript"
)

func testStore(t *testing.T, maxBytes int64) *Store {
	t.Helper()
	store := NewStore(t.TempDir(), maxBytes, nil)
	if store == nil {
		t.Fatal("NewStore returned nil")
	}
	store.statfs = func(string) (uint64, uint64, error) {
		return 1 << 40, 1 << 39, nil
	}
	return store
}

func sampleResult(text string) transcript.Result {
	return transcript.Result{
		Text:         text,
		Source:       transcript.SourceYouTubeManual,
		QualityScore: 1.0,
	}
}

func TestKeySanitizesNames(t *testing.T) {
	if got := Key("Acme Cast", "Episode 1"); got != "Acme_Cast/Episode_1" {
		t.Fatalf("Key = %q", got)
	}
	if got := Key("What?! A / Show", "Ep. #5: on & on"); got != "What_A_Show/Ep_5_on_on" {
		t.Fatalf("Key = %q", got)
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	store := testStore(t, 1<<20)
	ctx := context.Background()

	want := sampleResult("the transcript text").
		WithMeta(transcript.MetaVideoID, "dQw4w9WgXcQ")
	if err := store.Put(ctx, "Acme Cast", "Episode 1", want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := store.Get(ctx, "Acme Cast", "Episode 1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Text != want.Text || got.Source != want.Source || got.QualityScore != want.QualityScore {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if got.Metadata[transcript.MetaVideoID] != "dQw4w9WgXcQ" {
		t.Fatalf("metadata = %v", got.Metadata)
	}

	// Entry lives at the sanitized path.
	path := filepath.Join(store.root, "Acme_Cast", "Episode_1.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("entry not at sanitized path: %v", err)
	}
}

func TestGetMissesOnAbsentEntry(t *testing.T) {
	store := testStore(t, 1<<20)
	if _, ok := store.Get(context.Background(), "Acme Cast", "Episode 1"); ok {
		t.Fatal("expected miss")
	}
}

func TestGetMissesOnCorruptEntry(t *testing.T) {
	store := testStore(t, 1<<20)
	path := filepath.Join(store.root, "Acme_Cast", "Episode_1.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := store.Get(context.Background(), "Acme Cast", "Episode 1"); ok {
		t.Fatal("corrupt entry must read as a miss")
	}
}

func TestPutSkipsUnavailableResults(t *testing.T) {
	store := testStore(t, 1<<20)
	ctx := context.Background()

	if err := store.Put(ctx, "Acme Cast", "Episode 1", transcript.Unavailable("no sources")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok := store.Get(ctx, "Acme Cast", "Episode 1"); ok {
		t.Fatal("failure results must not be cached")
	}
}

func TestPruneEvictsOldestFirst(t *testing.T) {
	store := testStore(t, 1<<20)
	ctx := context.Background()

	// Three entries, then shrink the budget so only roughly one fits.
	for i, episode := range []string{"Episode 1", "Episode 2", "Episode 3"} {
		if err := store.Put(ctx, "Acme Cast", episode, sampleResult("transcript body text")); err != nil {
			t.Fatalf("Put %s: %v", episode, err)
		}
		path := filepath.Join(store.root, "Acme_Cast", "Episode_"+string(rune('1'+i))+".json")
		stamp := time.Now().Add(time.Duration(i-3) * time.Hour)
		if err := os.Chtimes(path, stamp, stamp); err != nil {
			t.Fatal(err)
		}
	}
	entries, total, err := store.scan()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d", len(entries))
	}

	store.maxBytes = total / 2
	if err := store.prune(ctx, ""); err != nil {
		t.Fatalf("prune: %v", err)
	}

	if _, ok := store.Get(ctx, "Acme Cast", "Episode 1"); ok {
		t.Fatal("oldest entry should be evicted")
	}
	if _, ok := store.Get(ctx, "Acme Cast", "Episode 3"); !ok {
		t.Fatal("newest entry should survive")
	}
}

func TestPruneKeepsActiveEntry(t *testing.T) {
	store := testStore(t, 1<<20)
	ctx := context.Background()

	if err := store.Put(ctx, "Acme Cast", "Episode 1", sampleResult("text")); err != nil {
		t.Fatal(err)
	}
	keep := filepath.Join(store.root, "Acme_Cast", "Episode_1.json")
	old := time.Now().Add(-24 * time.Hour)
	if err := os.Chtimes(keep, old, old); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(ctx, "Acme Cast", "Episode 2", sampleResult("text")); err != nil {
		t.Fatal(err)
	}

	store.maxBytes = 1
	// Budget cannot be met while protecting the active entry plus one more,
	// but the active entry must survive the pass regardless.
	_ = store.prune(ctx, keep)
	if _, err := os.Stat(keep); err != nil {
		t.Fatalf("active entry was pruned: %v", err)
	}
}

func TestStatsCountsEntries(t *testing.T) {
	store := testStore(t, 1<<20)
	ctx := context.Background()

	for _, episode := range []string{"Episode 1", "Episode 2"} {
		if err := store.Put(ctx, "Acme Cast", episode, sampleResult("transcript")); err != nil {
			t.Fatal(err)
		}
	}
	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Entries != 2 {
		t.Fatalf("entries = %d", stats.Entries)
	}
	if stats.TotalBytes <= 0 {
		t.Fatalf("total bytes = %d", stats.TotalBytes)
	}
	if len(stats.EntryList) != 2 {
		t.Fatalf("entry list = %d", len(stats.EntryList))
	}
}

func TestNilStoreIsSafe(t *testing.T) {
	var store *Store
	ctx := context.Background()

	if _, ok := store.Get(ctx, "a", "b"); ok {
		t.Fatal("nil store must miss")
	}
	if err := store.Put(ctx, "a", "b", sampleResult("x")); err != nil {
		t.Fatalf("Put on nil store: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear on nil store: %v", err)
	}
}
