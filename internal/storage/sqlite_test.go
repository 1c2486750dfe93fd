package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/arrowbeat/internal/leaderboard"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreRankingRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, e := range []leaderboard.Entry{
		{Board: "neon-drive", DisplayName: "first", Score: 300, SubmittedAt: base},
		{Board: "neon-drive", DisplayName: "low", Score: 100, SubmittedAt: base.Add(time.Second)},
		{Board: "neon-drive", DisplayName: "second", Score: 300, SubmittedAt: base.Add(2 * time.Second)},
		{Board: "slow-burn", DisplayName: "elsewhere", Score: 900, SubmittedAt: base},
	} {
		if _, err := store.Submit(ctx, e); err != nil {
			t.Fatalf("Submit() failed: %v", err)
		}
	}

	entries, err := store.FetchRanked(ctx, "neon-drive", 10)
	if err != nil {
		t.Fatalf("FetchRanked() failed: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	want := []string{"first", "second", "low"}
	for i, name := range want {
		if entries[i].DisplayName != name {
			t.Errorf("rank %d = %s, expected %s", i+1, entries[i].DisplayName, name)
		}
	}
	if !entries[0].SubmittedAt.Equal(base) {
		t.Errorf("SubmittedAt = %v, expected %v", entries[0].SubmittedAt, base)
	}
}

func TestStoreSameTimestampKeepsInsertionOrder(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		if _, err := store.Submit(ctx, leaderboard.Entry{Board: "b", DisplayName: name, Score: 10, SubmittedAt: base}); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := store.FetchRanked(ctx, "b", 0)
	if err != nil {
		t.Fatal(err)
	}
	for i, name := range []string{"a", "b", "c"} {
		if entries[i].DisplayName != name {
			t.Errorf("rank %d = %s, expected %s", i+1, entries[i].DisplayName, name)
		}
	}
}

func TestStoreNormalizesEntries(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	stored, err := store.Submit(ctx, leaderboard.Entry{Board: "b", Score: 1, Message: "  hi  "})
	if err != nil {
		t.Fatal(err)
	}
	if stored.DisplayName != leaderboard.Placeholder {
		t.Errorf("DisplayName = %q, expected placeholder", stored.DisplayName)
	}
	if stored.Message != "hi" {
		t.Errorf("Message = %q, expected trimmed", stored.Message)
	}
	if stored.ID == "" {
		t.Error("ID not assigned")
	}

	if _, err := store.Submit(ctx, leaderboard.Entry{Board: "", Score: 1}); !errors.Is(err, leaderboard.ErrInvalidEntry) {
		t.Errorf("Submit(no board) error = %v, expected ErrInvalidEntry", err)
	}
}

func TestStoreRetention(t *testing.T) {
	store := openTestStore(t)
	store.SetRetain(2)
	ctx := context.Background()

	for i, score := range []int{10, 500, 20, 300} {
		e := leaderboard.Entry{Board: "b", Score: score, SubmittedAt: base.Add(time.Duration(i) * time.Second)}
		if _, err := store.Submit(ctx, e); err != nil {
			t.Fatal(err)
		}
	}
	// Other boards are not pruned by submissions to b.
	if _, err := store.Submit(ctx, leaderboard.Entry{Board: "other", Score: 1}); err != nil {
		t.Fatal(err)
	}

	entries, err := store.FetchRanked(ctx, "b", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Score != 500 || entries[1].Score != 300 {
		t.Errorf("retained = %+v, expected [500 300]", entries)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	// No entries yet
	high, err := store.HighScore(ctx, "b")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score 0 for empty board, got %d", high)
	}

	for _, score := range []int{100, 500, 200} {
		store.Submit(ctx, leaderboard.Entry{Board: "b", Score: score})
	}

	high, err = store.HighScore(ctx, "b")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 500 {
		t.Errorf("Expected high score 500, got %d", high)
	}
}

func TestStoreClearBoard(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	store.Submit(ctx, leaderboard.Entry{Board: "b", Score: 100})
	store.Submit(ctx, leaderboard.Entry{Board: "keep", Score: 200})

	if err := store.ClearBoard(ctx, "b"); err != nil {
		t.Fatalf("ClearBoard() failed: %v", err)
	}

	entries, _ := store.FetchRanked(ctx, "b", 10)
	if len(entries) != 0 {
		t.Errorf("Expected 0 entries after clear, got %d", len(entries))
	}
	kept, _ := store.FetchRanked(ctx, "keep", 10)
	if len(kept) != 1 {
		t.Errorf("Expected other board untouched, got %d entries", len(kept))
	}
}

func TestStoreBoardStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	store.Submit(ctx, leaderboard.Entry{Board: "b", Score: 100, Accuracy: 80, MaxCombo: 5, SubmittedAt: base})
	store.Submit(ctx, leaderboard.Entry{Board: "b", Score: 300, Accuracy: 100, MaxCombo: 12, SubmittedAt: base.Add(time.Minute)})

	stats, err := store.BoardStats(ctx, "b")
	if err != nil {
		t.Fatalf("BoardStats() failed: %v", err)
	}
	if stats.Plays != 2 || stats.HighScore != 300 || stats.BestCombo != 12 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.AvgScore != 200 || stats.AvgAcc != 90 {
		t.Errorf("averages = %v / %v, expected 200 / 90", stats.AvgScore, stats.AvgAcc)
	}
	if !stats.LastPlayed.Equal(base.Add(time.Minute)) {
		t.Errorf("LastPlayed = %v", stats.LastPlayed)
	}

	empty, err := store.BoardStats(ctx, "none")
	if err != nil {
		t.Fatal(err)
	}
	if empty.Plays != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}

	all, err := store.AllBoardStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all["b"] == nil {
		t.Errorf("AllBoardStats() = %v", all)
	}
}

func TestStoreConcurrentSubmit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := store.Submit(ctx, leaderboard.Entry{Board: "b", DisplayName: fmt.Sprint(i), Score: i}); err != nil {
				t.Errorf("Submit(%d) failed: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	entries, err := store.FetchRanked(ctx, "b", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 10 {
		t.Errorf("Expected 10 entries, got %d", len(entries))
	}
}

func TestOpenThroughLeaderboard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.db")
	s, err := leaderboard.Open("sqlite:"+path, leaderboard.Options{Retain: 3})
	if err != nil {
		t.Fatalf("leaderboard.Open() failed: %v", err)
	}
	defer s.Close()

	store, ok := s.(*Store)
	if !ok {
		t.Fatalf("leaderboard.Open() = %T, expected *storage.Store", s)
	}
	if store.retain != 3 {
		t.Errorf("retain = %d, expected 3", store.retain)
	}

	// A bare path without .json also routes to sqlite.
	s2, err := leaderboard.Open(filepath.Join(t.TempDir(), "bare.db"), leaderboard.Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	if _, ok := s2.(*Store); !ok {
		t.Errorf("bare path opened %T, expected *storage.Store", s2)
	}
}
