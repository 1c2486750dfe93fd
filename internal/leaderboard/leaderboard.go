// Package leaderboard defines the score board boundary: the Entry record,
// the Store interface, ranking rules and the stores that do not need a
// database (a local JSON document and a remote document service).
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Limits applied to user-supplied text.
const (
	MaxNameRunes    = 12
	MaxMessageRunes = 60
	Placeholder     = "ANON"
)

var (
	// ErrUnavailable wraps failures to reach the backing store.
	ErrUnavailable = errors.New("leaderboard unavailable")

	// ErrInvalidEntry is returned for entries that cannot be stored.
	ErrInvalidEntry = errors.New("invalid entry")
)

// Entry is one submitted result.
type Entry struct {
	ID          string    `json:"id"`
	Board       string    `json:"board"` // Song ID; each song has its own ranking
	DisplayName string    `json:"name"`
	Score       int       `json:"score"`
	Message     string    `json:"message"`
	Accuracy    int       `json:"accuracy"`
	MaxCombo    int       `json:"max_combo"`
	Difficulty  string    `json:"difficulty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Store persists entries and returns ranked lists.
type Store interface {
	// Submit stores the entry after normalizing it and returns what was stored.
	Submit(ctx context.Context, e Entry) (Entry, error)

	// FetchRanked returns at most limit entries of a board, best first.
	FetchRanked(ctx context.Context, board string, limit int) ([]Entry, error)

	Close() error
}

// Normalize prepares an entry for storage: names and messages are trimmed and
// capped, an empty name becomes the placeholder, and missing IDs and
// timestamps are filled in.
func Normalize(e Entry, now time.Time) (Entry, error) {
	e.Board = strings.TrimSpace(e.Board)
	if e.Board == "" {
		return Entry{}, fmt.Errorf("leaderboard: %w: no board", ErrInvalidEntry)
	}
	if e.Score < 0 {
		return Entry{}, fmt.Errorf("leaderboard: %w: negative score %d", ErrInvalidEntry, e.Score)
	}

	e.DisplayName = truncate(strings.TrimSpace(e.DisplayName), MaxNameRunes)
	if e.DisplayName == "" {
		e.DisplayName = Placeholder
	}
	e.Message = truncate(strings.TrimSpace(e.Message), MaxMessageRunes)

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.SubmittedAt.IsZero() {
		e.SubmittedAt = now
	}
	e.SubmittedAt = e.SubmittedAt.UTC()
	return e, nil
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:max]))
}

// Less reports whether a ranks above b: higher score first, then the earlier
// submission.
func Less(a, b Entry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.SubmittedAt.Before(b.SubmittedAt)
}

// Rank sorts entries in place, keeping insertion order for full ties, and
// returns at most limit of them. A limit <= 0 keeps everything.
func Rank(entries []Entry, limit int) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		return Less(entries[i], entries[j])
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func unavailable(op string, err error) error {
	return fmt.Errorf("leaderboard: %s: %w: %w", op, ErrUnavailable, err)
}
