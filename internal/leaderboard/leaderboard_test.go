package leaderboard

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// checkRoundTrip submits 300, 100, 300 and expects the two 300s first in
// submission order, then the 100.
func checkRoundTrip(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	for i, e := range []Entry{
		{Board: "neon-drive", DisplayName: "first", Score: 300, SubmittedAt: base},
		{Board: "neon-drive", DisplayName: "low", Score: 100, SubmittedAt: base.Add(time.Second)},
		{Board: "neon-drive", DisplayName: "second", Score: 300, SubmittedAt: base.Add(2 * time.Second)},
		{Board: "other-song", DisplayName: "elsewhere", Score: 999, SubmittedAt: base},
	} {
		if _, err := s.Submit(ctx, e); err != nil {
			t.Fatalf("Submit(%d) error = %v", i, err)
		}
	}

	got, err := s.FetchRanked(ctx, "neon-drive", 10)
	if err != nil {
		t.Fatalf("FetchRanked() error = %v", err)
	}
	want := []string{"first", "second", "low"}
	if len(got) != len(want) {
		t.Fatalf("FetchRanked() returned %d entries, expected %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].DisplayName != name {
			t.Errorf("rank %d = %s (%d), expected %s", i+1, got[i].DisplayName, got[i].Score, name)
		}
	}
	if !got[0].SubmittedAt.Equal(base) {
		t.Errorf("SubmittedAt = %v, expected %v", got[0].SubmittedAt, base)
	}

	top, err := s.FetchRanked(ctx, "neon-drive", 1)
	if err != nil {
		t.Fatalf("FetchRanked(limit 1) error = %v", err)
	}
	if len(top) != 1 || top[0].DisplayName != "first" {
		t.Errorf("FetchRanked(limit 1) = %+v, expected only first", top)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		in          Entry
		wantName    string
		wantMessage string
	}{
		{"empty name gets placeholder", Entry{Board: "b"}, Placeholder, ""},
		{"whitespace name gets placeholder", Entry{Board: "b", DisplayName: "   "}, Placeholder, ""},
		{"name is trimmed", Entry{Board: "b", DisplayName: "  ace  "}, "ace", ""},
		{"long name is capped", Entry{Board: "b", DisplayName: "abcdefghijklmnop"}, "abcdefghijkl", ""},
		{"multibyte name is capped by runes", Entry{Board: "b", DisplayName: "ああああああああああああああ"}, "ああああああああああああ", ""},
		{"long message is capped", Entry{Board: "b", DisplayName: "x", Message: strings.Repeat("m", 80)}, "x", strings.Repeat("m", 60)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.in, base)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if got.DisplayName != tc.wantName {
				t.Errorf("DisplayName = %q, expected %q", got.DisplayName, tc.wantName)
			}
			if got.Message != tc.wantMessage {
				t.Errorf("Message = %q, expected %q", got.Message, tc.wantMessage)
			}
			if got.ID == "" {
				t.Error("ID was not assigned")
			}
			if !got.SubmittedAt.Equal(base) {
				t.Errorf("SubmittedAt = %v, expected %v", got.SubmittedAt, base)
			}
		})
	}
}

func TestNormalizeKeepsExisting(t *testing.T) {
	at := base.Add(-time.Hour)
	got, err := Normalize(Entry{ID: "keep", Board: "b", SubmittedAt: at}, base)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "keep" || !got.SubmittedAt.Equal(at) {
		t.Errorf("Normalize() = %+v, expected ID and time kept", got)
	}
}

func TestNormalizeRejects(t *testing.T) {
	for _, e := range []Entry{
		{Board: "", Score: 1},
		{Board: "b", Score: -5},
	} {
		if _, err := Normalize(e, base); !errors.Is(err, ErrInvalidEntry) {
			t.Errorf("Normalize(%+v) error = %v, expected ErrInvalidEntry", e, err)
		}
	}
}

func TestRank(t *testing.T) {
	entries := []Entry{
		{DisplayName: "c", Score: 100, SubmittedAt: base},
		{DisplayName: "a", Score: 300, SubmittedAt: base.Add(time.Second)},
		{DisplayName: "b", Score: 300, SubmittedAt: base.Add(time.Second)},
		{DisplayName: "early", Score: 300, SubmittedAt: base},
	}

	got := Rank(entries, 0)
	want := []string{"early", "a", "b", "c"}
	for i, name := range want {
		if got[i].DisplayName != name {
			t.Errorf("Rank()[%d] = %s, expected %s", i, got[i].DisplayName, name)
		}
	}

	if got := Rank(entries, 2); len(got) != 2 {
		t.Errorf("len(Rank(limit 2)) = %d, expected 2", len(got))
	}
}
