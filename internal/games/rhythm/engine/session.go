package engine

import "math"

// Phase is the lifecycle stage of a session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCountingIn
	PhaseActive
	PhaseEnded
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseCountingIn:
		return "CountingIn"
	case PhaseActive:
		return "Active"
	case PhaseEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// Running reports whether a session in this phase blocks starting another one.
func (p Phase) Running() bool {
	return p == PhaseCountingIn || p == PhaseActive
}

// Session is the mutable state of one play-through.
// Only the Controller and the judgement methods mutate it.
type Session struct {
	Config Config
	Notes  []Note

	Score    int
	HitCount int
	Combo    int
	MaxCombo int
	Perfects int
	Goods    int
	Misses   int

	Phase Phase
}

// NewSession creates a session over the given notes.
// Notes must be ordered by Target; the session takes ownership of the slice.
func NewSession(cfg Config, notes []Note) *Session {
	return &Session{
		Config: cfg,
		Notes:  notes,
	}
}

// TotalNotes returns the number of notes in the pattern.
func (s *Session) TotalNotes() int {
	return len(s.Notes)
}

// Accuracy returns the percentage of notes hit, rounded to the nearest integer.
// A session without notes is 100% accurate.
func (s *Session) Accuracy() int {
	total := s.TotalNotes()
	if total == 0 {
		return 100
	}
	return int(math.Round(100 * float64(s.HitCount) / float64(total)))
}

// Resolved reports whether every note has left Pending.
func (s *Session) Resolved() bool {
	return s.Perfects+s.Goods+s.Misses == s.TotalNotes()
}

// Result freezes the session statistics.
func (s *Session) Result() Result {
	return Result{
		Score:      s.Score,
		HitCount:   s.HitCount,
		TotalNotes: s.TotalNotes(),
		Accuracy:   s.Accuracy(),
		MaxCombo:   s.MaxCombo,
		Perfects:   s.Perfects,
		Goods:      s.Goods,
		Misses:     s.Misses,
	}
}

// Result is the final outcome of a session, handed to the leaderboard.
type Result struct {
	Score      int
	HitCount   int
	TotalNotes int
	Accuracy   int // Percent
	MaxCombo   int
	Perfects   int
	Goods      int
	Misses     int
}
