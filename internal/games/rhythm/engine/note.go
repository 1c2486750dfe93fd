// Package engine implements the timing and judgement core of the rhythm game:
// pattern generation, per-note judgement, session statistics and the session
// lifecycle. It has no rendering, audio or persistence dependencies.
package engine

// Lane identifies one of the four input channels a note travels down.
type Lane int

// Lanes in display order, matching the arrow keys left to right.
const (
	LaneLeft Lane = iota
	LaneDown
	LaneUp
	LaneRight
)

// LaneCount is the number of lanes.
const LaneCount = 4

// Valid reports whether the lane is one of the four known lanes.
func (l Lane) Valid() bool {
	return l >= 0 && l < LaneCount
}

// String returns a human-readable lane name.
func (l Lane) String() string {
	switch l {
	case LaneLeft:
		return "Left"
	case LaneDown:
		return "Down"
	case LaneUp:
		return "Up"
	case LaneRight:
		return "Right"
	default:
		return "Unknown"
	}
}

// Arrow returns the glyph drawn for notes in this lane.
func (l Lane) Arrow() rune {
	switch l {
	case LaneLeft:
		return '←'
	case LaneDown:
		return '↓'
	case LaneUp:
		return '↑'
	case LaneRight:
		return '→'
	default:
		return '?'
	}
}

// NoteStatus is the judgement state of a note.
type NoteStatus int

const (
	StatusPending NoteStatus = iota
	StatusPerfect
	StatusGood
	StatusMissed
)

// String returns a human-readable status name.
func (s NoteStatus) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusPerfect:
		return "Perfect"
	case StatusGood:
		return "Good"
	case StatusMissed:
		return "Missed"
	default:
		return "Unknown"
	}
}

// Hit reports whether the status is a successful judgement.
func (s NoteStatus) Hit() bool {
	return s == StatusPerfect || s == StatusGood
}

// Note is a single cue the player has to hit.
type Note struct {
	Lane   Lane
	Target float64 // Seconds from session start when the note reaches the hit line
	Status NoteStatus

	// Set once when the note leaves Pending.
	ResolvedAt float64 // Session time of the judgement
	Offset     float64 // Press time minus Target; zero for misses
}

// Pending reports whether the note can still be judged.
func (n *Note) Pending() bool {
	return n.Status == StatusPending
}

// resolve moves the note out of Pending. Returns false if it was already resolved.
func (n *Note) resolve(status NoteStatus, at, offset float64) bool {
	if n.Status != StatusPending {
		return false
	}
	n.Status = status
	n.ResolvedAt = at
	n.Offset = offset
	return true
}
