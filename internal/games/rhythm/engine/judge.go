package engine

import "math"

// windowEpsilon absorbs float rounding so a press exactly on a window edge counts.
const windowEpsilon = 1e-9

// Verdict classifies a press or an aged-out note.
type Verdict int

const (
	VerdictNone Verdict = iota // No note judged
	VerdictPerfect
	VerdictGood
	VerdictMiss
)

// String returns the label shown to the player.
func (v Verdict) String() string {
	switch v {
	case VerdictNone:
		return "None"
	case VerdictPerfect:
		return "Perfect"
	case VerdictGood:
		return "Good"
	case VerdictMiss:
		return "Miss"
	default:
		return "Unknown"
	}
}

// Judgement describes a single judgement event for presentation.
type Judgement struct {
	Lane    Lane
	Verdict Verdict
	Time    float64 // Session time of the press or of the age-out
	Note    int     // Index into Session.Notes, -1 when no note was judged
	Offset  float64 // Press time minus note target
}

// TryHit judges a press in lane at session time t.
//
// The pending note in that lane closest to t is selected, ties going to the
// earlier note. Within the perfect window it scores PerfectPoints, within the
// good window GoodPoints; otherwise nothing is judged and the note stays pending.
// Presses on unknown or empty lanes are no-ops.
func (s *Session) TryHit(lane Lane, t float64) Judgement {
	none := Judgement{Lane: lane, Verdict: VerdictNone, Time: t, Note: -1}
	if !lane.Valid() {
		return none
	}

	best := -1
	bestDiff := math.Inf(1)
	for i := range s.Notes {
		n := &s.Notes[i]
		if n.Lane != lane || !n.Pending() {
			continue
		}
		// Notes are ordered by Target, so a strictly smaller distance is needed
		// to replace the current best: ties keep the earliest note.
		diff := math.Abs(n.Target - t)
		if diff < bestDiff-windowEpsilon {
			best, bestDiff = i, diff
		} else if n.Target > t {
			// Past the press time and further away: later notes are further still.
			break
		}
	}
	if best < 0 {
		return none
	}

	var status NoteStatus
	var points int
	switch {
	case bestDiff <= s.Config.PerfectWindow+windowEpsilon:
		status, points = StatusPerfect, PerfectPoints
		s.Perfects++
	case bestDiff <= s.Config.GoodWindow+windowEpsilon:
		status, points = StatusGood, GoodPoints
		s.Goods++
	default:
		return none
	}

	n := &s.Notes[best]
	n.resolve(status, t, t-n.Target)
	s.Score += points
	s.HitCount++
	s.Combo++
	if s.Combo > s.MaxCombo {
		s.MaxCombo = s.Combo
	}

	verdict := VerdictGood
	if status == StatusPerfect {
		verdict = VerdictPerfect
	}
	return Judgement{
		Lane:    lane,
		Verdict: verdict,
		Time:    t,
		Note:    best,
		Offset:  n.Offset,
	}
}

// AgeOut marks every pending note whose good window has fully passed at t as
// missed and resets the combo. It returns one judgement per missed note.
func (s *Session) AgeOut(t float64) []Judgement {
	var missed []Judgement
	for i := range s.Notes {
		n := &s.Notes[i]
		if t-n.Target <= s.Config.GoodWindow+windowEpsilon {
			// Ordered by Target: every later note is younger.
			break
		}
		if !n.resolve(StatusMissed, t, 0) {
			continue
		}
		s.Misses++
		s.Combo = 0
		missed = append(missed, Judgement{
			Lane:    n.Lane,
			Verdict: VerdictMiss,
			Time:    t,
			Note:    i,
		})
	}
	return missed
}

// AgeOutAll misses every note that is still pending regardless of time.
// Used when a session ends before its notes could age out naturally.
func (s *Session) AgeOutAll(t float64) []Judgement {
	var missed []Judgement
	for i := range s.Notes {
		n := &s.Notes[i]
		if !n.resolve(StatusMissed, t, 0) {
			continue
		}
		s.Misses++
		s.Combo = 0
		missed = append(missed, Judgement{
			Lane:    n.Lane,
			Verdict: VerdictMiss,
			Time:    t,
			Note:    i,
		})
	}
	return missed
}

// NoteY maps a note to a screen row for a lane scrolling down toward hitLine.
// Rows grow downward; a note on time sits exactly on hitLine.
func NoteY(n Note, now float64, hitLine int, scrollSpeed float64) float64 {
	return float64(hitLine) - (n.Target-now)*scrollSpeed
}
