package engine

// Rand is the random source used by the pattern generator.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Generate builds the note pattern for a session.
//
// Starting at StartOffset the generator walks forward one subdivision at a time
// until StartOffset+Duration. Each step independently carries a note with
// probability Density, placed in a uniformly random lane. At most one note is
// emitted per step, so no two notes share a lane and a target time, and the
// result is ordered by Target.
func Generate(cfg Config, rng Rand) []Note {
	step := cfg.Step()
	end := cfg.StartOffset + cfg.Duration

	notes := make([]Note, 0, int(cfg.Duration/step*cfg.Density)+1)
	// Times are derived from the step index rather than accumulated so long
	// songs do not drift.
	for i := 0; ; i++ {
		t := cfg.StartOffset + float64(i)*step
		if t >= end {
			break
		}
		if rng.Float64() >= cfg.Density {
			continue
		}
		notes = append(notes, Note{
			Lane:   Lane(rng.Intn(LaneCount)),
			Target: t,
		})
	}
	return notes
}
