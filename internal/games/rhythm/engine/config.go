package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a session config cannot be played.
var ErrInvalidConfig = errors.New("engine: invalid session config")

// Points awarded per judgement.
const (
	PerfectPoints = 300
	GoodPoints    = 100
)

// DefaultDensity is the probability that a pattern step carries a note.
const DefaultDensity = 0.72

// Config holds the parameters of one session. It is fixed once a session starts.
type Config struct {
	TempoBPM            float64 // Beats per minute
	SubdivisionsPerBeat int     // Pattern steps per beat
	StartOffset         float64 // Seconds before the first possible note
	Duration            float64 // Seconds of pattern after StartOffset
	PerfectWindow       float64 // Max |press - target| for a perfect, seconds
	GoodWindow          float64 // Max |press - target| for a good, seconds
	ScrollSpeed         float64 // Rows per second; presentation only
	Density             float64 // Probability of a note per step, 0..1
	CountIn             float64 // Seconds of count-in before the song clock runs
}

// Step returns the time between pattern steps in seconds.
func (c Config) Step() float64 {
	return 60 / c.TempoBPM / float64(c.SubdivisionsPerBeat)
}

// End returns the time after which no note can still be judged.
func (c Config) End() float64 {
	return c.StartOffset + c.Duration + c.GoodWindow
}

// Validate checks the config before any notes are generated.
func (c Config) Validate() error {
	switch {
	case c.TempoBPM <= 0:
		return fmt.Errorf("%w: tempo must be positive, got %g", ErrInvalidConfig, c.TempoBPM)
	case c.SubdivisionsPerBeat <= 0:
		return fmt.Errorf("%w: subdivisions must be positive, got %d", ErrInvalidConfig, c.SubdivisionsPerBeat)
	case c.Duration <= 0:
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfig, c.Duration)
	case c.StartOffset < 0:
		return fmt.Errorf("%w: start offset must not be negative, got %g", ErrInvalidConfig, c.StartOffset)
	case c.PerfectWindow < 0:
		return fmt.Errorf("%w: perfect window must not be negative, got %g", ErrInvalidConfig, c.PerfectWindow)
	case c.PerfectWindow > c.GoodWindow:
		return fmt.Errorf("%w: perfect window %g exceeds good window %g", ErrInvalidConfig, c.PerfectWindow, c.GoodWindow)
	case c.ScrollSpeed <= 0:
		return fmt.Errorf("%w: scroll speed must be positive, got %g", ErrInvalidConfig, c.ScrollSpeed)
	case c.Density < 0 || c.Density > 1:
		return fmt.Errorf("%w: density must be within [0, 1], got %g", ErrInvalidConfig, c.Density)
	case c.CountIn < 0:
		return fmt.Errorf("%w: count-in must not be negative, got %g", ErrInvalidConfig, c.CountIn)
	}
	return nil
}
