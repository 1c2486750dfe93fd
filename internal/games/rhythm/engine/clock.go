package engine

import (
	"errors"
	"time"
)

// ErrClockNotStarted is the panic value raised when a clock is read before Start.
var ErrClockNotStarted = errors.New("engine: clock read before start")

// Clock yields elapsed session time in seconds.
// Implementations must be monotonic: adjusting the system clock must not move them.
type Clock interface {
	// Start records the reference instant. Calling Start again re-anchors the clock.
	Start()

	// Elapsed returns seconds since Start. Panics with ErrClockNotStarted
	// if Start was never called.
	Elapsed() float64
}

// MonotonicClock measures elapsed time with Go's monotonic clock reading.
type MonotonicClock struct {
	now     func() time.Time
	start   time.Time
	started bool
}

// NewMonotonicClock creates a clock backed by time.Now.
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{now: time.Now}
}

// Start records the current instant as zero.
func (c *MonotonicClock) Start() {
	if c.now == nil {
		c.now = time.Now
	}
	c.start = c.now()
	c.started = true
}

// Elapsed returns seconds since Start.
func (c *MonotonicClock) Elapsed() float64 {
	if !c.started {
		panic(ErrClockNotStarted)
	}
	// time.Time.Sub uses the monotonic reading when both operands carry one.
	return c.now().Sub(c.start).Seconds()
}

// ManualClock is a synthetic clock advanced explicitly by the caller.
// Used by tests and replays to drive the engine with exact time values.
type ManualClock struct {
	t       float64
	started bool
}

// Start resets the clock to zero.
func (c *ManualClock) Start() {
	c.t = 0
	c.started = true
}

// Set moves the clock to an absolute time.
func (c *ManualClock) Set(t float64) {
	c.t = t
}

// Advance moves the clock forward by dt seconds.
func (c *ManualClock) Advance(dt float64) {
	c.t += dt
}

// Elapsed returns the current synthetic time.
func (c *ManualClock) Elapsed() float64 {
	if !c.started {
		panic(ErrClockNotStarted)
	}
	return c.t
}
