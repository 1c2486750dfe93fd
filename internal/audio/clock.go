package audio

import (
	"sync"
	"time"

	"github.com/vovakirdan/arrowbeat/internal/games/rhythm/engine"
)

// Track is the part of a Player the clock needs.
type Track interface {
	Play() error
	Position() time.Duration
	Duration() time.Duration
	Stop()
}

// PlaybackClock reports session time from the audio position. The track
// starts lead after Start; until then, or if it fails to start, time comes
// from the monotonic clock. Once the track has played to its end the
// monotonic clock takes over again, so a song longer than its music still
// ends. Readings never go backwards.
type PlaybackClock struct {
	track Track
	lead  time.Duration

	now      func() time.Time
	schedule func(d time.Duration, f func()) (cancel func())

	mu      sync.Mutex
	start   time.Time
	started bool
	playing bool
	cancel  func()
	err     error

	trackEnd time.Time // wall time the track ran out; zero while it plays
	last     time.Duration
}

var _ engine.Clock = (*PlaybackClock)(nil)

// NewPlaybackClock starts track lead after Start. lead is the session's
// count-in, so the track's start lines up with song time zero.
func NewPlaybackClock(track Track, lead time.Duration) *PlaybackClock {
	return &PlaybackClock{
		track: track,
		lead:  lead,
		now:   time.Now,
		schedule: func(d time.Duration, f func()) func() {
			t := time.AfterFunc(d, f)
			return func() { t.Stop() }
		},
	}
}

// Start (re)starts the clock and schedules playback.
func (c *PlaybackClock) Start() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.playing {
		c.track.Stop()
	}
	c.start = c.now()
	c.started = true
	c.playing = false
	c.err = nil
	c.trackEnd = time.Time{}
	c.last = 0
	gen := c.start
	c.mu.Unlock()

	play := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.start.Equal(gen) {
			return // restarted since scheduling
		}
		if err := c.track.Play(); err != nil {
			c.err = err
			return
		}
		c.playing = true
	}

	if c.lead <= 0 {
		play()
		return
	}
	cancel := c.schedule(c.lead, play)
	c.mu.Lock()
	if c.start.Equal(gen) {
		c.cancel = cancel
	}
	c.mu.Unlock()
}

// Elapsed returns seconds since Start. Panics if Start has not been called.
func (c *PlaybackClock) Elapsed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		panic(engine.ErrClockNotStarted)
	}
	now := c.now()
	reading := now.Sub(c.start)
	if c.playing {
		reading = c.lead + c.trackPosition(now)
	}
	// Switching to the track and speaker buffer steps can lag wall time.
	if reading < c.last {
		reading = c.last
	}
	c.last = reading
	return reading.Seconds()
}

// trackPosition is the track position, continued on wall time once the
// track has reached its length. Callers hold c.mu.
func (c *PlaybackClock) trackPosition(now time.Time) time.Duration {
	dur := c.track.Duration()
	pos := c.track.Position()
	if dur <= 0 || pos < dur {
		return pos
	}
	if c.trackEnd.IsZero() {
		c.trackEnd = now
	}
	return dur + now.Sub(c.trackEnd)
}

// Err returns the error from the last attempt to start playback.
func (c *PlaybackClock) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Stop cancels pending playback and silences the track.
func (c *PlaybackClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.playing {
		c.track.Stop()
		c.playing = false
	}
}
