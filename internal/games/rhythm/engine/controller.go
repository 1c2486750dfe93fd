package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrSessionActive is returned when starting a session while another is running.
var ErrSessionActive = errors.New("engine: a session is already running")

// Listener receives events from the controller. Calls happen synchronously on
// the goroutine driving the controller and must not block.
type Listener interface {
	OnJudgement(j Judgement)
	OnEnd(r Result)
}

// Controller owns the session lifecycle: idle, counting in, active, ended.
//
// It is driven cooperatively: the caller invokes Tick once per frame with a
// fresh clock reading and Press whenever a lane input is dequeued. Neither call
// blocks. A Controller is not safe for concurrent use.
type Controller struct {
	clock    Clock
	rng      Rand
	listener Listener
	session  *Session
	now      float64 // Clock reading at the last tick or press
	result   Result
}

// NewController creates a controller reading time from clock and drawing
// patterns from rng.
func NewController(clock Clock, rng Rand) *Controller {
	return &Controller{
		clock: clock,
		rng:   rng,
	}
}

// SetListener installs the event listener. Pass nil to remove it.
func (c *Controller) SetListener(l Listener) {
	c.listener = l
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase {
	if c.session == nil {
		return PhaseIdle
	}
	return c.session.Phase
}

// Start validates cfg, generates a pattern and begins the count-in.
// It fails with ErrSessionActive while another session is counting in or active,
// and with ErrInvalidConfig before any notes are generated.
func (c *Controller) Start(cfg Config) error {
	if err := c.checkStart(cfg); err != nil {
		return err
	}
	c.begin(cfg, Generate(cfg, c.rng))
	return nil
}

// StartWithNotes begins a session over a fixed pattern instead of a generated one.
// The notes are copied, reset to pending and ordered by target time.
func (c *Controller) StartWithNotes(cfg Config, notes []Note) error {
	if err := c.checkStart(cfg); err != nil {
		return err
	}
	own := make([]Note, len(notes))
	for i, n := range notes {
		own[i] = Note{Lane: n.Lane, Target: n.Target}
	}
	sort.SliceStable(own, func(i, j int) bool {
		return own[i].Target < own[j].Target
	})
	c.begin(cfg, own)
	return nil
}

func (c *Controller) checkStart(cfg Config) error {
	if c.Phase().Running() {
		return ErrSessionActive
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("engine: cannot start session: %w", err)
	}
	return nil
}

func (c *Controller) begin(cfg Config, notes []Note) {
	c.session = NewSession(cfg, notes)
	c.session.Phase = PhaseCountingIn
	c.result = Result{}
	c.now = 0
	c.clock.Start()
}

// Tick advances the session to clock reading now (seconds since Start).
//
// It ends the count-in, ages out stale notes and detects the end of the
// session. Tick returns false once the session is no longer running; callers
// stop scheduling ticks at that point. Ticks after the end are no-ops.
func (c *Controller) Tick(now float64) bool {
	s := c.session
	if s == nil || !s.Phase.Running() {
		return false
	}
	c.now = now
	songTime := c.songTime(now)

	if s.Phase == PhaseCountingIn {
		if songTime < 0 {
			return true
		}
		s.Phase = PhaseActive
	}

	for _, j := range s.AgeOut(songTime) {
		c.emit(j)
	}

	if s.Resolved() || songTime > s.Config.End()+windowEpsilon {
		c.finish(songTime)
		return false
	}
	return true
}

// Advance ticks with the controller's own clock.
func (c *Controller) Advance() bool {
	if !c.Phase().Running() {
		return false
	}
	return c.Tick(c.clock.Elapsed())
}

// Press judges a lane input at the clock's current reading.
// Inputs outside the active phase and on unknown lanes are ignored.
func (c *Controller) Press(lane Lane) Judgement {
	s := c.session
	if s == nil || s.Phase != PhaseActive {
		return Judgement{Lane: lane, Verdict: VerdictNone, Note: -1}
	}
	c.now = c.clock.Elapsed()
	j := s.TryHit(lane, c.songTime(c.now))
	if j.Verdict != VerdictNone {
		c.emit(j)
	}
	return j
}

// Abort ends a running session immediately. Notes still pending count as misses.
func (c *Controller) Abort() {
	if !c.Phase().Running() {
		return
	}
	c.now = c.clock.Elapsed()
	c.finish(c.songTime(c.now))
}

// Reset discards the current session and returns to idle.
// A running session is aborted first.
func (c *Controller) Reset() {
	c.Abort()
	c.session = nil
	c.result = Result{}
	c.now = 0
}

// Result returns the frozen result of the last session and whether it has ended.
func (c *Controller) Result() (Result, bool) {
	if c.session == nil || c.session.Phase != PhaseEnded {
		return Result{}, false
	}
	return c.result, true
}

// Snapshot returns a read-only copy of the session state for presentation.
func (c *Controller) Snapshot() Snapshot {
	s := c.session
	if s == nil {
		return Snapshot{Phase: PhaseIdle, Accuracy: 100}
	}
	notes := make([]Note, len(s.Notes))
	copy(notes, s.Notes)
	return Snapshot{
		Phase:      s.Phase,
		Config:     s.Config,
		SongTime:   c.songTime(c.now),
		Notes:      notes,
		Score:      s.Score,
		Combo:      s.Combo,
		MaxCombo:   s.MaxCombo,
		HitCount:   s.HitCount,
		TotalNotes: s.TotalNotes(),
		Accuracy:   s.Accuracy(),
		Perfects:   s.Perfects,
		Goods:      s.Goods,
		Misses:     s.Misses,
	}
}

func (c *Controller) songTime(clockTime float64) float64 {
	return clockTime - c.session.Config.CountIn
}

func (c *Controller) finish(songTime float64) {
	s := c.session
	for _, j := range s.AgeOutAll(songTime) {
		c.emit(j)
	}
	s.Phase = PhaseEnded
	c.result = s.Result()
	if c.listener != nil {
		c.listener.OnEnd(c.result)
	}
}

func (c *Controller) emit(j Judgement) {
	if c.listener != nil {
		c.listener.OnJudgement(j)
	}
}

// Snapshot is a point-in-time copy of a session.
type Snapshot struct {
	Phase      Phase
	Config     Config
	SongTime   float64 // Negative during the count-in
	Notes      []Note
	Score      int
	Combo      int
	MaxCombo   int
	HitCount   int
	TotalNotes int
	Accuracy   int
	Perfects   int
	Goods      int
	Misses     int
}

// CountdownRemaining returns whole seconds left in the count-in, or 0.
func (s Snapshot) CountdownRemaining() int {
	if s.Phase != PhaseCountingIn || s.SongTime >= 0 {
		return 0
	}
	return int(math.Ceil(-s.SongTime))
}
