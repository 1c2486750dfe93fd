// Package rhythm implements the four-lane arrow game on top of the timing
// engine. Arrows fall toward a hit line in time with the song's tempo and the
// player presses the matching direction as they cross it.
package rhythm

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/arrowbeat/internal/audio"
	"github.com/vovakirdan/arrowbeat/internal/config"
	"github.com/vovakirdan/arrowbeat/internal/core"
	"github.com/vovakirdan/arrowbeat/internal/games/rhythm/engine"
)

// How long presentation effects stay on screen, in seconds.
const (
	PressGlow     = 0.12
	JudgementHold = 0.6
)

// flash is the last event shown on a lane.
type flash struct {
	verdict engine.Verdict
	offset  float64
	at      float64 // song time
}

// Game implements core.Game for one song at one difficulty.
type Game struct {
	song       config.SongConfig
	difficulty config.DifficultyPreset
	session    engine.Config
	runtime    core.RuntimeConfig

	clock   engine.Clock
	ctrl    *engine.Controller
	forced  []engine.Note // fixed pattern instead of a generated one
	player  *audio.Player
	seedGen func() int64

	pressedAt [engine.LaneCount]float64 // song time of the last press per lane
	flashes   [engine.LaneCount]flash
	last      flash // most recent judgement, shown under the hit line

	result engine.Result
	ended  bool
}

var _ core.Game = (*Game)(nil)

// Option customizes a Game.
type Option func(*Game)

// WithClock replaces the default monotonic clock.
func WithClock(c engine.Clock) Option {
	return func(g *Game) { g.clock = c }
}

// WithPattern plays the given notes instead of generating a pattern.
func WithPattern(notes []engine.Note) Option {
	return func(g *Game) { g.forced = append([]engine.Note(nil), notes...) }
}

// SessionConfig builds the engine configuration for a song at a difficulty.
func SessionConfig(rc config.RhythmConfig, song config.SongConfig, preset config.DifficultyPreset) (engine.Config, error) {
	w, err := rc.Window(preset)
	if err != nil {
		return engine.Config{}, err
	}
	cfg := engine.Config{
		TempoBPM:            song.BPM,
		SubdivisionsPerBeat: rc.SubdivisionsFor(song),
		StartOffset:         song.StartOffset,
		Duration:            song.Duration,
		PerfectWindow:       w.PerfectWindow,
		GoodWindow:          w.GoodWindow,
		ScrollSpeed:         w.ScrollSpeed,
		Density:             rc.Pattern.Density,
		CountIn:             rc.Pattern.CountIn,
	}
	if err := cfg.Validate(); err != nil {
		return engine.Config{}, fmt.Errorf("rhythm: song %q: %w", song.ID, err)
	}
	return cfg, nil
}

// New creates a game for song. The configuration is validated here so a bad
// song never reaches Reset.
func New(rc config.RhythmConfig, song config.SongConfig, preset config.DifficultyPreset, opts ...Option) (*Game, error) {
	session, err := SessionConfig(rc, song, preset)
	if err != nil {
		return nil, err
	}
	g := &Game{
		song:       song,
		difficulty: preset,
		session:    session,
		seedGen:    func() int64 { return time.Now().UnixNano() },
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.clock == nil {
		g.clock = engine.NewMonotonicClock()
	}
	return g, nil
}

// AttachMusic plays path in sync with the session and drives the clock from
// the playback position. On error the game keeps its current clock.
func (g *Game) AttachMusic(path string) error {
	p, err := audio.Open(path)
	if err != nil {
		return err
	}
	if g.player != nil {
		g.player.Close()
	}
	g.player = p
	g.clock = audio.NewPlaybackClock(p, time.Duration(g.session.CountIn*float64(time.Second)))
	return nil
}

// ID returns the song ID, which is also the leaderboard board.
func (g *Game) ID() string {
	return g.song.ID
}

// Title returns the song title.
func (g *Game) Title() string {
	if g.song.Title == "" {
		return g.song.ID
	}
	return g.song.Title
}

// Song returns the song being played.
func (g *Game) Song() config.SongConfig {
	return g.song
}

// Difficulty returns the difficulty preset.
func (g *Game) Difficulty() config.DifficultyPreset {
	return g.difficulty
}

// Reset starts a fresh session with a new pattern.
func (g *Game) Reset(cfg core.RuntimeConfig) error {
	g.runtime = cfg
	if g.ctrl != nil {
		g.ctrl.Reset()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = g.seedGen()
	}
	g.ctrl = engine.NewController(g.clock, rand.New(rand.NewSource(seed)))
	g.ctrl.SetListener(g)

	g.pressedAt = [engine.LaneCount]float64{}
	for i := range g.pressedAt {
		g.pressedAt[i] = -1e9
	}
	g.flashes = [engine.LaneCount]flash{}
	g.last = flash{}
	g.result = engine.Result{}
	g.ended = false

	if g.forced != nil {
		return g.ctrl.StartWithNotes(g.session, g.forced)
	}
	return g.ctrl.Start(g.session)
}

// Step reads the clock and advances the session by one frame.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.ctrl == nil {
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionQuit) || in.Has(core.ActionBack) {
		g.ctrl.Abort()
	}
	running := g.ctrl.Advance()
	return core.StepResult{State: g.State(), Running: running}
}

// Press judges a lane action immediately at the clock's current reading.
func (g *Game) Press(a core.Action) {
	lane, ok := a.Lane()
	if !ok || g.ctrl == nil {
		return
	}
	j := g.ctrl.Press(engine.Lane(lane))
	if g.ctrl.Phase() == engine.PhaseActive {
		g.pressedAt[lane] = j.Time
	}
}

// OnJudgement records a judgement for the lane flash and judgement text.
func (g *Game) OnJudgement(j engine.Judgement) {
	if !j.Lane.Valid() {
		return
	}
	f := flash{verdict: j.Verdict, offset: j.Offset, at: j.Time}
	g.flashes[j.Lane] = f
	g.last = f
}

// OnEnd freezes the result and stops the music.
func (g *Game) OnEnd(r engine.Result) {
	g.result = r
	g.ended = true
	if pc, ok := g.clock.(*audio.PlaybackClock); ok {
		pc.Stop()
	}
}

// Result returns the frozen result once the session has ended.
func (g *Game) Result() (engine.Result, bool) {
	return g.result, g.ended
}

// Snapshot returns the engine state for presentation.
func (g *Game) Snapshot() engine.Snapshot {
	if g.ctrl == nil {
		return engine.Snapshot{Phase: engine.PhaseIdle, Accuracy: 100}
	}
	return g.ctrl.Snapshot()
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	s := g.Snapshot()
	return core.GameState{
		Score:    s.Score,
		Combo:    s.Combo,
		MaxCombo: s.MaxCombo,
		Accuracy: s.Accuracy,
		GameOver: g.ended,
	}
}

// Close aborts the session and releases the audio device.
func (g *Game) Close() error {
	if g.ctrl != nil {
		g.ctrl.Abort()
	}
	if pc, ok := g.clock.(*audio.PlaybackClock); ok {
		pc.Stop()
	}
	if g.player != nil {
		err := g.player.Close()
		g.player = nil
		return err
	}
	return nil
}
