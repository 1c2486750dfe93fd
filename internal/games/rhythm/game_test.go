package rhythm

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/arrowbeat/internal/config"
	"github.com/vovakirdan/arrowbeat/internal/core"
	"github.com/vovakirdan/arrowbeat/internal/games/rhythm/engine"
)

var testSong = config.SongConfig{
	ID:          "test-song",
	Title:       "Test Song",
	BPM:         120,
	StartOffset: 1.0,
	Duration:    4.0,
}

func testConfig() config.RhythmConfig {
	rc := config.DefaultRhythmConfig()
	rc.Pattern.CountIn = 1.0
	return rc
}

func newTestGame(t *testing.T, notes []engine.Note) (*Game, *engine.ManualClock) {
	t.Helper()
	clock := &engine.ManualClock{}
	opts := []Option{WithClock(clock)}
	if notes != nil {
		opts = append(opts, WithPattern(notes))
	}
	g, err := New(testConfig(), testSong, config.DifficultyNormal, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := g.Reset(core.RuntimeConfig{ScreenW: 60, ScreenH: 24, Seed: 7}); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	return g, clock
}

func TestSessionConfig(t *testing.T) {
	cfg, err := SessionConfig(testConfig(), testSong, config.DifficultyHard)
	if err != nil {
		t.Fatalf("SessionConfig() error = %v", err)
	}
	if cfg.TempoBPM != 120 || cfg.SubdivisionsPerBeat != 2 {
		t.Errorf("tempo = %v/%d, expected 120/2", cfg.TempoBPM, cfg.SubdivisionsPerBeat)
	}
	if cfg.PerfectWindow != 0.05 || cfg.GoodWindow != 0.10 {
		t.Errorf("windows = %v/%v, expected hard preset", cfg.PerfectWindow, cfg.GoodWindow)
	}
	if cfg.CountIn != 1.0 || cfg.Density != 0.72 {
		t.Errorf("count-in/density = %v/%v", cfg.CountIn, cfg.Density)
	}
}

func TestNewRejectsBadSong(t *testing.T) {
	bad := testSong
	bad.BPM = 0
	_, err := New(testConfig(), bad, config.DifficultyNormal)
	if !errors.Is(err, engine.ErrInvalidConfig) {
		t.Errorf("New() error = %v, expected ErrInvalidConfig", err)
	}

	_, err = New(testConfig(), testSong, "insane")
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("New(unknown preset) error = %v, expected config.ErrInvalid", err)
	}
}

func TestGameDeterminism(t *testing.T) {
	g1, _ := newTestGame(t, nil)
	g2, _ := newTestGame(t, nil)

	n1, n2 := g1.Snapshot().Notes, g2.Snapshot().Notes
	if len(n1) == 0 || len(n1) != len(n2) {
		t.Fatalf("pattern sizes %d and %d", len(n1), len(n2))
	}
	for i := range n1 {
		if n1[i].Lane != n2[i].Lane || n1[i].Target != n2[i].Target {
			t.Fatalf("note %d differs: %+v vs %+v", i, n1[i], n2[i])
		}
	}
}

func TestPressJudgesImmediately(t *testing.T) {
	g, clock := newTestGame(t, []engine.Note{
		{Lane: engine.LaneUp, Target: 1.5},
		{Lane: engine.LaneLeft, Target: 2.5},
	})

	// Count-in: presses are ignored.
	clock.Set(0.5)
	g.Step(core.NewInputFrame())
	g.Press(core.ActionLaneUp)
	if s := g.State(); s.Score != 0 {
		t.Fatalf("score during count-in = %d, expected 0", s.Score)
	}

	// Song time 1.52 (clock 2.52): perfect on Up without waiting for a tick.
	clock.Set(2.0)
	g.Step(core.NewInputFrame())
	clock.Set(2.52)
	g.Press(core.ActionLaneUp)
	if s := g.State(); s.Score != engine.PerfectPoints || s.Combo != 1 {
		t.Errorf("after perfect: score=%d combo=%d", s.Score, s.Combo)
	}
	if g.last.verdict != engine.VerdictPerfect {
		t.Errorf("last verdict = %v, expected Perfect", g.last.verdict)
	}

	// Non-lane actions never judge.
	g.Press(core.ActionBack)
	if s := g.State(); s.Score != engine.PerfectPoints {
		t.Errorf("back changed score to %d", s.Score)
	}
}

func TestGameEndsAndFreezesResult(t *testing.T) {
	g, clock := newTestGame(t, []engine.Note{{Lane: engine.LaneDown, Target: 1.5}})

	clock.Set(1.0)
	g.Step(core.NewInputFrame())
	clock.Set(2.6) // song time 1.6: good
	g.Press(core.ActionLaneDown)

	clock.Set(2.7)
	res := g.Step(core.NewInputFrame())
	if res.Running {
		t.Error("Step() Running = true after the last note resolved")
	}
	if !res.State.GameOver {
		t.Error("GameOver = false after the session ended")
	}

	r, ok := g.Result()
	if !ok {
		t.Fatal("Result() not available")
	}
	if r.Score != engine.GoodPoints || r.Goods != 1 || r.Accuracy != 100 {
		t.Errorf("Result() = %+v", r)
	}

	// Later presses do not change the frozen result.
	g.Press(core.ActionLaneDown)
	if r2, _ := g.Result(); r2 != r {
		t.Errorf("result changed after end: %+v", r2)
	}
}

func TestQuitAbortsSession(t *testing.T) {
	g, clock := newTestGame(t, []engine.Note{{Lane: engine.LaneRight, Target: 3.0}})

	clock.Set(1.5)
	g.Step(core.NewInputFrame())

	in := core.NewInputFrame()
	in.Set(core.ActionBack)
	res := g.Step(in)
	if res.Running {
		t.Error("Step(back) kept the session running")
	}
	r, ok := g.Result()
	if !ok || r.Misses != 1 {
		t.Errorf("Result() = %+v, %v; expected one miss", r, ok)
	}
}

func TestResetRestartsCleanly(t *testing.T) {
	g, clock := newTestGame(t, []engine.Note{{Lane: engine.LaneLeft, Target: 1.0}})

	clock.Set(2.0)
	g.Press(core.ActionLaneLeft)
	clock.Set(5.0)
	g.Step(core.NewInputFrame())
	if _, ok := g.Result(); !ok {
		t.Fatal("session did not end")
	}

	if err := g.Reset(core.RuntimeConfig{Seed: 7}); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if _, ok := g.Result(); ok {
		t.Error("Result() still available after Reset")
	}
	if s := g.State(); s.Score != 0 || s.GameOver {
		t.Errorf("State() after Reset = %+v", s)
	}
	if p := g.Snapshot().Phase; p != engine.PhaseCountingIn {
		t.Errorf("phase after Reset = %v, expected CountingIn", p)
	}
}

func TestRenderPlayfield(t *testing.T) {
	g, clock := newTestGame(t, []engine.Note{{Lane: engine.LaneRight, Target: 2.0}})
	screen := core.NewScreen(60, 24)

	clock.Set(2.5) // song time 1.5, note 0.5s above the hit line
	g.Step(core.NewInputFrame())
	g.Render(screen)

	out := screen.String()
	if !strings.Contains(out, "Test Song [normal]") {
		t.Error("HUD title missing")
	}
	hit := HitLine(24)
	if !strings.ContainsRune(screen.Row(hit), '←') || !strings.ContainsRune(screen.Row(hit), '→') {
		t.Errorf("receptors missing on hit line: %q", screen.Row(hit))
	}

	// ScrollSpeed 16 rows/s on normal: 0.5s early is 8 rows above.
	left := (60 - (LaneWidth*engine.LaneCount + 1)) / 2
	x := laneCenter(left, engine.LaneRight)
	if got := screen.Get(x, hit-8); got != '→' {
		t.Errorf("note cell = %q, expected '→' at row %d", got, hit-8)
	}
	if got := screen.GetCell(x, hit-8).Color; got != laneColors[engine.LaneRight] {
		t.Errorf("note color = %d, expected lane color", got)
	}
}

func TestRenderCountdownAndResults(t *testing.T) {
	g, clock := newTestGame(t, []engine.Note{{Lane: engine.LaneUp, Target: 1.0}})
	screen := core.NewScreen(60, 24)

	clock.Set(0.2)
	g.Step(core.NewInputFrame())
	g.Render(screen)
	if !strings.Contains(screen.String(), "Get ready") {
		t.Error("countdown overlay missing during count-in")
	}

	clock.Set(10)
	g.Step(core.NewInputFrame())
	g.Render(screen)
	if !strings.Contains(screen.String(), "SONG COMPLETE") {
		t.Error("results box missing after the end")
	}
}
