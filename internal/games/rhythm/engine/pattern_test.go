package engine

import (
	"math"
	"math/rand"
	"testing"
)

// scriptedRand replays fixed values so tests can force exact patterns.
type scriptedRand struct {
	floats []float64
	lanes  []int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 1 // Never below density: no note
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.lanes) == 0 {
		return 0
	}
	v := r.lanes[0] % n
	r.lanes = r.lanes[1:]
	return v
}

func patternConfig() Config {
	return Config{
		TempoBPM:            120,
		SubdivisionsPerBeat: 2,
		StartOffset:         1.0,
		Duration:            2.0,
		PerfectWindow:       0.08,
		GoodWindow:          0.15,
		ScrollSpeed:         10,
		Density:             DefaultDensity,
	}
}

func TestGenerateDeterminism(t *testing.T) {
	cfg := patternConfig()
	cfg.Duration = 60

	a := Generate(cfg, rand.New(rand.NewSource(12345)))
	b := Generate(cfg, rand.New(rand.NewSource(12345)))

	if len(a) != len(b) {
		t.Fatalf("Determinism failed: lengths differ. Run1=%d, Run2=%d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Determinism failed at note %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerateStepTimes(t *testing.T) {
	cfg := patternConfig()
	cfg.Density = 1

	notes := Generate(cfg, rand.New(rand.NewSource(1)))

	// 120 BPM, 2 subdivisions: 0.25s per step over [1.0, 3.0) is 8 steps
	if len(notes) != 8 {
		t.Fatalf("Expected 8 notes at full density, got %d", len(notes))
	}
	for i, n := range notes {
		expected := 1.0 + float64(i)*0.25
		if math.Abs(n.Target-expected) > 1e-12 {
			t.Errorf("Note %d target = %f, expected %f", i, n.Target, expected)
		}
		if !n.Lane.Valid() {
			t.Errorf("Note %d has invalid lane %d", i, n.Lane)
		}
		if n.Status != StatusPending {
			t.Errorf("Note %d should start pending, got %s", i, n.Status)
		}
	}
}

func TestGenerateOrderedAndUnique(t *testing.T) {
	cfg := patternConfig()
	cfg.Duration = 120
	cfg.TempoBPM = 174
	cfg.SubdivisionsPerBeat = 4

	notes := Generate(cfg, rand.New(rand.NewSource(99)))
	if len(notes) == 0 {
		t.Fatal("Expected notes to be generated")
	}

	type key struct {
		lane   Lane
		target float64
	}
	seen := make(map[key]bool)
	for i, n := range notes {
		if i > 0 && n.Target <= notes[i-1].Target {
			t.Fatalf("Notes not strictly ordered at %d: %f after %f", i, n.Target, notes[i-1].Target)
		}
		k := key{n.Lane, n.Target}
		if seen[k] {
			t.Fatalf("Duplicate note in lane %s at %f", n.Lane, n.Target)
		}
		seen[k] = true
		if n.Target >= cfg.StartOffset+cfg.Duration {
			t.Errorf("Note %d at %f is past the pattern end", i, n.Target)
		}
	}
}

func TestGenerateDensity(t *testing.T) {
	tests := []struct {
		name    string
		density float64
		floats  []float64
		lanes   []int
		want    []Note
	}{
		{
			name:    "zero density",
			density: 0,
			floats:  []float64{0, 0, 0, 0, 0, 0, 0, 0},
			want:    nil,
		},
		{
			name:    "scripted steps",
			density: 0.7,
			floats:  []float64{0.1, 0.9, 0.69, 0.7, 0.0, 0.99, 0.5, 0.8},
			lanes:   []int{3, 1, 0, 2},
			want: []Note{
				{Lane: LaneRight, Target: 1.0},
				{Lane: LaneDown, Target: 1.5},
				{Lane: LaneLeft, Target: 2.0},
				{Lane: LaneUp, Target: 2.5},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := patternConfig()
			cfg.Density = tc.density
			notes := Generate(cfg, &scriptedRand{floats: tc.floats, lanes: tc.lanes})

			if len(notes) != len(tc.want) {
				t.Fatalf("Generate() produced %d notes, expected %d: %+v", len(notes), len(tc.want), notes)
			}
			for i := range notes {
				if notes[i].Lane != tc.want[i].Lane || math.Abs(notes[i].Target-tc.want[i].Target) > 1e-12 {
					t.Errorf("Note %d = %+v, expected %+v", i, notes[i], tc.want[i])
				}
			}
		})
	}
}

func TestGenerateEmptyPatternAccuracy(t *testing.T) {
	cfg := patternConfig()
	cfg.Density = 0
	s := NewSession(cfg, Generate(cfg, rand.New(rand.NewSource(7))))

	if s.TotalNotes() != 0 {
		t.Fatalf("Expected no notes, got %d", s.TotalNotes())
	}
	if s.Accuracy() != 100 {
		t.Errorf("Accuracy() with no notes = %d, expected 100", s.Accuracy())
	}
}
