// Package config provides YAML-based configuration loading for songs,
// difficulty presets and the leaderboard.
package config

import "time"

// RhythmConfig contains all configuration for the rhythm game.
type RhythmConfig struct {
	Pattern     PatternConfig     `yaml:"pattern"`
	Difficulty  DifficultyConfig  `yaml:"difficulty"`
	Songs       []SongConfig      `yaml:"songs"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
}

// PatternConfig defines how note patterns are generated.
type PatternConfig struct {
	Density      float64 `yaml:"density"`      // Probability of a note on each step (0.0 - 1.0)
	CountIn      float64 `yaml:"count_in"`     // Seconds of countdown before notes are judged
	Subdivisions int     `yaml:"subdivisions"` // Steps per beat when a song does not override it
}

// DifficultyConfig holds the named timing presets.
type DifficultyConfig struct {
	Default string                            `yaml:"default"`
	Presets map[DifficultyPreset]WindowPreset `yaml:"presets"`
}

// WindowPreset is a set of tolerance windows and scroll speed.
type WindowPreset struct {
	PerfectWindow float64 `yaml:"perfect_window"` // Seconds either side of the target
	GoodWindow    float64 `yaml:"good_window"`    // Seconds either side of the target
	ScrollSpeed   float64 `yaml:"scroll_speed"`   // Rows per second
}

// SongConfig describes one playable song.
type SongConfig struct {
	ID           string  `yaml:"id"`
	Title        string  `yaml:"title"`
	Artist       string  `yaml:"artist"`
	BPM          float64 `yaml:"bpm"`
	Subdivisions int     `yaml:"subdivisions"` // 0 uses pattern.subdivisions
	StartOffset  float64 `yaml:"start_offset"` // Seconds before the first possible note
	Duration     float64 `yaml:"duration"`     // Seconds of notes after start_offset
	Music        string  `yaml:"music"`        // Optional audio file (mp3, wav, ogg)
}

// LeaderboardConfig defines where scores are kept.
type LeaderboardConfig struct {
	DSN     string        `yaml:"dsn"`     // sqlite:<path>, file:<path> or http(s)://...
	Limit   int           `yaml:"limit"`   // Entries shown on the scoreboard
	Retain  int           `yaml:"retain"`  // Entries kept per song (0 = unlimited)
	Timeout time.Duration `yaml:"timeout"` // Per-request timeout for submit and fetch
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// Presets lists the difficulty presets in menu order.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard}
}

// SubdivisionsFor returns the song's subdivisions, falling back to the pattern default.
func (c RhythmConfig) SubdivisionsFor(song SongConfig) int {
	if song.Subdivisions > 0 {
		return song.Subdivisions
	}
	return c.Pattern.Subdivisions
}

// Window returns the timing preset for the given difficulty.
func (c RhythmConfig) Window(preset DifficultyPreset) (WindowPreset, error) {
	w, ok := c.Difficulty.Presets[preset]
	if !ok {
		return WindowPreset{}, invalidf("no preset %q", preset)
	}
	return w, nil
}

// DefaultPreset returns the configured default difficulty.
func (c RhythmConfig) DefaultPreset() DifficultyPreset {
	if c.Difficulty.Default == "" {
		return DifficultyNormal
	}
	return DifficultyPreset(c.Difficulty.Default)
}
