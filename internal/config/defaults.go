package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/rhythm.yaml
var defaultRhythmYAML []byte

// DefaultRhythmConfig returns the default rhythm configuration.
func DefaultRhythmConfig() RhythmConfig {
	return RhythmConfig{
		Pattern: PatternConfig{
			Density:      0.72,
			CountIn:      3.0,
			Subdivisions: 2,
		},
		Difficulty: DifficultyConfig{
			Default: string(DifficultyNormal),
			Presets: map[DifficultyPreset]WindowPreset{
				DifficultyEasy:   {PerfectWindow: 0.10, GoodWindow: 0.22, ScrollSpeed: 12},
				DifficultyNormal: {PerfectWindow: 0.08, GoodWindow: 0.15, ScrollSpeed: 16},
				DifficultyHard:   {PerfectWindow: 0.05, GoodWindow: 0.10, ScrollSpeed: 22},
			},
		},
		Songs: []SongConfig{
			{ID: "neon-drive", Title: "Neon Drive", Artist: "arrowbeat", BPM: 120, StartOffset: 1.0, Duration: 45},
			{ID: "midnight-run", Title: "Midnight Run", Artist: "arrowbeat", BPM: 140, StartOffset: 1.0, Duration: 50},
			{ID: "slow-burn", Title: "Slow Burn", Artist: "arrowbeat", BPM: 90, StartOffset: 1.5, Duration: 40},
			{ID: "hyperlane", Title: "Hyperlane", Artist: "arrowbeat", BPM: 170, Subdivisions: 1, StartOffset: 1.0, Duration: 60},
		},
		Leaderboard: LeaderboardConfig{
			DSN:     "",
			Limit:   10,
			Retain:  100,
			Timeout: 5 * time.Second,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultRhythmYAML
}
