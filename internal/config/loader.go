package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when a configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("config: %w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// LoadRhythm loads the rhythm game configuration.
// Search order: customPath -> ~/.arrowbeat/configs/rhythm.yaml -> ./configs/rhythm.yaml -> embedded default
func LoadRhythm(customPath string) (RhythmConfig, error) {
	cfg, _, err := LoadRhythmWarn(customPath)
	return cfg, err
}

// LoadRhythmWarn is LoadRhythm but also reports config files that were found
// and skipped because they could not be parsed or failed validation.
func LoadRhythmWarn(customPath string) (RhythmConfig, []error, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return RhythmConfig{}, nil, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return RhythmConfig{}, nil, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil, nil
	}

	var warnings []error
	candidates := []string{userConfigPath("rhythm.yaml"), filepath.Join("configs", "rhythm.yaml")}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		cfg, err := parse(data)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("skipping %s: %w", path, err))
			continue
		}
		return cfg, warnings, nil
	}

	// Use embedded default YAML
	cfg, err := parse(defaultRhythmYAML)
	if err != nil {
		return DefaultRhythmConfig(), warnings, nil // Fallback to hardcoded if embed fails
	}
	return cfg, warnings, nil
}

// parse decodes YAML on top of the hardcoded defaults so omitted sections
// keep their default values, then validates the result.
func parse(data []byte) (RhythmConfig, error) {
	cfg := DefaultRhythmConfig()
	cfg.Songs = nil
	cfg.Difficulty.Presets = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RhythmConfig{}, err
	}
	if len(cfg.Songs) == 0 {
		cfg.Songs = DefaultRhythmConfig().Songs
	}
	if len(cfg.Difficulty.Presets) == 0 {
		cfg.Difficulty.Presets = DefaultRhythmConfig().Difficulty.Presets
	}
	if err := cfg.Validate(); err != nil {
		return RhythmConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	dir := UserDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "configs", filename)
}

// UserDir returns ~/.arrowbeat, or empty if home is unavailable.
func UserDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arrowbeat")
}

// ParsePreset maps a difficulty name to a preset.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", name)
	}
}

// Validate checks the configuration for values the game cannot run with.
func (c RhythmConfig) Validate() error {
	if c.Pattern.Density < 0 || c.Pattern.Density > 1 {
		return invalidf("pattern.density %.2f outside [0, 1]", c.Pattern.Density)
	}
	if c.Pattern.CountIn < 0 {
		return invalidf("pattern.count_in must not be negative")
	}
	if c.Pattern.Subdivisions <= 0 {
		return invalidf("pattern.subdivisions must be positive")
	}

	if _, err := ParsePreset(c.DefaultPreset().String()); err != nil {
		return invalidf("difficulty.default %q is not a preset", c.Difficulty.Default)
	}
	for _, p := range Presets() {
		w, ok := c.Difficulty.Presets[p]
		if !ok {
			return invalidf("difficulty preset %q missing", p)
		}
		if w.PerfectWindow < 0 || w.PerfectWindow > w.GoodWindow {
			return invalidf("preset %q: need 0 <= perfect_window <= good_window", p)
		}
		if w.ScrollSpeed <= 0 {
			return invalidf("preset %q: scroll_speed must be positive", p)
		}
	}

	seen := make(map[string]bool, len(c.Songs))
	for i, s := range c.Songs {
		if s.ID == "" {
			return invalidf("song %d has no id", i)
		}
		if seen[s.ID] {
			return invalidf("duplicate song id %q", s.ID)
		}
		seen[s.ID] = true
		if s.BPM <= 0 {
			return invalidf("song %q: bpm must be positive", s.ID)
		}
		if s.Duration <= 0 {
			return invalidf("song %q: duration must be positive", s.ID)
		}
		if s.StartOffset < 0 || s.Subdivisions < 0 {
			return invalidf("song %q: start_offset and subdivisions must not be negative", s.ID)
		}
	}

	if c.Leaderboard.Limit <= 0 {
		return invalidf("leaderboard.limit must be positive")
	}
	if c.Leaderboard.Retain < 0 {
		return invalidf("leaderboard.retain must not be negative")
	}
	if c.Leaderboard.Timeout <= 0 {
		return invalidf("leaderboard.timeout must be positive")
	}
	return nil
}

// String returns the preset name.
func (p DifficultyPreset) String() string {
	return string(p)
}
