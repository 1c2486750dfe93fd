package main

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/arrowbeat/internal/config"
	"github.com/vovakirdan/arrowbeat/internal/core"
	"github.com/vovakirdan/arrowbeat/internal/leaderboard"
	"github.com/vovakirdan/arrowbeat/internal/platform/tui"
	"github.com/vovakirdan/arrowbeat/internal/registry"
)

// logger reports warnings on stderr before a TUI takes over the terminal.
var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "arrowbeat"})

// fail prints an error and exits, the way every command reports errors.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig reads rhythm.yaml and fills the song catalog.
func loadConfig() config.RhythmConfig {
	rc, warnings, err := config.LoadRhythmWarn(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	for _, w := range warnings {
		logger.Warn("using fallback configuration", "error", w)
	}
	if err := registry.Load(rc.Songs); err != nil {
		fail("%v", err)
	}
	return rc
}

// leaderboardDSN picks the flag, then the config, then the default database.
func leaderboardDSN(rc config.RhythmConfig) string {
	if flagLeaderboard != "" {
		return flagLeaderboard
	}
	if rc.Leaderboard.DSN != "" {
		return rc.Leaderboard.DSN
	}
	return filepath.Join(config.UserDir(), "scores.db")
}

// openLeaderboard opens the configured store. Returns the raw store too so
// callers can reach backend-specific features such as SQLite stats.
func openLeaderboard(rc config.RhythmConfig) (*leaderboard.Cached, leaderboard.Store, error) {
	raw, err := leaderboard.Open(leaderboardDSN(rc), leaderboard.Options{Retain: rc.Leaderboard.Retain})
	if err != nil {
		return nil, nil, err
	}
	return leaderboard.NewCached(raw), raw, nil
}

// newEnv loads configuration and the leaderboard for interactive commands.
// A leaderboard that cannot be opened is a warning: the game still works.
func newEnv() tui.Env {
	rc := loadConfig()
	env := tui.Env{
		Rhythm:     rc,
		PlayerName: playerName(),
		Music:      true,
	}
	store, _, err := openLeaderboard(rc)
	if err != nil {
		logger.Warn("could not open leaderboard, scores will not be saved", "error", err)
	} else {
		env.Store = store
	}
	return env
}

// runtimeConfig sizes the screen from the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

func playerName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
