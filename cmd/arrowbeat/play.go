package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arrowbeat/internal/config"
	"github.com/vovakirdan/arrowbeat/internal/platform/tui"
	"github.com/vovakirdan/arrowbeat/internal/registry"
)

var (
	flagDifficulty string
	flagMusic      bool
)

var playCmd = &cobra.Command{
	Use:   "play <song>",
	Short: "Play a song",
	Long: `Start playing the specified song.

Controls:
  Left/Down/Up/Right  - Hit the matching lane
  D/F/J/K             - Same lanes on the home row
  Esc/B               - Leave the song (the result is kept)
  R                   - Retry (on the results screen)
  Q/Ctrl+C            - Quit
  Ctrl+S              - Save a screenshot

Difficulty options:
  easy   - Wide timing windows, slow scroll
  normal - Default windows
  hard   - Tight windows, fast scroll

Examples:
  arrowbeat play neon-drive
  arrowbeat play slow-burn --difficulty easy
  arrowbeat play hyperlane --difficulty hard --seed 42
  arrowbeat play neon-drive --music=false`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().BoolVar(&flagMusic, "music", true, "Play the song's music file if it has one")
}

func runPlay(cmd *cobra.Command, args []string) {
	songID := args[0]
	env := newEnv()
	env.Music = flagMusic
	if env.Store != nil {
		defer env.Store.Close()
	}

	// Check if song exists
	if !registry.Exists(songID) {
		fmt.Fprintf(os.Stderr, "Error: unknown song %q\n", songID)
		fmt.Fprintln(os.Stderr, "Run 'arrowbeat list' to see available songs.")
		os.Exit(1)
	}

	preset := env.Rhythm.DefaultPreset()
	if flagDifficulty != "" {
		p, err := config.ParsePreset(flagDifficulty)
		if err != nil {
			fail("%v", err)
		}
		preset = p
	}

	if _, err := tui.Run(env, songID, preset, runtimeConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}
