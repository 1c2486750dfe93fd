package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arrowbeat/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a song and difficulty picker",
	Long: `Start arrowbeat in interactive menu mode.

Use arrow keys or j/k to pick a song, left/right to pick a difficulty and
Enter to play. After a song you can enter a name and a short message for the
leaderboard, then return to the menu to play again.

Controls:
  Up/Down/j/k     - Choose song
  Left/Right/h/l  - Choose difficulty
  Enter/Space     - Play
  Tab             - Scoreboard
  Q               - Quit

Examples:
  arrowbeat menu
  arrowbeat menu --fps 30
  arrowbeat menu --leaderboard file:./scores.json`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	env := newEnv()
	if env.Store != nil {
		defer env.Store.Close()
	}

	cfg := runtimeConfig()
	preset := env.Rhythm.DefaultPreset()

	// Menu loop
	for {
		// Show menu and get selection
		menuResult, err := tui.RunMenu(preset, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Keep size changes and the chosen difficulty for the next round
		cfg = menuResult.Config
		preset = menuResult.Difficulty

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(env, menuResult.SongID, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
				break
			}
			if !goBack {
				break
			}
			continue
		}

		goBack, runErr := tui.Run(env, menuResult.SongID, menuResult.Difficulty, cfg)
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
			break
		}
		if !goBack {
			break
		}
	}
}
