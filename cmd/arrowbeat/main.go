// arrowbeat is a four-lane rhythm game for the terminal.
//
// Usage:
//
//	arrowbeat list              - List available songs
//	arrowbeat play <song>       - Play a song
//	arrowbeat menu              - Pick songs and difficulty interactively
//	arrowbeat serve             - Start SSH server for remote play
//	arrowbeat scores <song>     - Show the leaderboard of a song
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible patterns
//	--leaderboard <dsn>   - Leaderboard location (default: ~/.arrowbeat/scores.db)
//	--config <path>       - Custom rhythm.yaml
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS         int
	flagSeed        int64
	flagLeaderboard string
	flagConfig      string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arrowbeat",
	Short: "arrowbeat - hit the arrows on the beat",
	Long: `arrowbeat is a terminal rhythm game. Arrows fall toward a hit line in
time with the song; press the matching direction as they cross it.

Available commands:
  list     - Show all songs
  play     - Play a specific song directly
  menu     - Interactive song and difficulty picker
  serve    - Start SSH server for remote play
  scores   - View a song's leaderboard

Leaderboard locations (--leaderboard):
  ~/.arrowbeat/scores.db                 SQLite database (default)
  sqlite:<path>                          SQLite database
  file:<path> or <path>.json             local JSON document
  https://.../documents/<collection>     remote document service

Examples:
  arrowbeat list
  arrowbeat play neon-drive
  arrowbeat play hyperlane --difficulty hard
  arrowbeat menu --leaderboard file:./scores.json
  arrowbeat serve --ssh :2222
  arrowbeat scores neon-drive`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLeaderboard, "leaderboard", "", "Leaderboard DSN (default from config, then ~/.arrowbeat/scores.db)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom rhythm.yaml")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}
