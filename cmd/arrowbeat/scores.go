package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arrowbeat/internal/registry"
	"github.com/vovakirdan/arrowbeat/internal/storage" // also registers the sqlite leaderboard driver
)

var (
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores <song>",
	Short: "Show the leaderboard of a song",
	Long: `Display the top entries for the specified song.

With the SQLite backend, play statistics are shown as well and --clear
removes every entry of the song.

Examples:
  arrowbeat scores neon-drive
  arrowbeat scores neon-drive --limit 25
  arrowbeat scores hyperlane --leaderboard file:./scores.json`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 0, "Entries to show (default from config)")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all entries of the song (SQLite only)")
}

func runScores(cmd *cobra.Command, args []string) {
	songID := args[0]
	rc := loadConfig()

	song, err := registry.Get(songID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'arrowbeat list' to see available songs.")
		os.Exit(1)
	}

	store, raw, err := openLeaderboard(rc)
	if err != nil {
		fail("opening leaderboard: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), rc.Leaderboard.Timeout)
	defer cancel()

	db, isSQLite := raw.(*storage.Store)
	if flagScoresClear {
		if !isSQLite {
			fail("--clear needs the SQLite leaderboard")
		}
		if err := db.ClearBoard(ctx, songID); err != nil {
			fail("%v", err)
		}
		fmt.Printf("Cleared leaderboard for %s\n", song.Title)
		return
	}

	limit := flagScoresLimit
	if limit <= 0 {
		limit = rc.Leaderboard.Limit
	}
	entries, err := store.FetchRanked(ctx, songID, limit)
	if err != nil {
		fail("retrieving scores: %v", err)
	}

	fmt.Printf("High Scores - %s\n", song.Title)
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'arrowbeat play %s' to set the first high score!\n", songID)
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-12s  %-8s  %-4s  %-5s  %-6s  %-16s  %s\n",
		"Rank", "Name", "Score", "Acc", "Combo", "Diff", "Date", "Message")
	fmt.Printf("  %-4s  %-12s  %-8s  %-4s  %-5s  %-6s  %-16s  %s\n",
		"----", "----", "-----", "---", "-----", "----", "----", "-------")

	for i, e := range entries {
		fmt.Printf("  %-4d  %-12s  %-8d  %3d%%  %-5d  %-6s  %-16s  %s\n",
			i+1, e.DisplayName, e.Score, e.Accuracy, e.MaxCombo, e.Difficulty,
			e.SubmittedAt.Local().Format("2006-01-02 15:04"), e.Message)
	}

	if !isSQLite {
		return
	}
	stats, err := db.BoardStats(ctx, songID)
	if err != nil {
		logger.Warn("could not load stats", "error", err)
		return
	}
	fmt.Println()
	fmt.Printf("Plays: %d  Best: %d  Average: %.0f  Avg accuracy: %.0f%%  Best combo: %d\n",
		stats.Plays, stats.HighScore, stats.AvgScore, stats.AvgAcc, stats.BestCombo)
}
