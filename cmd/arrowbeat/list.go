package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arrowbeat/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available songs",
	Long:  `Shows the songs in the catalog, from the embedded defaults or --config.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	loadConfig()
	songs := registry.List()

	if len(songs) == 0 {
		fmt.Println("No songs available.")
		return
	}

	fmt.Println("Available songs:")
	fmt.Println()

	// Calculate column widths
	maxIDLen, maxTitleLen := 2, 5 // "ID", "Title" headers
	for _, s := range songs {
		maxIDLen = max(maxIDLen, len(s.ID))
		maxTitleLen = max(maxTitleLen, len(s.Title))
	}

	// Print header
	fmt.Printf("  %-*s  %-*s  %5s  %s\n", maxIDLen, "ID", maxTitleLen, "Title", "BPM", "Artist")
	fmt.Printf("  %-*s  %-*s  %5s  %s\n", maxIDLen, "--", maxTitleLen, "-----", "---", "------")

	// Print songs
	for _, s := range songs {
		fmt.Printf("  %-*s  %-*s  %5.0f  %s\n", maxIDLen, s.ID, maxTitleLen, s.Title, s.BPM, s.Artist)
	}

	fmt.Println()
	fmt.Println("Run 'arrowbeat play <id>' to play a song.")
}
