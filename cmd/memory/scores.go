package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/memory-match/internal/registry"
	"github.com/vovakirdan/memory-match/internal/storage"
)

var flagLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores",
	Long: `Display the top scores for a mode, or a summary of every mode when no
mode is given.

Examples:
  memory scores
  memory scores memory_triples --limit 20`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of scores to show")
}

func runScores(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening database: %v", err)
	}
	defer store.Close()

	if len(args) == 0 {
		printSummary(store)
		return
	}

	mode := modeArg(args)
	game, err := registry.Create(mode)
	if err != nil {
		fail("creating game: %v", err)
	}

	scores, err := store.TopScores(mode, flagLimit)
	if err != nil {
		fail("retrieving scores: %v", err)
	}

	fmt.Printf("High Scores - %s\n", game.Title())
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'memory play %s' to set the first high score!\n", mode)
		return
	}

	fmt.Printf("  %-4s  %-10s  %-5s  %s\n", "Rank", "Score", "Grid", "Date")
	fmt.Printf("  %-4s  %-10s  %-5s  %s\n", "----", "-----", "----", "----")

	for i, entry := range scores {
		grid := "-"
		if entry.Rows > 0 {
			grid = fmt.Sprintf("%dx%d", entry.Rows, entry.Cols)
		}
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-10d  %-5s  %s\n", i+1, entry.Score, grid, dateStr)
	}
}

func printSummary(store *storage.Store) {
	stats, err := store.GetAllGamesStats()
	if err != nil {
		fail("retrieving stats: %v", err)
	}

	fmt.Println("High Scores")
	fmt.Println()
	fmt.Printf("  %-16s  %-6s  %-6s  %-8s  %s\n", "Mode", "Games", "Best", "Average", "Last played")
	fmt.Printf("  %-16s  %-6s  %-6s  %-8s  %s\n", "----", "-----", "----", "-------", "-----------")

	for _, m := range registry.List() {
		s, ok := stats[m.ID]
		if !ok {
			fmt.Printf("  %-16s  %-6d  %-6s  %-8s  %s\n", m.ID, 0, "-", "-", "never")
			continue
		}
		fmt.Printf("  %-16s  %-6d  %-6d  %-8.1f  %s\n",
			m.ID, s.GamesCount, s.HighScore, s.AvgScore, s.LastPlayed.Format("2006-01-02 15:04"))
	}
}
