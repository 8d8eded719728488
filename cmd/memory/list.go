package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/memory-match/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available modes",
	Long:  `Shows a list of all registered game modes.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	modes := registry.List()

	if len(modes) == 0 {
		fmt.Println("No modes available.")
		return
	}

	fmt.Println("Available modes:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, m := range modes {
		if len(m.ID) > maxIDLen {
			maxIDLen = len(m.ID)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")

	for _, m := range modes {
		fmt.Printf("  %-*s  %s\n", maxIDLen, m.ID, m.Title)
	}

	fmt.Println()
	fmt.Println("Run 'memory play <id>' to play a mode.")
}
