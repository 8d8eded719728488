package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/memory-match/internal/config"
	"github.com/vovakirdan/memory-match/internal/games/memory"
	"github.com/vovakirdan/memory-match/internal/games/memory/engine"
	"github.com/vovakirdan/memory-match/internal/storage"
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Inspect or clear the saved game",
	Long: `The game is saved when you quit mid-game and cleared when the grid is
cleared. There is a single save slot shared by all modes.

Examples:
  memory save show
  memory save clear`,
}

var saveShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved game",
	Run:   runSaveShow,
}

var saveClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the saved game",
	Run:   runSaveClear,
}

func init() {
	saveShowCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML (for face symbols)")
	saveCmd.AddCommand(saveShowCmd)
	saveCmd.AddCommand(saveClearCmd)
}

func openSaveSlot() (*memory.SaveSlot, *storage.Store) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening database: %v", err)
	}
	return memory.NewSaveSlot(store, logger), store
}

func runSaveShow(_ *cobra.Command, _ []string) {
	slot, store := openSaveSlot()
	defer store.Close()

	snap, ok := slot.Snapshot()
	if !ok {
		raw, exists, err := slot.Raw()
		switch {
		case err != nil:
			fail("reading save: %v", err)
		case !exists:
			fmt.Println("No saved game.")
		default:
			// Left in place by the game; show what is there.
			fmt.Println("Saved game is unreadable and will be ignored:")
			fmt.Println()
			os.Stdout.Write(raw)
			fmt.Println()
		}
		return
	}

	cfg, err := config.LoadMemory(flagConfig)
	if err != nil {
		cfg = config.DefaultMemoryConfig()
	}

	fmt.Println(renderBoard(snap, cfg))
	out, err := yaml.Marshal(snap)
	if err != nil {
		fail("encoding save: %v", err)
	}
	os.Stdout.Write(out)
}

// renderBoard draws the saved grid: face symbols for revealed or matched
// cards, "##" for face-down ones.
func renderBoard(snap engine.Snapshot, cfg config.MemoryConfig) string {
	var b strings.Builder
	for r := range snap.Rows {
		b.WriteString("  ")
		for c := range snap.Cols {
			card := snap.Cards[r*snap.Cols+c]
			cell := "##"
			switch {
			case card.Matched:
				cell = "[" + cfg.Symbol(card.Identity) + "]"
			case card.Revealed:
				cell = " " + cfg.Symbol(card.Identity) + " "
			}
			fmt.Fprintf(&b, "%-4s", cell)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func runSaveClear(_ *cobra.Command, _ []string) {
	slot, store := openSaveSlot()
	defer store.Close()

	if err := slot.Discard(); err != nil {
		fail("clearing save: %v", err)
	}
	fmt.Println("Saved game cleared.")
}
