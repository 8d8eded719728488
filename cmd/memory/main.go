// memory is a terminal memory match game: flip cards and clear the grid by
// finding every group of identical faces.
//
// Usage:
//
//	memory list              - List available modes
//	memory play [mode]       - Play a mode, resuming the saved game if any
//	memory menu              - Start menu to pick modes and grids interactively
//	memory scores [mode]     - Show high scores
//	memory save show|clear   - Inspect or drop the saved game
//	memory config            - Print the effective configuration
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 30)
//	--seed <value>      - Set RNG seed for reproducible deals
//	--db <path>         - Set database path (default: ~/.memory/memory.db)
//	--log-file <path>   - Write logs to a file
//	--debug             - Enable debug logging
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/memory-match/internal/games/memory"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagLogFile string
	flagDebug   bool
)

var (
	logger  = log.New(io.Discard)
	logFile *os.File
)

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "memory",
	Short: "Memory - Match cards in your terminal",
	Long: `Memory is a card matching game for the terminal. Flip cards two at a
time (three in triples mode) and clear the grid by finding every group of
identical faces. Consecutive matches build a combo multiplier.

Available commands:
  list     - Show all available modes
  play     - Play a mode directly
  menu     - Interactive mode and grid picker
  scores   - View high scores
  save     - Inspect or clear the saved game
  config   - Print the effective configuration

Examples:
  memory play
  memory play memory_triples --new
  memory play --difficulty hard --seed 42
  memory menu
  memory scores`,
	PersistentPreRun: setupLogger,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.memory/memory.db", "Path to scores and saves database")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(configCmd)
}

// setupLogger builds the logger shared by the game and the CLI.
// Interactive commands stay silent unless --log-file is set, since
// anything written to the terminal would corrupt the alternate screen.
func setupLogger(cmd *cobra.Command, _ []string) {
	var w io.Writer = io.Discard
	switch {
	case flagLogFile != "":
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
			break
		}
		logFile = f
		w = f
	case !isInteractive(cmd):
		w = os.Stderr
	}

	logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "memory",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	memory.SetLogger(logger)
}

func isInteractive(cmd *cobra.Command) bool {
	return cmd == playCmd || cmd == menuCmd
}
