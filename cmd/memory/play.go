package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/memory-match/internal/config"
	"github.com/vovakirdan/memory-match/internal/games/memory"
	"github.com/vovakirdan/memory-match/internal/platform/tui"
	"github.com/vovakirdan/memory-match/internal/registry"
)

var (
	flagConfig     string
	flagDifficulty string
	flagRows       int
	flagCols       int
	flagGroupSize  int
	flagNew        bool
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode (default: memory)",
	Long: `Start playing the given mode. A game saved on quit is resumed unless
--new is given.

Controls:
  Arrows/WASD/HJKL - Move the cursor
  Space/Enter      - Flip the card under the cursor
  P/Esc            - Pause
  R                - New game
  Q/Ctrl+C         - Save and quit
  ?                - More keys

Difficulty options:
  easy    - 3x4 pairs, slow hide
  normal  - 4x4 pairs
  hard    - 6x6 pairs, quick hide
  triples - 4x6 in groups of three

Examples:
  memory play
  memory play memory_triples
  memory play --difficulty hard
  memory play --rows 4 --cols 5 --new
  memory play --config ./my-memory.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	addConfigFlags(playCmd)
	playCmd.Flags().BoolVar(&flagNew, "new", false, "Start a new game instead of resuming the saved one")
}

// addConfigFlags registers the flags that shape the effective configuration.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	cmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, triples")
	cmd.Flags().IntVar(&flagRows, "rows", 0, "Grid rows (overrides config and preset)")
	cmd.Flags().IntVar(&flagCols, "cols", 0, "Grid columns (overrides config and preset)")
	cmd.Flags().IntVar(&flagGroupSize, "group-size", 0, "Cards per matching group (overrides config and preset)")
}

// loadConfig resolves the configuration from file, preset and flag overrides.
func loadConfig() (config.MemoryConfig, error) {
	cfg, src, err := config.LoadMemoryWithSource(flagConfig)
	if err != nil {
		return config.MemoryConfig{}, err
	}
	logger.Debug("config loaded", "source", src)

	if flagDifficulty != "" {
		preset, err := config.ParsePreset(flagDifficulty)
		if err != nil {
			return config.MemoryConfig{}, err
		}
		if err := config.ApplyPreset(&cfg, preset); err != nil {
			return config.MemoryConfig{}, err
		}
	}
	if flagRows > 0 {
		cfg.Grid.Rows = flagRows
	}
	if flagCols > 0 {
		cfg.Grid.Cols = flagCols
	}
	if flagGroupSize > 0 {
		cfg.Grid.GroupSize = flagGroupSize
	}

	if err := cfg.Validate(); err != nil {
		return config.MemoryConfig{}, err
	}
	return cfg, nil
}

// gridFlagsSet reports whether the grid was chosen on the command line.
func gridFlagsSet() bool {
	return flagDifficulty != "" || flagRows > 0 || flagCols > 0
}

// rememberedGrid returns the last grid picked in the menu if cfg can play it.
func rememberedGrid(saves *memory.SaveSlot, cfg config.MemoryConfig) (config.GridSize, bool) {
	g, ok := saves.LoadGrid()
	if !ok {
		return config.GridSize{}, false
	}
	for _, valid := range cfg.ValidGrids() {
		if valid == g {
			return g, true
		}
	}
	return config.GridSize{}, false
}

func runPlay(_ *cobra.Command, args []string) {
	mode := modeArg(args)

	cfg, err := loadConfig()
	if err != nil {
		fail("%v", err)
	}

	env, saves, closeEnv := openEnv()
	if !gridFlagsSet() {
		if g, ok := rememberedGrid(saves, cfg); ok {
			cfg = cfg.WithGrid(g.Rows, g.Cols)
		}
	}
	memory.SetConfig(cfg)

	game, err := registry.Create(mode)
	if err != nil {
		closeEnv()
		fail("creating game: %v", err)
	}

	runErr := tui.Run(game, env, runtimeConfig(), !flagNew)
	closeEnv()

	if runErr != nil {
		fail("running game: %v", runErr)
	}
}
