package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/memory-match/internal/config"
	"github.com/vovakirdan/memory-match/internal/games/memory"
	"github.com/vovakirdan/memory-match/internal/platform/tui"
	"github.com/vovakirdan/memory-match/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a mode and grid picker menu",
	Long: `Start in interactive menu mode.

Pick a mode, then continue the saved game, play the current grid or choose
another grid size. After a game ends you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab          - Scoreboard
  Esc          - Back
  Q            - Quit

Examples:
  memory menu
  memory menu --fps 60
  memory menu --db ./memory.db`,
	Run: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
}

func runMenu(_ *cobra.Command, _ []string) {
	base, err := loadConfig()
	if err != nil {
		fail("%v", err)
	}

	env, saves, closeEnv := openEnv()
	defer closeEnv()

	rc := runtimeConfig()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(env, rc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}
		rc = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			if env.Store == nil {
				continue
			}
			goBack, sbErr := tui.RunScoreboard(env.Store, rc.ScreenW, rc.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from scoreboard
		}

		mode := menuResult.GameID
		if mode == "" {
			break
		}

		memory.SetConfig(base)
		modeCfg := memory.ConfigFor(mode)
		current := config.GridSize{Rows: modeCfg.Grid.Rows, Cols: modeCfg.Grid.Cols}
		if g, ok := rememberedGrid(saves, modeCfg); ok {
			current = g
		}

		game, err := registry.Create(mode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		selection, updatedCfg, gridErr := tui.RunGridMenu(game.Title(), modeCfg, current, menuResult.HasSave, rc)
		if gridErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", gridErr)
			continue
		}
		rc = updatedCfg

		// User pressed back or quit
		if selection == nil {
			continue
		}

		if !selection.Resume {
			memory.SetConfig(base.WithGrid(selection.Grid.Rows, selection.Grid.Cols))
			if err := saves.SaveGrid(selection.Grid); err != nil {
				logger.Warn("cannot remember grid", "err", err)
			}
		}

		if err := tui.Run(game, env, rc, selection.Resume); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			break
		}
	}
}
