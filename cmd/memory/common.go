package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/vovakirdan/memory-match/internal/core"
	"github.com/vovakirdan/memory-match/internal/games/memory"
	"github.com/vovakirdan/memory-match/internal/platform/tui"
	"github.com/vovakirdan/memory-match/internal/registry"
	"github.com/vovakirdan/memory-match/internal/storage"
)

// openEnv opens the database. Without it the game still runs, but scores
// and saves only live for this process.
func openEnv() (tui.Env, *memory.SaveSlot, func()) {
	env := tui.Env{Logger: logger}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		saves := memory.NewSaveSlot(storage.NewMemoryKV(), logger)
		env.Saves = saves
		return env, saves, func() {}
	}

	saves := memory.NewSaveSlot(store, logger)
	env.Store = store
	env.Saves = saves
	return env, saves, func() { store.Close() }
}

// runtimeConfig sizes the game to the terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// modeArg returns the mode named by args, defaulting to classic pairs.
func modeArg(args []string) string {
	if len(args) == 0 {
		return memory.ModeClassic
	}
	mode := args[0]
	if !registry.Exists(mode) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", mode)
		fmt.Fprintln(os.Stderr, "Run 'memory list' to see available modes.")
		os.Exit(1)
	}
	return mode
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
