package config

import (
	"fmt"
	"strings"
)

// DifficultyPreset represents a named board setup.
type DifficultyPreset string

const (
	DifficultyEasy    DifficultyPreset = "easy"
	DifficultyNormal  DifficultyPreset = "normal"
	DifficultyHard    DifficultyPreset = "hard"
	DifficultyTriples DifficultyPreset = "triples"
)

type presetParams struct {
	rows, cols, groupSize int
	mismatchDelayMs       int
}

var presets = map[DifficultyPreset]presetParams{
	DifficultyEasy:    {rows: 3, cols: 4, groupSize: 2, mismatchDelayMs: 1000},
	DifficultyNormal:  {rows: 4, cols: 4, groupSize: 2, mismatchDelayMs: 800},
	DifficultyHard:    {rows: 6, cols: 6, groupSize: 2, mismatchDelayMs: 600},
	DifficultyTriples: {rows: 4, cols: 6, groupSize: 3, mismatchDelayMs: 800},
}

// Presets returns the preset names in increasing difficulty.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyTriples}
}

// ParsePreset converts a flag value to a preset.
func ParsePreset(name string) (DifficultyPreset, error) {
	p := DifficultyPreset(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := presets[p]; !ok {
		names := make([]string, 0, len(presets))
		for _, known := range Presets() {
			names = append(names, string(known))
		}
		return "", fmt.Errorf("config: unknown difficulty %q (want one of %s)", name, strings.Join(names, ", "))
	}
	return p, nil
}

// ApplyPreset modifies the config based on a difficulty preset.
// Face symbols, scoring and limits are left alone.
func ApplyPreset(cfg *MemoryConfig, preset DifficultyPreset) error {
	p, ok := presets[preset]
	if !ok {
		return fmt.Errorf("config: unknown difficulty %q", preset)
	}
	cfg.Grid.Rows = p.rows
	cfg.Grid.Cols = p.cols
	cfg.Grid.GroupSize = p.groupSize
	cfg.Timing.MismatchDelayMs = p.mismatchDelayMs
	return nil
}
