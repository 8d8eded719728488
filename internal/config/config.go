// Package config provides YAML-based configuration loading, presets and
// validation for the memory game.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// MemoryConfig contains all configuration for the memory game.
type MemoryConfig struct {
	Grid    GridConfig    `yaml:"grid"`
	Faces   FacesConfig   `yaml:"faces"`
	Scoring ScoringConfig `yaml:"scoring"`
	Timing  TimingConfig  `yaml:"timing"`
	Limits  LimitsConfig  `yaml:"limits"`
}

// GridConfig defines the board shape.
type GridConfig struct {
	Rows      int `yaml:"rows"`
	Cols      int `yaml:"cols"`
	GroupSize int `yaml:"group_size"` // Cards per matching group (2 = pairs)
}

// FacesConfig defines the face catalog. Identity i is drawn as Symbols[i].
type FacesConfig struct {
	Symbols []string `yaml:"symbols"`
}

// ScoringConfig defines scoring parameters.
type ScoringConfig struct {
	BaseScore int `yaml:"base_score"` // Points per match, multiplied by the combo
}

// TimingConfig defines the presentation delays.
type TimingConfig struct {
	RevealDelayMs   int `yaml:"reveal_delay_ms"`
	MismatchDelayMs int `yaml:"mismatch_delay_ms"`
}

// LimitsConfig bounds the grid sizes accepted from flags and the grid selector.
type LimitsConfig struct {
	MinRows int `yaml:"min_rows"`
	MaxRows int `yaml:"max_rows"`
	MinCols int `yaml:"min_cols"`
	MaxCols int `yaml:"max_cols"`
}

// GridSize is a rows x cols pair offered by the grid selector.
type GridSize struct {
	Rows int
	Cols int
}

func (g GridSize) String() string {
	return fmt.Sprintf("%dx%d", g.Rows, g.Cols)
}

// ParseGridSize parses "RxC" (e.g. "4x6").
func ParseGridSize(s string) (GridSize, error) {
	var g GridSize
	rows, cols, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return g, fmt.Errorf("config: grid %q: want ROWSxCOLS", s)
	}
	if _, err := fmt.Sscanf(rows+" "+cols, "%d %d", &g.Rows, &g.Cols); err != nil {
		return GridSize{}, fmt.Errorf("config: grid %q: %w", s, err)
	}
	if g.Rows < 1 || g.Cols < 1 {
		return GridSize{}, fmt.Errorf("config: grid %q: %w", s, ErrInvalid)
	}
	return g, nil
}

// Validate checks the configuration. Errors wrap ErrInvalid.
func (c MemoryConfig) Validate() error {
	l := c.Limits
	if l.MinRows < 1 || l.MinCols < 1 || l.MinRows > l.MaxRows || l.MinCols > l.MaxCols {
		return fmt.Errorf("config: limits rows %d..%d cols %d..%d: %w",
			l.MinRows, l.MaxRows, l.MinCols, l.MaxCols, ErrInvalid)
	}
	if c.Grid.GroupSize < 2 {
		return fmt.Errorf("config: group size %d, want at least 2: %w", c.Grid.GroupSize, ErrInvalid)
	}
	if len(c.Faces.Symbols) == 0 {
		return fmt.Errorf("config: no face symbols: %w", ErrInvalid)
	}
	if c.Scoring.BaseScore < 0 {
		return fmt.Errorf("config: negative base score %d: %w", c.Scoring.BaseScore, ErrInvalid)
	}
	if c.Timing.RevealDelayMs < 0 || c.Timing.MismatchDelayMs < 0 {
		return fmt.Errorf("config: negative delay %d/%d ms: %w",
			c.Timing.RevealDelayMs, c.Timing.MismatchDelayMs, ErrInvalid)
	}
	if c.Grid.Rows < l.MinRows || c.Grid.Rows > l.MaxRows {
		return fmt.Errorf("config: rows %d outside %d..%d: %w", c.Grid.Rows, l.MinRows, l.MaxRows, ErrInvalid)
	}
	if c.Grid.Cols < l.MinCols || c.Grid.Cols > l.MaxCols {
		return fmt.Errorf("config: cols %d outside %d..%d: %w", c.Grid.Cols, l.MinCols, l.MaxCols, ErrInvalid)
	}

	seen := make(map[string]bool, len(c.Faces.Symbols))
	for i, sym := range c.Faces.Symbols {
		if sym == "" {
			return fmt.Errorf("config: face symbol %d is empty: %w", i, ErrInvalid)
		}
		if seen[sym] {
			return fmt.Errorf("config: face symbol %q listed twice: %w", sym, ErrInvalid)
		}
		seen[sym] = true
	}
	return nil
}

// Warnings reports settings that are legal but make a poor game.
func (c MemoryConfig) Warnings() []string {
	var warns []string
	total := c.Grid.Rows * c.Grid.Cols
	if c.Grid.GroupSize > 0 && total%c.Grid.GroupSize != 0 {
		warns = append(warns, fmt.Sprintf("%d cards cannot be split into groups of %d; the grid can never be cleared",
			total, c.Grid.GroupSize))
	}
	if c.Grid.GroupSize > 0 && total/c.Grid.GroupSize > len(c.Faces.Symbols) && len(c.Faces.Symbols) > 0 {
		warns = append(warns, fmt.Sprintf("%d groups share %d face symbols; some faces repeat",
			total/c.Grid.GroupSize, len(c.Faces.Symbols)))
	}
	return warns
}

// Symbol returns the display symbol for a face identity.
func (c MemoryConfig) Symbol(identity int) string {
	if identity < 0 || len(c.Faces.Symbols) == 0 {
		return "?"
	}
	return c.Faces.Symbols[identity%len(c.Faces.Symbols)]
}

// ValidGrids lists every grid within the limits whose card count splits into
// at least two whole groups of the configured size.
func (c MemoryConfig) ValidGrids() []GridSize {
	g := c.Grid.GroupSize
	if g < 2 {
		return nil
	}
	var out []GridSize
	for r := c.Limits.MinRows; r <= c.Limits.MaxRows; r++ {
		for col := c.Limits.MinCols; col <= c.Limits.MaxCols; col++ {
			total := r * col
			if total%g == 0 && total/g >= 2 {
				out = append(out, GridSize{Rows: r, Cols: col})
			}
		}
	}
	return out
}

// WithGrid returns a copy of the configuration using the given grid.
func (c MemoryConfig) WithGrid(rows, cols int) MemoryConfig {
	c.Grid.Rows = rows
	c.Grid.Cols = cols
	return c
}
