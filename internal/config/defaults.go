package config

import (
	_ "embed"
)

//go:embed defaults/memory.yaml
var defaultMemoryYAML []byte

// DefaultSymbols is the built-in face catalog.
var DefaultSymbols = []string{
	"◆", "●", "▲", "■", "★", "♥", "♠", "♣", "♦",
	"✚", "✖", "☀", "☂", "♪", "⚑", "✿", "☾", "◎",
}

// DefaultMemoryConfig returns the default memory configuration.
// It matches the embedded defaults/memory.yaml.
func DefaultMemoryConfig() MemoryConfig {
	symbols := make([]string, len(DefaultSymbols))
	copy(symbols, DefaultSymbols)

	return MemoryConfig{
		Grid: GridConfig{
			Rows:      4,
			Cols:      4,
			GroupSize: 2,
		},
		Faces: FacesConfig{
			Symbols: symbols,
		},
		Scoring: ScoringConfig{
			BaseScore: 100,
		},
		Timing: TimingConfig{
			RevealDelayMs:   150,
			MismatchDelayMs: 800,
		},
		Limits: LimitsConfig{
			MinRows: 2,
			MaxRows: 8,
			MinCols: 2,
			MaxCols: 8,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultMemoryYAML))
	copy(out, defaultMemoryYAML)
	return out
}
