package core

// RuntimeConfig contains configuration passed to games at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Ticks per second; also drives reveal and hide delays
	Seed     int64 // RNG seed for the deck shuffle
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState is returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int
	Combo    int
	GameOver bool
	Paused   bool
}

// StepResult is returned by Game.Step() after each tick.
type StepResult struct {
	State GameState
}
