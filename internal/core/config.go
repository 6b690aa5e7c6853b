package core

import "time"

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW int   // Screen width in characters
	ScreenH int   // Screen height in characters
	Seed    int64 // RNG seed for deterministic gameplay
	Player  string
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		Seed:    0, // 0 means use current time in platform layer
	}
}

// GameState is the platform-facing summary of a game.
// Returned by Game.State() so the platform can save scores and show overlays.
type GameState struct {
	Score    int
	Length   int
	GameOver bool
	Won      bool
	Reason   string // Why the game ended, empty while running
}

// StepResult is returned by Game.Step() after each simulation tick.
// Continue is false once the game has stopped scheduling ticks; Next is the
// delay before the following tick otherwise.
type StepResult struct {
	State    GameState
	Continue bool
	Next     time.Duration
}
