package config

import (
	_ "embed"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// DefaultSnakeConfig returns the default Snake configuration.
// Mirrors defaults/snake.yaml and is used when the embedded file cannot be parsed.
func DefaultSnakeConfig() SnakeConfig {
	return SnakeConfig{
		Grid: GridConfig{
			Width:    40,
			Height:   27,
			CellSize: 15,
		},
		Timing: TimingConfig{
			BaseIntervalMs: 150,
			MinIntervalMs:  50,
			SpeedStepMs:    10,
			SpeedThreshold: 100,
			Ramp:           true,
		},
		Apples: AppleConfig{
			Variable:   true,
			FixedValue: 10,
			Weights: []AppleWeight{
				{Value: 0, Weight: 1},
				{Value: 5, Weight: 2},
				{Value: 10, Weight: 6},
				{Value: 20, Weight: 2},
				{Value: 30, Weight: 1},
			},
			MaxSpawnAttempts: 1000,
		},
		Snake: StartConfig{
			Length:    3,
			StartX:    3,
			StartY:    3,
			Direction: "right",
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "snake", "snake_classic":
		return defaultSnakeYAML
	default:
		return nil
	}
}
