// Package config provides YAML-based game configuration loading and
// difficulty presets for the snake platform.
package config

import (
	"errors"
	"time"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid snake configuration")

// SnakeConfig contains all configuration for the Snake game.
// Every gameplay constant lives here rather than in the rules engine.
type SnakeConfig struct {
	Grid   GridConfig   `yaml:"grid"`
	Timing TimingConfig `yaml:"timing"`
	Apples AppleConfig  `yaml:"apples"`
	Snake  StartConfig  `yaml:"snake"`
}

// GridConfig defines the playfield size in cells.
type GridConfig struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	CellSize int `yaml:"cell_size"` // Pixels per cell, for pixel-based clients
}

// TimingConfig defines the tick interval and how it shrinks with score.
type TimingConfig struct {
	BaseIntervalMs int  `yaml:"base_interval_ms"`
	MinIntervalMs  int  `yaml:"min_interval_ms"`
	SpeedStepMs    int  `yaml:"speed_step_ms"`
	SpeedThreshold int  `yaml:"speed_threshold"` // Points per speed step
	Ramp           bool `yaml:"ramp"`
}

// AppleConfig defines apple values and spawning limits.
type AppleConfig struct {
	Variable         bool          `yaml:"variable"`
	FixedValue       int           `yaml:"fixed_value"`
	Weights          []AppleWeight `yaml:"weights"`
	MaxSpawnAttempts int           `yaml:"max_spawn_attempts"`
}

// AppleWeight is one row of the apple value table.
type AppleWeight struct {
	Value  int `yaml:"value"`
	Weight int `yaml:"weight"`
}

// StartConfig defines the snake a new game begins with.
type StartConfig struct {
	Length    int    `yaml:"length"`
	StartX    int    `yaml:"start_x"` // Head cell
	StartY    int    `yaml:"start_y"`
	Direction string `yaml:"direction"`
}

// BaseInterval returns the starting tick interval.
func (t TimingConfig) BaseInterval() time.Duration {
	return time.Duration(t.BaseIntervalMs) * time.Millisecond
}

// MinInterval returns the fastest allowed tick interval.
func (t TimingConfig) MinInterval() time.Duration {
	return time.Duration(t.MinIntervalMs) * time.Millisecond
}

// SpeedStep returns how much the interval shrinks per threshold crossed.
func (t TimingConfig) SpeedStep() time.Duration {
	return time.Duration(t.SpeedStepMs) * time.Millisecond
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)
