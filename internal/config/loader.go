package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SourceEmbedded is reported when no config file was found on disk.
const SourceEmbedded = "embedded"

// LoadSnake loads Snake configuration and reports where it came from.
// Search order: customPath -> ~/.arcade/configs/snake.yaml -> ./configs/snake.yaml -> embedded default.
// Files only need to set the keys they change; everything else keeps its default.
func LoadSnake(customPath string) (SnakeConfig, string, error) {
	// A custom path must exist and be valid
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return SnakeConfig{}, "", fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parseSnake(data)
		if err != nil {
			return SnakeConfig{}, "", fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return SnakeConfig{}, "", fmt.Errorf("config %s: %w", customPath, err)
		}
		return cfg, customPath, nil
	}

	// Well-known locations are skipped when unreadable or invalid
	candidates := []string{userConfigPath("snake.yaml"), filepath.Join("configs", "snake.yaml")}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := parseSnake(data); err == nil && cfg.Validate() == nil {
			return cfg, path, nil
		}
	}

	cfg, err := parseSnake(defaultSnakeYAML)
	if err != nil {
		return DefaultSnakeConfig(), SourceEmbedded, nil // Fallback to hardcoded if embed fails
	}
	return cfg, SourceEmbedded, nil
}

// parseSnake decodes YAML on top of the hardcoded defaults.
func parseSnake(data []byte) (SnakeConfig, error) {
	cfg := DefaultSnakeConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SnakeConfig{}, err
	}
	return cfg, nil
}

// MarshalSnake renders a config as YAML, e.g. for `snake config`.
func MarshalSnake(cfg SnakeConfig) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: cannot encode snake config: %w", err)
	}
	return out, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}

// Validate rejects configurations the rules engine cannot run.
func (c SnakeConfig) Validate() error {
	g := c.Grid
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", ErrInvalidConfig, g.Width, g.Height)
	}
	if g.CellSize <= 0 {
		return fmt.Errorf("%w: cell_size must be positive, got %d", ErrInvalidConfig, g.CellSize)
	}

	t := c.Timing
	if t.BaseIntervalMs <= 0 || t.MinIntervalMs <= 0 {
		return fmt.Errorf("%w: tick intervals must be positive", ErrInvalidConfig)
	}
	if t.MinIntervalMs > t.BaseIntervalMs {
		return fmt.Errorf("%w: min_interval_ms %d exceeds base_interval_ms %d",
			ErrInvalidConfig, t.MinIntervalMs, t.BaseIntervalMs)
	}
	if t.Ramp && (t.SpeedStepMs < 0 || t.SpeedThreshold <= 0) {
		return fmt.Errorf("%w: speed ramp needs speed_threshold > 0 and speed_step_ms >= 0", ErrInvalidConfig)
	}

	a := c.Apples
	if a.MaxSpawnAttempts <= 0 {
		return fmt.Errorf("%w: max_spawn_attempts must be positive", ErrInvalidConfig)
	}
	if a.Variable {
		total := 0
		for _, w := range a.Weights {
			if w.Weight < 0 || w.Value < 0 {
				return fmt.Errorf("%w: apple weight %+v has a negative field", ErrInvalidConfig, w)
			}
			total += w.Weight
		}
		if total == 0 {
			return fmt.Errorf("%w: apple weight table is empty", ErrInvalidConfig)
		}
	} else if a.FixedValue < 0 {
		return fmt.Errorf("%w: fixed_value must not be negative", ErrInvalidConfig)
	}

	return c.validateStart()
}

// validateStart checks that the initial snake fits on the grid and leaves
// room for at least one apple.
func (c SnakeConfig) validateStart() error {
	s := c.Snake
	if s.Length < 1 {
		return fmt.Errorf("%w: snake length must be at least 1", ErrInvalidConfig)
	}
	if s.Length >= c.Grid.Width*c.Grid.Height {
		return fmt.Errorf("%w: snake of length %d leaves no room for an apple", ErrInvalidConfig, s.Length)
	}

	// Body trails behind the head, opposite to the starting direction
	dx, dy := 0, 0
	switch s.Direction {
	case "right":
		dx = -1
	case "left":
		dx = 1
	case "down":
		dy = -1
	case "up":
		dy = 1
	default:
		return fmt.Errorf("%w: unknown start direction %q", ErrInvalidConfig, s.Direction)
	}

	tailX := s.StartX + dx*(s.Length-1)
	tailY := s.StartY + dy*(s.Length-1)
	for _, p := range [][2]int{{s.StartX, s.StartY}, {tailX, tailY}} {
		if p[0] < 0 || p[0] >= c.Grid.Width || p[1] < 0 || p[1] >= c.Grid.Height {
			return fmt.Errorf("%w: initial snake does not fit on a %dx%d grid",
				ErrInvalidConfig, c.Grid.Width, c.Grid.Height)
		}
	}
	return nil
}
