package config

// Base tick intervals per preset, in milliseconds.
const (
	easyIntervalMs   = 200
	normalIntervalMs = 150
	hardIntervalMs   = 100
)

// ParsePreset converts a CLI string into a preset.
// Empty input means "keep the config as loaded" and returns ok=false.
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	default:
		return "", false
	}
}

// IntervalForPreset returns the base tick interval for a difficulty preset.
// Returns 0 for presets that keep the configured interval.
func IntervalForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyEasy:
		return easyIntervalMs
	case DifficultyNormal:
		return normalIntervalMs
	case DifficultyHard:
		return hardIntervalMs
	default:
		return 0
	}
}

// IsFixedPreset returns true if the preset disables the speed ramp.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplySnakePreset modifies the config based on a difficulty preset.
func ApplySnakePreset(cfg *SnakeConfig, preset DifficultyPreset) {
	if IsFixedPreset(preset) {
		cfg.Timing.Ramp = false
		return
	}

	if ms := IntervalForPreset(preset); ms > 0 {
		cfg.Timing.Ramp = true
		cfg.Timing.BaseIntervalMs = ms
		if cfg.Timing.MinIntervalMs > ms {
			cfg.Timing.MinIntervalMs = ms
		}
	}
}
