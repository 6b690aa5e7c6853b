package snake

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-snake/internal/config"
)

// Settings are the engine's view of the configuration.
type Settings struct {
	Grid         Grid
	CellSize     int
	Start        Body
	StartDir     Direction
	BaseInterval time.Duration
	Ramp         SpeedRamp
	Values       ValueTable
	MaxAttempts  int
}

// SettingsFromConfig validates a config and converts it for the engine.
func SettingsFromConfig(cfg config.SnakeConfig) (Settings, error) {
	if err := cfg.Validate(); err != nil {
		return Settings{}, err
	}

	grid, err := NewGrid(cfg.Grid.Width, cfg.Grid.Height)
	if err != nil {
		return Settings{}, err
	}
	dir, err := ParseDirection(cfg.Snake.Direction)
	if err != nil {
		return Settings{}, err
	}

	values := FixedValueTable(cfg.Apples.FixedValue)
	if cfg.Apples.Variable {
		rows := make([]ValueWeight, len(cfg.Apples.Weights))
		for i, w := range cfg.Apples.Weights {
			rows[i] = ValueWeight{Value: w.Value, Weight: w.Weight}
		}
		if values, err = NewValueTable(rows); err != nil {
			return Settings{}, err
		}
	}

	return Settings{
		Grid:         grid,
		CellSize:     cfg.Grid.CellSize,
		Start:        NewBody(Cell{X: cfg.Snake.StartX, Y: cfg.Snake.StartY}, cfg.Snake.Length, dir),
		StartDir:     dir,
		BaseInterval: cfg.Timing.BaseInterval(),
		Ramp: SpeedRamp{
			Enabled:   cfg.Timing.Ramp,
			Threshold: cfg.Timing.SpeedThreshold,
			Step:      cfg.Timing.SpeedStep(),
			Min:       cfg.Timing.MinInterval(),
		},
		Values:      values,
		MaxAttempts: cfg.Apples.MaxSpawnAttempts,
	}, nil
}

// Outcome tells the scheduler what a tick did and what to do next.
type Outcome struct {
	Continue bool          // Schedule another tick
	Interval time.Duration // Delay before that tick
	Ate      bool
	Eaten    Apple // The apple consumed this tick, if Ate
	SpedUp   bool
	Reason   EndReason // Set when the tick ended the game
}

// Engine runs the snake rules over a GameState.
// It is not safe for concurrent use; callers serialize access (the Bubble
// Tea update loop or scheduler.Runner).
type Engine struct {
	settings Settings
	spawner  *Spawner
	state    GameState
}

// NewEngine creates an engine and starts the first game.
func NewEngine(settings Settings, rng *rand.Rand) (*Engine, error) {
	if settings.Start.Len() == 0 {
		return nil, fmt.Errorf("snake: initial snake is empty")
	}
	e := &Engine{
		settings: settings,
		spawner:  NewSpawner(settings.Grid, settings.Values, settings.MaxAttempts, rng),
	}
	if err := e.Reset(); err != nil {
		return nil, err
	}
	return e, nil
}

// Settings returns the engine's settings.
func (e *Engine) Settings() Settings {
	return e.settings
}

// State returns a copy of the current state.
func (e *Engine) State() GameState {
	return e.state.Clone()
}

// Interval returns the delay before the next tick.
func (e *Engine) Interval() time.Duration {
	return e.state.TickInterval
}

// Running reports whether the current game is still in progress.
func (e *Engine) Running() bool {
	return e.state.Running
}

// Reset replaces the state with a fresh game.
func (e *Engine) Reset() error {
	start := e.settings.Start.Clone()
	apple, err := e.spawner.Spawn(start)
	if err != nil {
		return fmt.Errorf("snake: cannot place first apple: %w", err)
	}

	e.state = GameState{
		Snake:        start,
		Direction:    e.settings.StartDir,
		Pending:      e.settings.StartDir,
		Apple:        apple,
		Running:      true,
		TickInterval: e.settings.BaseInterval,
	}
	return nil
}

// ChangeDirection buffers a direction for the next tick. Requests that would
// reverse into the snake's neck, judged against the direction applied on the
// last tick, are ignored. A later accepted request replaces an earlier one.
func (e *Engine) ChangeDirection(d Direction) bool {
	if !d.Valid() || !e.state.Running {
		return false
	}
	if d == e.state.Direction.Opposite() {
		return false
	}
	e.state.Pending = d
	return true
}

// Restart starts a new game, but only once the current one is over.
func (e *Engine) Restart() (bool, error) {
	if e.state.Running {
		return false, nil
	}
	if err := e.Reset(); err != nil {
		return false, err
	}
	return true, nil
}

// Tick advances the game by one step.
func (e *Engine) Tick() Outcome {
	next, out := e.Advance(e.state)
	e.state = next
	return out
}

// Advance computes the state that follows s. s itself is not modified.
// A stopped game is returned unchanged.
func (e *Engine) Advance(s GameState) (GameState, Outcome) {
	if !s.Running {
		return s, Outcome{Reason: s.Reason}
	}

	next := s
	next.Ticks++

	// 1. Resolve direction
	next.Direction = s.Pending

	// 2. Move
	next.Snake = s.Snake.Move(next.Direction)
	head := next.Snake.Head()

	var out Outcome

	// 3. Apple
	if head == s.Apple.Position {
		out.Ate = true
		out.Eaten = s.Apple
		next.Score = s.Score + s.Apple.Value
		next.ApplesEaten++
		next.Snake = next.Snake.Grow()

		next.TickInterval = e.settings.Ramp.Next(s.TickInterval, s.Score, next.Score)
		out.SpedUp = next.TickInterval < s.TickInterval

		// Count segments, not cells. The grown tail duplicates a cell, so
		// the win is declared one tick before the board is physically full
		// while one cell is still free.
		if next.Snake.Len() >= e.settings.Grid.Area() {
			return stop(next, ReasonBoardFull, out)
		}
		apple, err := e.spawner.Spawn(next.Snake)
		if err != nil {
			return stop(next, ReasonBoardFull, out)
		}
		next.Apple = apple
	}

	// 4. Termination
	if !e.settings.Grid.InBounds(head) {
		return stop(next, ReasonWall, out)
	}
	if next.Snake.HitsSelf() {
		return stop(next, ReasonSelf, out)
	}

	// 5. Keep running
	out.Continue = true
	out.Interval = next.TickInterval
	return next, out
}

func stop(s GameState, reason EndReason, out Outcome) (GameState, Outcome) {
	s.Running = false
	s.Reason = reason
	out.Continue = false
	out.Interval = 0
	out.Reason = reason
	return s, out
}
