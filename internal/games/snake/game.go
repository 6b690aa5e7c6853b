package snake

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/registry"
)

// Mode selects how apples are valued.
type Mode string

const (
	ModeWeighted Mode = "weighted" // Values drawn from the weight table
	ModeClassic  Mode = "classic"  // Every apple is worth the fixed value
)

// Game adapts the rules engine to the platform's registry.Game interface.
type Game struct {
	mode      Mode
	cfg       config.SnakeConfig
	cfgLoaded bool
	source    string
	engine    *Engine
	logger    *log.Logger

	screenW int
	screenH int

	lastValue int  // Value of the most recently eaten apple
	hasEaten  bool // Whether lastValue is meaningful
}

// Package-level settings applied to games created by the registry.
var (
	configPath       string
	difficultyPreset string
)

// SetConfigPath sets the config file used by games created afterwards.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset used by games created afterwards.
func SetDifficultyPreset(preset string) {
	difficultyPreset = preset
}

// New creates a Snake game with weighted apple values.
func New() *Game {
	return &Game{mode: ModeWeighted, logger: log.New(io.Discard)}
}

// NewClassic creates a Snake game where every apple is worth the same.
func NewClassic() *Game {
	return &Game{mode: ModeClassic, logger: log.New(io.Discard)}
}

// NewWithConfig creates a game that uses cfg instead of loading one from disk.
func NewWithConfig(mode Mode, cfg config.SnakeConfig) *Game {
	return &Game{mode: mode, cfg: cfg, cfgLoaded: true, source: "inline", logger: log.New(io.Discard)}
}

// SetLogger sets the logger used for failures the platform cannot see.
func (g *Game) SetLogger(logger *log.Logger) {
	if logger != nil {
		g.logger = logger
	}
}

func init() {
	registry.Register("snake", func() registry.Game {
		return New()
	})
	registry.Register("snake_classic", func() registry.Game {
		return NewClassic()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeClassic {
		return "snake_classic"
	}
	return "snake"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeClassic {
		return "Snake (Classic)"
	}
	return "Snake"
}

// Config returns the effective configuration and the file it came from.
// Only meaningful after Reset.
func (g *Game) Config() (config.SnakeConfig, string) {
	return g.cfg, g.source
}

// Engine exposes the rules engine, e.g. for tests and replays.
func (g *Game) Engine() *Engine {
	return g.engine
}

// Reset loads the configuration on first use and starts a new game.
func (g *Game) Reset(rc core.RuntimeConfig) error {
	if !g.cfgLoaded {
		cfg, source, err := config.LoadSnake(configPath)
		if err != nil {
			return err
		}
		if preset, ok := config.ParsePreset(difficultyPreset); ok {
			config.ApplySnakePreset(&cfg, preset)
		}
		g.cfg, g.source, g.cfgLoaded = cfg, source, true
	}

	cfg := g.cfg
	if g.mode == ModeClassic {
		cfg.Apples.Variable = false
	}

	settings, err := SettingsFromConfig(cfg)
	if err != nil {
		return err
	}

	seed := rc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	engine, err := NewEngine(settings, rand.New(rand.NewSource(seed)))
	if err != nil {
		return fmt.Errorf("snake: cannot start game: %w", err)
	}

	g.engine = engine
	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH
	g.hasEaten = false
	g.lastValue = 0
	return nil
}

// Resize records new screen dimensions without touching the game.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
}

// Input applies a direction or restart request.
func (g *Game) Input(a core.Action) bool {
	if g.engine == nil {
		return false
	}

	if a.IsDirection() {
		g.engine.ChangeDirection(actionDirections[a])
		return false
	}
	if a != core.ActionRestart {
		return false
	}

	restarted, err := g.engine.Restart()
	if err != nil {
		g.logger.Error("restart failed", "game", g.ID(), "error", err)
		return false
	}
	if !restarted {
		return false
	}
	g.hasEaten = false
	return true
}

var actionDirections = map[core.Action]Direction{
	core.ActionUp:    DirUp,
	core.ActionDown:  DirDown,
	core.ActionLeft:  DirLeft,
	core.ActionRight: DirRight,
}

// Step advances the game by one tick.
func (g *Game) Step() core.StepResult {
	if g.engine == nil {
		return core.StepResult{}
	}

	out := g.engine.Tick()
	if out.Ate {
		g.lastValue = out.Eaten.Value
		g.hasEaten = true
	}

	return core.StepResult{
		State:    g.State(),
		Continue: out.Continue,
		Next:     out.Interval,
	}
}

// Interval returns the delay before the next tick.
func (g *Game) Interval() time.Duration {
	if g.engine == nil {
		return 0
	}
	return g.engine.Interval()
}

// State returns the platform-facing summary.
func (g *Game) State() core.GameState {
	if g.engine == nil {
		return core.GameState{}
	}
	st := g.engine.state
	return core.GameState{
		Score:    st.Score,
		Length:   st.Snake.Len(),
		GameOver: !st.Running,
		Won:      st.Won(),
		Reason:   string(st.Reason),
	}
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	if g.engine == nil {
		return Snapshot{}
	}
	return g.engine.Snapshot()
}

// DebugState returns a string representation of the game state.
func (g *Game) DebugState() string {
	if g.engine == nil {
		return "not started\n"
	}
	st := g.engine.state
	return fmt.Sprintf("Tick: %d, Score: %d, Interval: %s\nSnake len: %d, Direction: %s, Pending: %s\nHead: (%d, %d), Apple: (%d, %d) worth %d\nRunning: %v, Reason: %q\n",
		st.Ticks, st.Score, st.TickInterval,
		st.Snake.Len(), st.Direction, st.Pending,
		st.Snake.Head().X, st.Snake.Head().Y, st.Apple.Position.X, st.Apple.Position.Y, st.Apple.Value,
		st.Running, st.Reason)
}
