package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/registry"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// resizer is implemented by games that track the screen size.
type resizer interface {
	Resize(w, h int)
}

// debugStater is implemented by games that can dump their internal state.
type debugStater interface {
	DebugState() string
}

// loggerSetter is implemented by games that log their own failures.
type loggerSetter interface {
	SetLogger(logger *log.Logger)
}

// GameModel runs one game inside Bubble Tea.
// Input is applied as soon as it arrives; the game only advances on ticks,
// each scheduled with the interval the previous step returned.
type GameModel struct {
	game      registry.Game
	screen    *core.Screen
	store     storage.ScoreStore
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	logger    *log.Logger
	gameState core.GameState

	gen        int  // Current tick chain; bumped on restart
	scoreSaved bool // Whether score has been saved for current game over
	standalone bool // Back quits the program instead of returning to a menu
	quitting   bool
	backToMenu bool
}

// NewGameModel resets game and wraps it in a model.
// store may be nil; scores are then not recorded.
func NewGameModel(game registry.Game, store storage.ScoreStore, cfg core.RuntimeConfig) (GameModel, error) {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if err := game.Reset(cfg); err != nil {
		return GameModel{}, err
	}

	return GameModel{
		game:      game,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:     store,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		logger:    log.Default(),
		gameState: game.State(),
	}, nil
}

// WithLogger returns a copy of the model logging to logger.
// The game shares it when it accepts one.
func (m GameModel) WithLogger(logger *log.Logger) GameModel {
	m.logger = logger
	if ls, ok := m.game.(loggerSetter); ok {
		ls.SetLogger(logger)
	}
	return m
}

// Init starts the tick chain.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.gen, m.game.Interval())
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		if r, ok := m.game.(resizer); ok {
			r.Resize(msg.Width, msg.Height)
		}
		return m, nil
	case TickMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keyMapper.IsScreenshot(msg) {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.saveScore("quit")
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionBack:
		if !m.gameState.GameOver {
			return m, nil
		}
		if m.standalone {
			m.quitting = true
			return m, tea.Quit
		}
		m.backToMenu = true
		return m, nil

	case core.ActionNone:
		return m, nil
	}

	if m.game.Input(action) {
		// Restarted: the old chain stopped at game over, start a new one
		m.gen++
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.logger.Debug("game restarted", "game", m.game.ID())
		return m, tickCmd(m.gen, m.game.Interval())
	}
	return m, nil
}

// handleTick advances the game one step and schedules the next tick.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step()
	m.gameState = result.State

	if m.gameState.GameOver {
		m.saveScore(m.gameState.Reason)
	}
	if !result.Continue {
		if ds, ok := m.game.(debugStater); ok {
			m.logger.Debug("game ended", "game", m.game.ID(), "reason", m.gameState.Reason, "state", ds.DebugState())
		}
		return m, nil
	}
	return m, tickCmd(m.gen, result.Next)
}

// saveScore records the current run once.
func (m *GameModel) saveScore(reason string) {
	if m.scoreSaved || m.gameState.Score <= 0 {
		return
	}
	m.scoreSaved = true
	if m.store == nil {
		return
	}

	_, err := m.store.SaveScore(storage.ScoreRecord{
		GameID:    m.game.ID(),
		Player:    m.config.Player,
		Score:     m.gameState.Score,
		Length:    m.gameState.Length,
		EndReason: reason,
	})
	if err != nil {
		// Best-effort save, the game continues regardless
		m.logger.Warn("could not save score", "game", m.game.ID(), "error", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".arcade", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "path", path, "error", err)
	}
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the last observed game state.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a single game in the terminal until the user quits.
func Run(game registry.Game, store storage.ScoreStore, cfg core.RuntimeConfig, logger *log.Logger) error {
	model, err := NewGameModel(game, store, cfg)
	if err != nil {
		return err
	}
	model.standalone = true
	if logger != nil {
		model = model.WithLogger(logger)
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err = p.Run()
	return err
}
