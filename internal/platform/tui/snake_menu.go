package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
)

// SnakeSelection holds the user's choice from the Snake mode menu.
type SnakeSelection struct {
	GameID     string // "snake" or "snake_classic"
	Difficulty string // Empty keeps the configured timing
}

var snakeModes = []struct {
	gameID string
	label  string
}{
	{"snake", "Snake (weighted apples)"},
	{"snake_classic", "Classic (every apple 10)"},
}

var snakeDifficulties = []struct {
	preset config.DifficultyPreset
	label  string
}{
	{config.DifficultyEasy, "Easy (200ms, speeds up)"},
	{config.DifficultyNormal, "Normal (150ms, speeds up)"},
	{config.DifficultyHard, "Hard (100ms, speeds up)"},
	{config.DifficultyFixed, "Fixed (no speed-up)"},
}

// SnakeModeModel lets users choose the variant and then a difficulty.
type SnakeModeModel struct {
	cursor           int
	difficultyCursor int
	inDifficulty     bool
	width            int
	height           int
	keyMapper        *KeyMapper
	selection        SnakeSelection
	choosing         bool
	quitting         bool
	back             bool
}

// NewSnakeModeModel creates a new Snake mode selection model.
func NewSnakeModeModel(width, height int) SnakeModeModel {
	return SnakeModeModel{
		difficultyCursor: 1, // Normal
		width:            width,
		height:           height,
		keyMapper:        NewKeyMapper(),
		choosing:         true,
	}
}

// Init initializes the model.
func (m SnakeModeModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m SnakeModeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m SnakeModeModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	if m.inDifficulty {
		return m.handleDifficultyKey(action)
	}
	return m.handleModeKey(action)
}

func (m SnakeModeModel) handleModeKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(snakeModes)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		m.inDifficulty = true
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}

	return m, nil
}

func (m SnakeModeModel) handleDifficultyKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.difficultyCursor > 0 {
			m.difficultyCursor--
		}
	case MenuActionDown:
		if m.difficultyCursor < len(snakeDifficulties)-1 {
			m.difficultyCursor++
		}
	case MenuActionSelect:
		m.choosing = false
		m.selection = SnakeSelection{
			GameID:     snakeModes[m.cursor].gameID,
			Difficulty: string(snakeDifficulties[m.difficultyCursor].preset),
		}
		return m, tea.Quit
	case MenuActionBack:
		m.inDifficulty = false
	}

	return m, nil
}

// View renders the mode/difficulty selection.
func (m SnakeModeModel) View() string {
	if m.quitting || m.back {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText("S N A K E", m.width))
	b.WriteString("\n\n")

	if m.inDifficulty {
		b.WriteString(centerText(fmt.Sprintf("%s - select difficulty:", snakeModes[m.cursor].label), m.width))
		b.WriteString("\n\n")
		for i, d := range snakeDifficulties {
			b.WriteString(centerText(menuLine(i == m.difficultyCursor, d.label), m.width))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(centerText("Select game mode:", m.width))
		b.WriteString("\n\n")
		for i, mode := range snakeModes {
			b.WriteString(centerText(menuLine(i == m.cursor, mode.label), m.width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func menuLine(current bool, label string) string {
	if current {
		return "> " + label
	}
	return "  " + label
}

// Selected returns the selection, or nil if still choosing.
func (m SnakeModeModel) Selected() *SnakeSelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsQuitting returns true if user wants to quit.
func (m SnakeModeModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m SnakeModeModel) WantsBack() bool {
	return m.back
}

// RunSnakeModeSelector runs the Snake mode selection and returns the selection,
// or nil if the user backed out.
func RunSnakeModeSelector(cfg core.RuntimeConfig) (*SnakeSelection, error) {
	p := tea.NewProgram(
		NewSnakeModeModel(cfg.ScreenW, cfg.ScreenH),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(SnakeModeModel)
	if !ok || m.IsQuitting() || m.WantsBack() {
		return nil, nil
	}
	return m.Selected(), nil
}
