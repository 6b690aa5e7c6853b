package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/storage"
)

func scoreboardUpdate(t *testing.T, m ScoreboardModel, msg tea.Msg) ScoreboardModel {
	t.Helper()
	next, _ := m.Update(msg)
	sb, ok := next.(ScoreboardModel)
	if !ok {
		t.Fatalf("Update() returned %T, expected ScoreboardModel", next)
	}
	return sb
}

func TestScoreboardCyclesVariants(t *testing.T) {
	store := &memStore{saved: []storage.ScoreRecord{
		{GameID: "snake", Player: "ann", Score: 120, Length: 9, EndReason: "self"},
		{GameID: "snake_classic", Player: "bob", Score: 40, Length: 7, EndReason: "wall"},
		{GameID: "snake_classic", Player: "cy", Score: 30, Length: 6, EndReason: "quit"},
	}}

	m := NewScoreboardModel(store, 100, 30)
	if m.variants[m.current].ID != "snake" {
		t.Fatalf("first variant = %q, expected snake", m.variants[m.current].ID)
	}
	if len(m.scores) != 1 {
		t.Errorf("snake scores = %d, expected 1", len(m.scores))
	}
	if view := m.View(); !strings.Contains(view, "bit self") || !strings.Contains(view, "ann") {
		t.Errorf("View() should list ann's run ending in 'bit self':\n%s", view)
	}

	m = scoreboardUpdate(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.variants[m.current].ID != "snake_classic" || len(m.scores) != 2 {
		t.Errorf("after tab: variant %q with %d scores, expected snake_classic with 2",
			m.variants[m.current].ID, len(m.scores))
	}

	// Wraps around in both directions
	m = scoreboardUpdate(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.variants[m.current].ID != "snake" {
		t.Errorf("tab should wrap to snake, got %q", m.variants[m.current].ID)
	}
	m = scoreboardUpdate(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.variants[m.current].ID != "snake_classic" {
		t.Errorf("shift+tab should wrap to snake_classic, got %q", m.variants[m.current].ID)
	}
}

func TestScoreboardWithoutStore(t *testing.T) {
	m := NewScoreboardModel(nil, 80, 24)
	if !strings.Contains(m.View(), "not being recorded") {
		t.Errorf("View() without a store should say scores are not recorded:\n%s", m.View())
	}
}

func TestScoreboardShowsStats(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	for _, score := range []int{50, 150} {
		if _, err := store.SaveScore(storage.ScoreRecord{GameID: "snake", Score: score, Length: 3 + score/10, EndReason: "wall"}); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	m := NewScoreboardModel(store, 100, 30)
	if m.stats == nil {
		t.Fatal("stats should be loaded from a store that aggregates")
	}
	if line := m.statsLine(); !strings.Contains(line, "2 games") || !strings.Contains(line, "best 150") {
		t.Errorf("statsLine() = %q, expected 2 games and best 150", line)
	}
}

func TestScoreboardBackAndQuit(t *testing.T) {
	tests := []struct {
		name      string
		msg       tea.KeyMsg
		goingBack bool
		quitting  bool
	}{
		{"esc goes back", tea.KeyMsg{Type: tea.KeyEsc}, true, false},
		{"b goes back", runes("b"), true, false},
		{"q quits", runes("q"), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := scoreboardUpdate(t, NewScoreboardModel(&memStore{}, 80, 24), tt.msg)
			if m.IsGoingBack() != tt.goingBack || m.IsQuitting() != tt.quitting {
				t.Errorf("back/quit = %v/%v, expected %v/%v",
					m.IsGoingBack(), m.IsQuitting(), tt.goingBack, tt.quitting)
			}
		})
	}
}

func TestEndReasonLabel(t *testing.T) {
	tests := map[string]string{
		"wall":       "wall",
		"self":       "bit self",
		"board_full": "cleared!",
		"quit":       "quit",
		"":           "-",
	}
	for in, expected := range tests {
		if got := endReasonLabel(in); got != expected {
			t.Errorf("endReasonLabel(%q) = %q, expected %q", in, got, expected)
		}
	}
}
