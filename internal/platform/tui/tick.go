// Package tui provides the Bubble Tea integration for snake.
// It handles the terminal UI loop, input mapping, and tick scheduling.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
// Gen ties the tick to the game it was scheduled for; ticks from a
// replaced game are dropped.
type TickMsg struct {
	Time time.Time
	Gen  int
}

// tickCmd schedules a single tick after interval. The game decides the next
// interval on every step, so ticks are chained one at a time.
func tickCmd(gen int, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, Gen: gen}
	})
}
