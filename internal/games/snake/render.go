package snake

import (
	"fmt"

	"github.com/vovakirdan/tui-snake/internal/core"
)

const hudHeight = 2 // Status line plus separator

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.engine == nil {
		return
	}

	g.renderHUD(dst)

	board := g.boardRect(dst)
	if board.Right() > dst.Width() || board.Bottom() > dst.Height() {
		g.renderOverlay(dst, "Window too small",
			fmt.Sprintf("Need %dx%d", board.W, board.H+hudHeight))
		return
	}

	dst.DrawBox(board, core.ColorGray)
	g.renderApple(dst, board)
	g.renderSnake(dst, board)

	st := g.engine.state
	switch {
	case st.Won():
		g.renderOverlay(dst, "Board cleared!", fmt.Sprintf("Final Score: %d", st.Score))
	case !st.Running:
		g.renderOverlay(dst, "Game Over - "+reasonText(st.Reason), "Press R to restart")
	}
}

// boardRect returns the bordered playfield, centered below the HUD.
// A board wider than the screen is pinned to the left edge.
func (g *Game) boardRect(dst *core.Screen) core.Rect {
	grid := g.engine.settings.Grid
	w, h := grid.Width+2, grid.Height+2
	x := core.Clamp((dst.Width()-w)/2, 0, max(dst.Width()-w, 0))
	return core.NewRect(x, hudHeight, w, h)
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *core.Screen) {
	st := g.engine.state
	hud := fmt.Sprintf(" %s | Score: %d  Length: %d  Speed: %dms",
		g.Title(), st.Score, st.Snake.Len(), st.TickInterval.Milliseconds())
	if g.hasEaten {
		hud += fmt.Sprintf("  Last: +%d", g.lastValue)
	}
	dst.DrawText(0, 0, hud)

	for x := range dst.Width() {
		dst.Set(x, 1, '─')
	}
}

// renderSnake draws the snake; the head is drawn last so it stays visible
// when it overlaps a segment.
func (g *Game) renderSnake(dst *core.Screen, board core.Rect) {
	body := g.engine.state.Snake
	for i := len(body) - 1; i >= 0; i-- {
		seg := body[i]
		if !g.engine.settings.Grid.InBounds(seg) {
			continue
		}
		x, y := board.X+1+seg.X, board.Y+1+seg.Y
		if i == 0 {
			dst.SetColored(x, y, 'O', core.ColorBrightGreen)
		} else {
			dst.SetColored(x, y, 'o', core.ColorGreen)
		}
	}
}

// renderApple draws the apple, colored by its value.
func (g *Game) renderApple(dst *core.Screen, board core.Rect) {
	apple := g.engine.state.Apple
	dst.SetColored(board.X+1+apple.Position.X, board.Y+1+apple.Position.Y, '●', appleColor(apple.Value))
}

func appleColor(value int) core.Color {
	switch {
	case value <= 0:
		return core.ColorGray
	case value < 10:
		return core.ColorYellow
	case value < 20:
		return core.ColorRed
	case value < 30:
		return core.ColorOrange
	default:
		return core.ColorMagenta
	}
}

func reasonText(r EndReason) string {
	switch r {
	case ReasonWall:
		return "hit the wall"
	case ReasonSelf:
		return "bit yourself"
	case ReasonBoardFull:
		return "board full"
	default:
		return "stopped"
	}
}

// renderOverlay draws a centered two-line message box.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	width := max(len([]rune(line1)), len([]rune(line2))) + 4
	box := dst.Bounds().Centered(width, 5)

	dst.FillRect(box, ' ')
	dst.DrawBox(box, core.ColorWhite)
	dst.DrawTextCentered(box.Y+1, line1)
	dst.DrawTextCentered(box.Y+3, line2)
}
