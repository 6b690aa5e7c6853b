package snake

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/registry"
)

func newTestGame(t *testing.T, mode Mode, seed int64) *Game {
	t.Helper()
	g := NewWithConfig(mode, config.DefaultSnakeConfig())
	if err := g.Reset(core.RuntimeConfig{Seed: seed, ScreenW: 80, ScreenH: 40}); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	return g
}

func TestDeterminism(t *testing.T) {
	// Two games with the same seed and inputs should produce identical snapshots
	g1 := newTestGame(t, ModeWeighted, 12345)
	g2 := newTestGame(t, ModeWeighted, 12345)

	for i := 0; i < 100; i++ {
		if i == 5 {
			g1.Input(core.ActionDown)
			g2.Input(core.ActionDown)
		}
		if i == 15 {
			g1.Input(core.ActionRight)
			g2.Input(core.ActionRight)
		}
		g1.Step()
		g2.Step()
	}

	snap1, snap2 := g1.Snapshot(), g2.Snapshot()
	if !reflect.DeepEqual(snap1, snap2) {
		t.Errorf("Snapshot mismatch:\n%+v\n%+v", snap1, snap2)
	}
}

func TestNoImmediateReversal(t *testing.T) {
	g := newTestGame(t, ModeWeighted, 42)

	g.Input(core.ActionLeft)
	if got := g.Snapshot().Pending; got != DirRight {
		t.Errorf("Pending after reversal = %v, expected right", got)
	}

	g.Input(core.ActionUp)
	if got := g.Snapshot().Pending; got != DirUp {
		t.Errorf("Pending after up = %v, expected up", got)
	}
}

func TestInputActions(t *testing.T) {
	tests := []struct {
		action  core.Action
		pending Direction
	}{
		{core.ActionUp, DirUp},
		{core.ActionDown, DirDown},
		{core.ActionRight, DirRight},
		{core.ActionNone, DirRight},
		{core.ActionBack, DirRight},
		{core.ActionConfirm, DirRight},
	}

	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			g := newTestGame(t, ModeWeighted, 42)
			if g.Input(tt.action) {
				t.Errorf("Input(%v) = true, expected false", tt.action)
			}
			if got := g.Snapshot().Pending; got != tt.pending {
				t.Errorf("Pending after %v = %v, expected %v", tt.action, got, tt.pending)
			}
		})
	}
}

func TestRestartFailureIsLogged(t *testing.T) {
	g := newTestGame(t, ModeWeighted, 5)
	var buf bytes.Buffer
	g.SetLogger(log.New(&buf))

	g.engine.state.Running = false
	g.engine.state.Reason = ReasonWall

	// A start layout covering every cell leaves nowhere for the first apple
	grid := g.engine.settings.Grid
	full := make(Body, 0, grid.Area())
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			full = append(full, Cell{X: x, Y: y})
		}
	}
	g.engine.settings.Start = full

	if g.Input(core.ActionRestart) {
		t.Fatal("Input(Restart) = true, expected false when no apple fits")
	}
	if !strings.Contains(buf.String(), "restart failed") {
		t.Errorf("log output = %q, expected a restart failure", buf.String())
	}
	if !g.State().GameOver {
		t.Error("failed restart should leave the game over")
	}
}

func TestStepReportsInterval(t *testing.T) {
	g := newTestGame(t, ModeWeighted, 1)
	g.engine.state.Apple = farApple

	res := g.Step()

	if !res.Continue {
		t.Fatal("Step() should continue on a free move")
	}
	if res.Next != g.Interval() || res.Next.Milliseconds() != 150 {
		t.Errorf("Step().Next = %s, expected 150ms", res.Next)
	}
	if res.State.Length != 3 || res.State.GameOver {
		t.Errorf("Step().State = %+v, expected a running length-3 snake", res.State)
	}
}

func TestGameOverAndRestart(t *testing.T) {
	g := newTestGame(t, ModeWeighted, 3)
	g.engine.state.Apple = farApple

	if g.Input(core.ActionRestart) {
		t.Error("Input(Restart) while running should not restart")
	}

	g.Input(core.ActionUp)
	var res core.StepResult
	for i := 0; i < 10; i++ {
		res = g.Step()
		if !res.Continue {
			break
		}
	}
	if res.Continue || !res.State.GameOver || res.State.Reason != string(ReasonWall) {
		t.Fatalf("Step() = %+v, expected wall game over", res)
	}

	if !g.Input(core.ActionRestart) {
		t.Fatal("Input(Restart) after game over should restart")
	}
	if st := g.State(); st.GameOver || st.Score != 0 {
		t.Errorf("State() after restart = %+v, expected fresh game", st)
	}
}

func TestLastAppleValueTracked(t *testing.T) {
	g := newTestGame(t, ModeWeighted, 8)
	head := g.engine.state.Snake.Head()
	g.engine.state.Apple = Apple{Position: head.Add(DirRight), Value: 30}

	g.Step()

	if !g.hasEaten || g.lastValue != 30 {
		t.Errorf("lastValue = %d (hasEaten %v), expected 30", g.lastValue, g.hasEaten)
	}
	if g.State().Score != 30 {
		t.Errorf("Score = %d, expected 30", g.State().Score)
	}
}

func TestClassicModeFixedValues(t *testing.T) {
	g := newTestGame(t, ModeClassic, 99)
	if got := g.engine.settings.Values.Values(); !reflect.DeepEqual(got, []int{DefaultAppleValue}) {
		t.Errorf("classic values = %v, expected [%d]", got, DefaultAppleValue)
	}
	if g.ID() != "snake_classic" || g.Title() != "Snake (Classic)" {
		t.Errorf("ID/Title = %q/%q", g.ID(), g.Title())
	}
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{"snake", "snake_classic"} {
		if !registry.Exists(id) {
			t.Errorf("game %q is not registered", id)
		}
	}

	g, err := registry.Create("snake")
	if err != nil {
		t.Fatalf("Create(snake) failed: %v", err)
	}
	if g.ID() != "snake" {
		t.Errorf("ID() = %q, expected snake", g.ID())
	}
}

func TestRender(t *testing.T) {
	g := newTestGame(t, ModeWeighted, 4)
	screen := core.NewScreen(80, 40)

	g.Render(screen)

	if hud := screen.Row(0); !strings.Contains(hud, "Score: 0") || !strings.Contains(hud, "Length: 3") {
		t.Errorf("HUD = %q, expected score and length", hud)
	}

	board := g.boardRect(screen)
	head := g.engine.state.Snake.Head()
	if r := screen.Get(board.X+1+head.X, board.Y+1+head.Y); r != 'O' {
		t.Errorf("head cell = %q, expected 'O'", r)
	}
	apple := g.engine.state.Apple.Position
	if r := screen.Get(board.X+1+apple.X, board.Y+1+apple.Y); r != '●' {
		t.Errorf("apple cell = %q, expected '●'", r)
	}
}

func TestRenderGameOverOverlay(t *testing.T) {
	g := newTestGame(t, ModeWeighted, 4)
	g.engine.state.Running = false
	g.engine.state.Reason = ReasonSelf
	screen := core.NewScreen(80, 40)

	g.Render(screen)

	if out := screen.String(); !strings.Contains(out, "Game Over - bit yourself") {
		t.Error("game over overlay not drawn")
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := newTestGame(t, ModeWeighted, 4)
	screen := core.NewScreen(30, 12)

	g.Render(screen)

	if out := screen.String(); !strings.Contains(out, "Window too small") {
		t.Errorf("expected the too-small notice, got:\n%s", out)
	}
}

func TestBoardRectPinnedOnNarrowScreens(t *testing.T) {
	g := newTestGame(t, ModeWeighted, 4)
	w := g.engine.settings.Grid.Width + 2

	tests := []struct {
		screenW int
		x       int
	}{
		{80, (80 - w) / 2},
		{w, 0},
		{30, 0},
	}
	for _, tt := range tests {
		if got := g.boardRect(core.NewScreen(tt.screenW, 40)).X; got != tt.x {
			t.Errorf("boardRect(width %d).X = %d, expected %d", tt.screenW, got, tt.x)
		}
	}
}
