package snake

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/tui-snake/internal/config"
)

const pixelSize = 15

func newTestEngine(t *testing.T, seed int64) *Engine {
	t.Helper()
	settings, err := SettingsFromConfig(config.DefaultSnakeConfig())
	if err != nil {
		t.Fatalf("SettingsFromConfig() failed: %v", err)
	}
	e, err := NewEngine(settings, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("NewEngine() failed: %v", err)
	}
	return e
}

// pixels converts pixel coordinates at cell size 15 into a Body.
func pixels(pts ...[2]int) Body {
	b := make(Body, len(pts))
	for i, p := range pts {
		b[i] = CellFromPixels(p[0], p[1], pixelSize)
	}
	return b
}

// farApple keeps the apple out of the snake's way.
var farApple = Apple{Position: Cell{X: 20, Y: 20}, Value: 10}

func TestInitialState(t *testing.T) {
	e := newTestEngine(t, 1)
	st := e.State()

	expected := pixels([2]int{45, 45}, [2]int{30, 45}, [2]int{15, 45})
	if !reflect.DeepEqual(st.Snake, expected) {
		t.Errorf("initial snake = %v, expected %v", st.Snake, expected)
	}
	if st.Direction != DirRight || st.Pending != DirRight {
		t.Errorf("initial direction = %v/%v, expected right/right", st.Direction, st.Pending)
	}
	if st.Score != 0 || !st.Running {
		t.Errorf("initial score/running = %d/%v, expected 0/true", st.Score, st.Running)
	}
	if st.TickInterval != 150*time.Millisecond {
		t.Errorf("initial interval = %s, expected 150ms", st.TickInterval)
	}
	if st.Snake.Contains(st.Apple.Position) {
		t.Errorf("apple %v spawned on the snake", st.Apple.Position)
	}
}

func TestMoveRight(t *testing.T) {
	e := newTestEngine(t, 1)
	e.state.Apple = farApple

	out := e.Tick()

	expected := pixels([2]int{60, 45}, [2]int{45, 45}, [2]int{30, 45})
	if got := e.State().Snake; !reflect.DeepEqual(got, expected) {
		t.Errorf("snake after one move = %v, expected %v", got, expected)
	}
	if !out.Continue || out.Interval != 150*time.Millisecond {
		t.Errorf("outcome = %+v, expected continue after 150ms", out)
	}
}

func TestWallCollision(t *testing.T) {
	e := newTestEngine(t, 1)
	head := CellFromPixels(590, 45, pixelSize)
	e.state.Snake = NewBody(head, 3, DirRight)
	e.state.Apple = farApple

	out := e.Tick()

	st := e.State()
	if st.Running {
		t.Fatal("moving past the right edge should end the game")
	}
	if st.Status() != StatusOver {
		t.Errorf("Status() = %v, expected over", st.Status())
	}
	if st.Reason != ReasonWall || out.Reason != ReasonWall {
		t.Errorf("reason = %q/%q, expected wall", st.Reason, out.Reason)
	}
	if out.Continue {
		t.Error("no further tick should be scheduled after game over")
	}

	// Ticking a finished game changes nothing
	before := e.State()
	if out := e.Tick(); out.Continue {
		t.Error("Tick() on a finished game should not continue")
	}
	if !reflect.DeepEqual(before, e.State()) {
		t.Error("Tick() on a finished game should not change state")
	}
}

func TestSelfCollision(t *testing.T) {
	overlapping := pixels([2]int{30, 30}, [2]int{15, 30}, [2]int{30, 30})
	if !overlapping.HitsSelf() {
		t.Fatalf("HitsSelf(%v) = false, expected true", overlapping)
	}

	e := newTestEngine(t, 1)
	// Moving left along the top, then turning down into its own body
	e.state.Snake = Body{{1, 1}, {2, 1}, {2, 2}, {1, 2}, {0, 2}}
	e.state.Direction = DirLeft
	e.state.Pending = DirLeft
	e.state.Apple = farApple

	if !e.ChangeDirection(DirDown) {
		t.Fatal("ChangeDirection(down) while moving left should be accepted")
	}
	out := e.Tick()

	if e.state.Running || out.Reason != ReasonSelf {
		t.Errorf("running=%v reason=%q, expected self collision", e.state.Running, out.Reason)
	}
}

func TestMovingIntoVacatedTailIsSafe(t *testing.T) {
	e := newTestEngine(t, 1)
	// A 2x2 loop: the head chases the tail, which moves away this tick
	e.state.Snake = Body{{5, 5}, {6, 5}, {6, 6}, {5, 6}}
	e.state.Direction = DirLeft
	e.state.Pending = DirDown
	e.state.Apple = farApple

	if out := e.Tick(); !out.Continue {
		t.Errorf("entering the cell the tail just left should be safe, got %+v", out)
	}
}

func TestEatApple(t *testing.T) {
	e := newTestEngine(t, 7)
	before := e.State()
	e.state.Apple = Apple{Position: before.Snake.Head().Add(DirRight), Value: 20}

	out := e.Tick()
	st := e.State()

	if !out.Ate || out.Eaten.Value != 20 {
		t.Errorf("outcome = %+v, expected the 20-point apple eaten", out)
	}
	if st.Score != 20 {
		t.Errorf("score = %d, expected 20", st.Score)
	}
	if st.Snake.Len() != before.Snake.Len()+1 {
		t.Errorf("length = %d, expected %d", st.Snake.Len(), before.Snake.Len()+1)
	}
	if st.Snake.Tail() != st.Snake[st.Snake.Len()-2] {
		t.Error("new segment should sit on the previous tail")
	}
	if st.Snake.Contains(st.Apple.Position) {
		t.Errorf("respawned apple %v is on the grown snake %v", st.Apple.Position, st.Snake)
	}
	if !e.settings.Grid.InBounds(st.Apple.Position) {
		t.Errorf("respawned apple %v is off the grid", st.Apple.Position)
	}
	if st.ApplesEaten != 1 {
		t.Errorf("ApplesEaten = %d, expected 1", st.ApplesEaten)
	}
}

func TestSpeedRampOnEating(t *testing.T) {
	tests := []struct {
		name     string
		score    int
		value    int
		interval time.Duration
		expected time.Duration
	}{
		{"crosses 100", 90, 20, 150 * time.Millisecond, 140 * time.Millisecond},
		{"lands on 100", 90, 10, 150 * time.Millisecond, 140 * time.Millisecond},
		{"no crossing", 10, 20, 150 * time.Millisecond, 150 * time.Millisecond},
		{"floored at minimum", 195, 30, 55 * time.Millisecond, 50 * time.Millisecond},
		{"already at minimum", 290, 20, 50 * time.Millisecond, 50 * time.Millisecond},
		{"zero-value apple", 100, 0, 150 * time.Millisecond, 150 * time.Millisecond},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(t, 3)
			e.state.Score = tc.score
			e.state.TickInterval = tc.interval
			e.state.Apple = Apple{Position: e.state.Snake.Head().Add(DirRight), Value: tc.value}

			out := e.Tick()

			if e.state.TickInterval != tc.expected {
				t.Errorf("interval = %s, expected %s", e.state.TickInterval, tc.expected)
			}
			if out.Interval != tc.expected {
				t.Errorf("outcome interval = %s, expected %s", out.Interval, tc.expected)
			}
			if out.SpedUp != (tc.expected < tc.interval) {
				t.Errorf("SpedUp = %v", out.SpedUp)
			}
		})
	}
}

func TestSpeedRampDisabled(t *testing.T) {
	cfg := config.DefaultSnakeConfig()
	config.ApplySnakePreset(&cfg, config.DifficultyFixed)
	settings, err := SettingsFromConfig(cfg)
	if err != nil {
		t.Fatalf("SettingsFromConfig() failed: %v", err)
	}
	e, err := NewEngine(settings, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewEngine() failed: %v", err)
	}

	e.state.Score = 95
	e.state.Apple = Apple{Position: e.state.Snake.Head().Add(DirRight), Value: 30}
	e.Tick()

	if e.state.TickInterval != 150*time.Millisecond {
		t.Errorf("interval = %s, expected 150ms with the ramp off", e.state.TickInterval)
	}
}

func TestChangeDirection(t *testing.T) {
	for _, current := range Directions {
		for _, requested := range Directions {
			e := newTestEngine(t, 1)
			e.state.Direction = current
			e.state.Pending = current

			accepted := e.ChangeDirection(requested)

			if requested == current.Opposite() {
				if accepted || e.state.Pending != current {
					t.Errorf("%v -> %v: reversal accepted, pending = %v", current, requested, e.state.Pending)
				}
				continue
			}
			if !accepted || e.state.Pending != requested {
				t.Errorf("%v -> %v: pending = %v, expected %v", current, requested, e.state.Pending, requested)
			}
		}
	}
}

func TestChangeDirectionJudgedAgainstAppliedDirection(t *testing.T) {
	e := newTestEngine(t, 1)
	e.state.Apple = farApple

	// Down is buffered but not yet applied; left still reverses the applied right
	e.ChangeDirection(DirDown)
	if e.ChangeDirection(DirLeft) {
		t.Error("left should be rejected while right is the applied direction")
	}
	if e.state.Pending != DirDown {
		t.Errorf("pending = %v, expected down", e.state.Pending)
	}

	// Up is not a reversal of right, so it overwrites the buffered down
	if !e.ChangeDirection(DirUp) {
		t.Error("up should be accepted while right is the applied direction")
	}
	if e.state.Pending != DirUp {
		t.Errorf("pending = %v, expected up (last writer wins)", e.state.Pending)
	}

	e.Tick()
	if e.state.Direction != DirUp {
		t.Errorf("applied direction = %v, expected up", e.state.Direction)
	}
}

func TestChangeDirectionIgnoresInvalid(t *testing.T) {
	e := newTestEngine(t, 1)
	if e.ChangeDirection(Direction(42)) {
		t.Error("an unknown direction should be ignored")
	}
	if e.state.Pending != DirRight {
		t.Errorf("pending = %v, expected right", e.state.Pending)
	}
}

func TestResetIsIdempotent(t *testing.T) {
	e := newTestEngine(t, 11)
	for range 5 {
		e.Tick()
	}

	if err := e.Reset(); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	first := e.State()
	if err := e.Reset(); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	second := e.State()

	for _, st := range []GameState{first, second} {
		if st.Snake.Contains(st.Apple.Position) {
			t.Errorf("apple %v placed on the snake", st.Apple.Position)
		}
	}

	first.Apple, second.Apple = Apple{}, Apple{}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Reset() twice differs beyond the apple:\n%+v\n%+v", first, second)
	}
}

func TestRestart(t *testing.T) {
	e := newTestEngine(t, 5)
	e.state.Apple = farApple
	e.Tick()

	before := e.State()
	restarted, err := e.Restart()
	if err != nil || restarted {
		t.Fatalf("Restart() while running = %v, %v; expected no-op", restarted, err)
	}
	if !reflect.DeepEqual(before, e.State()) {
		t.Error("Restart() while running should not change state")
	}

	// Drive into the top wall
	e.ChangeDirection(DirUp)
	for e.state.Running {
		e.Tick()
	}

	restarted, err = e.Restart()
	if err != nil || !restarted {
		t.Fatalf("Restart() after game over = %v, %v; expected restart", restarted, err)
	}
	st := e.State()
	if !st.Running || st.Score != 0 || st.Ticks != 0 || st.Reason != ReasonNone {
		t.Errorf("state after restart = %+v, expected a fresh game", st)
	}
	if !reflect.DeepEqual(st.Snake, e.settings.Start) {
		t.Errorf("snake after restart = %v, expected %v", st.Snake, e.settings.Start)
	}
}

func TestBoardFullEndsGame(t *testing.T) {
	settings := Settings{
		Grid:         Grid{Width: 3, Height: 1},
		CellSize:     pixelSize,
		Start:        NewBody(Cell{X: 1, Y: 0}, 2, DirRight),
		StartDir:     DirRight,
		BaseInterval: 150 * time.Millisecond,
		Values:       FixedValueTable(10),
		MaxAttempts:  5,
	}
	e, err := NewEngine(settings, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewEngine() failed: %v", err)
	}
	if e.state.Apple.Position != (Cell{X: 2, Y: 0}) {
		t.Fatalf("apple = %v, expected the only free cell (2, 0)", e.state.Apple.Position)
	}

	out := e.Tick()

	if out.Continue || out.Reason != ReasonBoardFull {
		t.Errorf("outcome = %+v, expected board_full stop", out)
	}
	if !e.state.Won() {
		t.Error("filling the board should count as a win")
	}
	if e.state.Score != 10 {
		t.Errorf("score = %d, expected 10", e.state.Score)
	}

	// The grown tail sits on a cell twice, leaving one cell free
	occupied := make(map[Cell]bool)
	for _, c := range e.state.Snake {
		occupied[c] = true
	}
	if e.state.Snake.Len() != 3 || len(occupied) != 2 {
		t.Errorf("snake = %v, expected 3 segments on 2 distinct cells", e.state.Snake)
	}
}

func TestAdvanceDoesNotModifyInput(t *testing.T) {
	e := newTestEngine(t, 9)
	e.state.Apple = Apple{Position: e.state.Snake.Head().Add(DirRight), Value: 5}
	before := e.State()
	snapshot := before.Clone()

	next, _ := e.Advance(before)

	if !reflect.DeepEqual(before, snapshot) {
		t.Error("Advance() modified its input state")
	}
	if reflect.DeepEqual(next.Snake, before.Snake) {
		t.Error("Advance() should have moved the snake")
	}
}

func TestSettingsFromConfigClassic(t *testing.T) {
	cfg := config.DefaultSnakeConfig()
	cfg.Apples.Variable = false
	cfg.Apples.FixedValue = 10

	settings, err := SettingsFromConfig(cfg)
	if err != nil {
		t.Fatalf("SettingsFromConfig() failed: %v", err)
	}
	if got := settings.Values.Values(); !reflect.DeepEqual(got, []int{10}) {
		t.Errorf("values = %v, expected [10]", got)
	}
}

func TestSettingsFromConfigRejectsDegenerateGrid(t *testing.T) {
	cfg := config.DefaultSnakeConfig()
	cfg.Grid.Height = 0
	if _, err := SettingsFromConfig(cfg); err == nil {
		t.Error("SettingsFromConfig() should reject a 40x0 grid")
	}
}
