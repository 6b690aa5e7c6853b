package snake

import "time"

// Status is the rules engine's state.
type Status int

const (
	StatusRunning Status = iota
	StatusOver
)

func (s Status) String() string {
	if s == StatusOver {
		return "over"
	}
	return "running"
}

// EndReason records why a game stopped.
type EndReason string

const (
	ReasonNone      EndReason = ""
	ReasonWall      EndReason = "wall"
	ReasonSelf      EndReason = "self"
	ReasonBoardFull EndReason = "board_full" // Nowhere left to put an apple
)

// GameState is the single source of truth for one game.
// The engine replaces it wholesale on every tick.
type GameState struct {
	Snake        Body
	Direction    Direction // Applied on the last tick
	Pending      Direction // Applied on the next tick
	Apple        Apple
	Score        int
	Running      bool
	TickInterval time.Duration
	Reason       EndReason
	Ticks        uint64
	ApplesEaten  int
}

// Status derives the state machine state from Running.
func (s GameState) Status() Status {
	if s.Running {
		return StatusRunning
	}
	return StatusOver
}

// Won reports whether the game ended because the snake filled the board.
func (s GameState) Won() bool {
	return !s.Running && s.Reason == ReasonBoardFull
}

// Clone returns a copy that shares no memory with s.
func (s GameState) Clone() GameState {
	s.Snake = s.Snake.Clone()
	return s
}
