package web

import "github.com/vovakirdan/tui-snake/internal/games/snake"

// Client message types.
const (
	TypeDirection = "direction"
	TypeRestart   = "restart"
)

// Server message types.
const (
	TypeSnapshot = "snapshot"
	TypeError    = "error"
)

// ClientMessage is what browsers send, e.g.
// {"type":"direction","direction":"up"} or {"type":"restart"}.
type ClientMessage struct {
	Type      string `json:"type"`
	Direction string `json:"direction,omitempty"`
}

// ServerMessage is what the server pushes to every client.
type ServerMessage struct {
	Type     string          `json:"type"`
	Snapshot *snake.Snapshot `json:"snapshot,omitempty"`
	Error    string          `json:"error,omitempty"`
}

func snapshotMessage(snap snake.Snapshot) ServerMessage {
	return ServerMessage{Type: TypeSnapshot, Snapshot: &snap}
}

func errorMessage(text string) ServerMessage {
	return ServerMessage{Type: TypeError, Error: text}
}
