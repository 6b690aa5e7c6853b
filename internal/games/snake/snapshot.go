package snake

// Snapshot is a read-only copy of a game for renderers, replays and
// determinism checks. It is also the JSON frame sent to WebSocket clients.
type Snapshot struct {
	Tick       uint64    `json:"tick"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	CellSize   int       `json:"cell_size"`
	Snake      []Cell    `json:"snake"`
	Apple      Apple     `json:"apple"`
	Score      int       `json:"score"`
	Length     int       `json:"length"`
	Eaten      int       `json:"eaten"`
	Direction  Direction `json:"direction"`
	Pending    Direction `json:"pending"`
	IntervalMs int64     `json:"interval_ms"`
	Running    bool      `json:"running"`
	Reason     EndReason `json:"reason,omitempty"`
	Won        bool      `json:"won"`
}

// Head returns the head cell, or the zero cell for an empty snapshot.
func (s Snapshot) Head() Cell {
	if len(s.Snake) == 0 {
		return Cell{}
	}
	return s.Snake[0]
}

// Snapshot captures the engine's current state.
func (e *Engine) Snapshot() Snapshot {
	st := e.state
	return Snapshot{
		Tick:       st.Ticks,
		Width:      e.settings.Grid.Width,
		Height:     e.settings.Grid.Height,
		CellSize:   e.settings.CellSize,
		Snake:      st.Snake.Clone(),
		Apple:      st.Apple,
		Score:      st.Score,
		Length:     st.Snake.Len(),
		Eaten:      st.ApplesEaten,
		Direction:  st.Direction,
		Pending:    st.Pending,
		IntervalMs: st.TickInterval.Milliseconds(),
		Running:    st.Running,
		Reason:     st.Reason,
		Won:        st.Won(),
	}
}
