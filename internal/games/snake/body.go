package snake

// Body is the snake's cells, head first. Operations return new slices and
// never modify the receiver, so a Body held by an old GameState stays valid.
type Body []Cell

// NewBody lays out a straight snake of the given length with its head at
// head, trailing away from dir.
func NewBody(head Cell, length int, dir Direction) Body {
	length = max(length, 1)
	back := dir.Opposite()
	b := make(Body, length)
	b[0] = head
	for i := 1; i < length; i++ {
		b[i] = b[i-1].Add(back)
	}
	return b
}

// Head returns the first segment.
func (b Body) Head() Cell {
	return b[0]
}

// Tail returns the last segment.
func (b Body) Tail() Cell {
	return b[len(b)-1]
}

// Len returns the number of segments.
func (b Body) Len() int {
	return len(b)
}

// Move advances the head one cell in dir; every other segment takes its
// predecessor's former place. Length is unchanged.
func (b Body) Move(dir Direction) Body {
	next := make(Body, len(b))
	next[0] = b[0].Add(dir)
	copy(next[1:], b[:len(b)-1])
	return next
}

// Grow appends a segment on top of the current tail. It separates from the
// tail on the next move.
func (b Body) Grow() Body {
	next := make(Body, len(b), len(b)+1)
	copy(next, b)
	return append(next, b.Tail())
}

// Contains reports whether any segment occupies c.
func (b Body) Contains(c Cell) bool {
	for _, seg := range b {
		if seg == c {
			return true
		}
	}
	return false
}

// HitsSelf reports whether the head shares a cell with any other segment.
func (b Body) HitsSelf() bool {
	head := b[0]
	for _, seg := range b[1:] {
		if seg == head {
			return true
		}
	}
	return false
}

// Clone returns an independent copy.
func (b Body) Clone() Body {
	out := make(Body, len(b))
	copy(out, b)
	return out
}
