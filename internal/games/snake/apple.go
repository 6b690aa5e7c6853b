package snake

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

// ErrBoardFull is returned when no free cell is left for an apple.
var ErrBoardFull = errors.New("snake: no free cell for an apple")

// ErrEmptyValueTable is returned when a value table has no positive weight.
var ErrEmptyValueTable = errors.New("snake: apple value table has no positive weight")

// DefaultAppleValue is what every apple is worth when values are fixed.
const DefaultAppleValue = 10

// Apple is a piece of food on the grid. It is replaced, never mutated, when eaten.
type Apple struct {
	Position Cell `json:"position"`
	Value    int  `json:"value"`
}

// ValueWeight is one row of a ValueTable.
type ValueWeight struct {
	Value  int
	Weight int
}

// ValueTable is a discrete weighted distribution of apple values.
type ValueTable struct {
	entries []ValueWeight
	total   int
}

// NewValueTable builds a table from value/weight rows. Rows with zero weight
// are dropped; duplicate values have their weights summed.
func NewValueTable(rows []ValueWeight) (ValueTable, error) {
	merged := make(map[int]int)
	for _, r := range rows {
		if r.Weight < 0 {
			return ValueTable{}, fmt.Errorf("snake: negative weight %d for value %d", r.Weight, r.Value)
		}
		if r.Weight > 0 {
			merged[r.Value] += r.Weight
		}
	}
	if len(merged) == 0 {
		return ValueTable{}, ErrEmptyValueTable
	}

	t := ValueTable{entries: make([]ValueWeight, 0, len(merged))}
	for v, w := range merged {
		t.entries = append(t.entries, ValueWeight{Value: v, Weight: w})
		t.total += w
	}
	// Stable order keeps sampling deterministic for a given seed
	sort.Slice(t.entries, func(i, j int) bool {
		return t.entries[i].Value < t.entries[j].Value
	})
	return t, nil
}

// FixedValueTable always yields the same value.
func FixedValueTable(value int) ValueTable {
	return ValueTable{entries: []ValueWeight{{Value: value, Weight: 1}}, total: 1}
}

// DefaultValueTable is the standard distribution: 0, 5, 10, 20 and 30 points
// with weights 1, 2, 6, 2 and 1 out of 12.
func DefaultValueTable() ValueTable {
	t, _ := NewValueTable([]ValueWeight{
		{Value: 0, Weight: 1},
		{Value: 5, Weight: 2},
		{Value: 10, Weight: 6},
		{Value: 20, Weight: 2},
		{Value: 30, Weight: 1},
	})
	return t
}

// Sample draws a value in proportion to its weight.
func (t ValueTable) Sample(rng *rand.Rand) int {
	if t.total == 0 {
		return DefaultAppleValue
	}
	r := rng.Intn(t.total)
	for _, e := range t.entries {
		if r < e.Weight {
			return e.Value
		}
		r -= e.Weight
	}
	return t.entries[len(t.entries)-1].Value
}

// Probability returns the chance of drawing value v.
func (t ValueTable) Probability(v int) float64 {
	if t.total == 0 {
		return 0
	}
	for _, e := range t.entries {
		if e.Value == v {
			return float64(e.Weight) / float64(t.total)
		}
	}
	return 0
}

// Values returns the distinct values in ascending order.
func (t ValueTable) Values() []int {
	out := make([]int, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Value
	}
	return out
}

// Spawner places apples on free cells.
type Spawner struct {
	grid        Grid
	values      ValueTable
	maxAttempts int
	rng         *rand.Rand
}

// NewSpawner creates a spawner. maxAttempts caps random sampling before it
// falls back to scanning the free cells.
func NewSpawner(grid Grid, values ValueTable, maxAttempts int, rng *rand.Rand) *Spawner {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Spawner{
		grid:        grid,
		values:      values,
		maxAttempts: maxAttempts,
		rng:         rng,
	}
}

// Spawn returns an apple on a cell that is not in forbidden.
// Returns ErrBoardFull when every cell is forbidden.
func (s *Spawner) Spawn(forbidden []Cell) (Apple, error) {
	taken := make(map[Cell]struct{}, len(forbidden))
	for _, c := range forbidden {
		if s.grid.InBounds(c) {
			taken[c] = struct{}{}
		}
	}
	if len(taken) >= s.grid.Area() {
		return Apple{}, ErrBoardFull
	}

	pos, ok := s.sample(taken)
	if !ok {
		pos = s.scan(taken)
	}
	return Apple{Position: pos, Value: s.values.Sample(s.rng)}, nil
}

// sample tries random cells until one is free or the attempt cap is hit.
func (s *Spawner) sample(taken map[Cell]struct{}) (Cell, bool) {
	for range s.maxAttempts {
		c := s.grid.RandomCell(s.rng)
		if _, occupied := taken[c]; !occupied {
			return c, true
		}
	}
	return Cell{}, false
}

// scan picks uniformly among the free cells. Only reached on crowded boards.
func (s *Spawner) scan(taken map[Cell]struct{}) Cell {
	free := make([]Cell, 0, s.grid.Area()-len(taken))
	for y := 0; y < s.grid.Height; y++ {
		for x := 0; x < s.grid.Width; x++ {
			c := Cell{X: x, Y: y}
			if _, occupied := taken[c]; !occupied {
				free = append(free, c)
			}
		}
	}
	return free[s.rng.Intn(len(free))]
}
