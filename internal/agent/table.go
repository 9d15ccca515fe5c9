package agent

import "fmt"

// Table is the dense action-value store indexed by (x bucket, y bucket, action).
//
// A single Table lives for the whole process and is shared by every trial;
// it is never reset. It is not safe for concurrent use: the tick loop is the
// only writer and runs on one goroutine.
type Table struct {
	xs, ys int
	cells  [][][NumActions]float64
}

// Cell is one entry of the table, used to snapshot and restore it.
type Cell struct {
	X, Y   int
	Action Action
	Value  float64
}

// NewTable creates a zero-initialized table.
func NewTable(xBuckets, yBuckets int) *Table {
	t := &Table{xs: xBuckets, ys: yBuckets}
	t.cells = make([][][NumActions]float64, xBuckets)
	for x := range t.cells {
		t.cells[x] = make([][NumActions]float64, yBuckets)
	}
	return t
}

// Dims returns the number of x and y buckets.
func (t *Table) Dims() (int, int) {
	return t.xs, t.ys
}

// Get returns the value of taking action a in state s.
// Indices are not repaired; callers pass states produced by a Discretizer.
func (t *Table) Get(s State, a Action) float64 {
	return t.cells[s.X][s.Y][a]
}

// Set overwrites the value of taking action a in state s.
func (t *Table) Set(s State, a Action, v float64) {
	t.cells[s.X][s.Y][a] = v
}

// MaxOverActions returns the best value reachable from state s.
func (t *Table) MaxOverActions(s State) float64 {
	row := t.cells[s.X][s.Y]
	best := row[0]
	for _, v := range row[1:] {
		if v > best {
			best = v
		}
	}
	return best
}

// Each calls fn for every entry in (x, y, action) order.
func (t *Table) Each(fn func(s State, a Action, v float64)) {
	for x := range t.cells {
		for y := range t.cells[x] {
			for a, v := range t.cells[x][y] {
				fn(State{X: x, Y: y}, Action(a), v)
			}
		}
	}
}

// Snapshot returns every entry of the table.
func (t *Table) Snapshot() []Cell {
	out := make([]Cell, 0, t.xs*t.ys*NumActions)
	t.Each(func(s State, a Action, v float64) {
		out = append(out, Cell{X: s.X, Y: s.Y, Action: a, Value: v})
	})
	return out
}

// Restore writes previously snapshotted entries back into the table.
// Unlike Set it validates every index, since the cells come from storage.
func (t *Table) Restore(cells []Cell) error {
	for _, c := range cells {
		if c.X < 0 || c.X >= t.xs || c.Y < 0 || c.Y >= t.ys || c.Action < 0 || c.Action >= NumActions {
			return fmt.Errorf("agent: cell (%d, %d, %s) outside %dx%d table", c.X, c.Y, c.Action, t.xs, t.ys)
		}
	}
	for _, c := range cells {
		t.cells[c.X][c.Y][c.Action] = c.Value
	}
	return nil
}

// Visited counts the states where the two actions are no longer tied,
// a rough measure of how much of the table learning has touched.
func (t *Table) Visited() int {
	n := 0
	for x := range t.cells {
		for y := range t.cells[x] {
			if t.cells[x][y][ActionIdle] != t.cells[x][y][ActionFlap] {
				n++
			}
		}
	}
	return n
}
