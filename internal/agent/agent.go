package agent

import (
	"github.com/vovakirdan/flappyq/internal/config"
	"github.com/vovakirdan/flappyq/internal/core"
)

// Agent bundles the discretizer with the table it indexes.
// The table is owned by the caller and shared by reference, so several
// agents built over the same table learn into the same store.
type Agent struct {
	table *Table
	disc  Discretizer
}

// New creates an agent over an existing table.
func New(table *Table, disc Discretizer) *Agent {
	return &Agent{table: table, disc: disc}
}

// NewFromConfig builds a zero-initialized table sized by cfg and an agent over it.
func NewFromConfig(cfg config.Config) *Agent {
	disc := NewDiscretizer(cfg.Discretizer, float64(cfg.World.Width))
	return New(NewTable(cfg.Discretizer.XBuckets, cfg.Discretizer.YBuckets), disc)
}

// Table returns the shared action-value table.
func (a *Agent) Table() *Table {
	return a.table
}

// Observe discretizes a world snapshot.
func (a *Agent) Observe(ws core.WorldState) State {
	return a.disc.Observe(ws)
}

// Act returns the greedy action for s.
func (a *Agent) Act(s State) Action {
	return Decide(a.table, s)
}

// Learn applies the update rule for one transition.
func (a *Agent) Learn(tr Transition) float64 {
	return Update(a.table, tr)
}
