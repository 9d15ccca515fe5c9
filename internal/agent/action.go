// Package agent implements the tabular Q-learning controller: it turns the
// continuous world state into table coordinates, picks an action from the
// action-value table and folds every observed transition back into it.
package agent

// Action is the binary control the agent emits each tick.
type Action int

const (
	ActionIdle Action = iota // Let gravity act
	ActionFlap               // Apply the upward impulse

	// NumActions is the size of the action axis of the table.
	NumActions = 2
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionIdle:
		return "idle"
	case ActionFlap:
		return "flap"
	default:
		return "unknown"
	}
}

// Flap reports whether the action asks the simulation for an impulse.
func (a Action) Flap() bool {
	return a == ActionFlap
}

// State is a discretized world state: a cell of the action-value table.
type State struct {
	X int // Horizontal distance bucket
	Y int // Vertical offset bucket
}
