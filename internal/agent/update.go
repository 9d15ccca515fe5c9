package agent

// Fixed weights of the temporal-difference update. There is no discount
// factor: the crash reward already marks termination.
const (
	Retention    = 0.4
	LearningRate = 0.6
)

// Rewards. The crash penalty dwarfs the survival bonus on purpose.
const (
	RewardCrash   = -1000.0
	RewardSurvive = 15.0
)

// Transition is one observed tick, consumed immediately by Update.
type Transition struct {
	Prev   State
	Action Action
	Reward float64
	Next   State
}

// Reward returns the scalar reward for a tick that did or did not end in a crash.
func Reward(crashed bool) float64 {
	if crashed {
		return RewardCrash
	}
	return RewardSurvive
}

// Update folds a transition into the table and returns the value written:
//
//	Q(prev, a) = 0.4*Q(prev, a) + 0.6*(reward + max_a' Q(next, a'))
func Update(t *Table, tr Transition) float64 {
	old := t.Get(tr.Prev, tr.Action)
	bootstrap := t.MaxOverActions(tr.Next)
	v := Retention*old + LearningRate*(tr.Reward+bootstrap)
	t.Set(tr.Prev, tr.Action, v)
	return v
}
