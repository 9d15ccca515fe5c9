package agent

// Decide picks the greedy action for state s.
// Flap wins only on a strictly greater value, so a fresh all-zero table
// never flaps until learning separates the two entries.
func Decide(t *Table, s State) Action {
	if t.Get(s, ActionFlap) > t.Get(s, ActionIdle) {
		return ActionFlap
	}
	return ActionIdle
}
