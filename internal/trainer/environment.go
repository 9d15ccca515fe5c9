// Package trainer drives the learning loop: an Episode runs one trial from a
// fresh world to the first crash, and a Driver runs trials back to back over
// a single shared action-value table so learning carries across trials.
package trainer

import "github.com/vovakirdan/flappyq/internal/core"

// Environment is the simulation the agent is trained against.
// Implementations must be deterministic given the seed and the actions.
type Environment interface {
	// Reset starts a new trial.
	Reset(seed int64)

	// Observe returns the current continuous state.
	Observe() core.WorldState

	// Step applies one action and advances the world by one tick.
	Step(flap bool) core.StepResult
}
