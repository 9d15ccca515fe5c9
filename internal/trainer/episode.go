package trainer

import (
	"context"
	"errors"
	"fmt"

	"github.com/vovakirdan/flappyq/internal/agent"
)

// ErrEpisodeOver is returned when stepping an episode that already crashed.
var ErrEpisodeOver = errors.New("trainer: episode is over")

// EpisodeState is the phase of a trial.
type EpisodeState int

const (
	Running  EpisodeState = iota // Ticks are being simulated
	Terminal                     // The avatar crashed; the score is final
)

// String returns a human-readable name for the state.
func (s EpisodeState) String() string {
	switch s {
	case Running:
		return "running"
	case Terminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// StepReport describes one simulated tick.
type StepReport struct {
	Tick       int
	Transition agent.Transition
	Value      float64 // Table entry written by the update
	Scored     bool
	Crashed    bool
	Score      int // Running score after this tick
}

// Episode is a single trial from a freshly reset world to the first crash.
type Episode struct {
	env   Environment
	agent *agent.Agent
	state EpisodeState
	score int
	ticks int
}

// NewEpisode resets env with seed and returns a running episode.
// The agent's table is used as-is; nothing about it is reset.
func NewEpisode(env Environment, ag *agent.Agent, seed int64) *Episode {
	env.Reset(seed)
	return &Episode{env: env, agent: ag, state: Running}
}

// Step simulates exactly one tick: observe, act, advance the world, learn.
// A crash ends the episode and is never also counted as a score.
func (e *Episode) Step() (StepReport, error) {
	if e.state == Terminal {
		return StepReport{}, ErrEpisodeOver
	}

	prev := e.agent.Observe(e.env.Observe())
	action := e.agent.Act(prev)

	res := e.env.Step(action.Flap())
	e.ticks++

	next := e.agent.Observe(e.env.Observe())
	tr := agent.Transition{
		Prev:   prev,
		Action: action,
		Reward: agent.Reward(res.Crashed),
		Next:   next,
	}
	value := e.agent.Learn(tr)

	rep := StepReport{
		Tick:       e.ticks,
		Transition: tr,
		Value:      value,
		Crashed:    res.Crashed,
	}
	if res.Crashed {
		e.state = Terminal
	} else if res.Scored {
		e.score++
		rep.Scored = true
	}
	rep.Score = e.score
	return rep, nil
}

// Run steps the episode until it crashes, waiting on pacer before every tick.
// Cancellation is checked once per tick; an interrupted episode returns its
// partial score together with the context error.
func (e *Episode) Run(ctx context.Context, pacer *Pacer) (int, error) {
	for e.state == Running {
		if err := pacer.Wait(ctx); err != nil {
			return e.score, fmt.Errorf("trainer: trial interrupted after %d ticks: %w", e.ticks, err)
		}
		if _, err := e.Step(); err != nil {
			return e.score, err
		}
	}
	return e.score, nil
}

// State returns the current phase.
func (e *Episode) State() EpisodeState {
	return e.state
}

// Score returns the number of pipes passed so far.
func (e *Episode) Score() int {
	return e.score
}

// Ticks returns the number of ticks simulated so far.
func (e *Episode) Ticks() int {
	return e.ticks
}
