package trainer

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/flappyq/internal/agent"
)

// Options configures a Driver.
type Options struct {
	// Seed is the base seed; trial i resets the world with Seed+i.
	Seed int64

	// MaxTrials stops Run after that many trials. Zero runs until cancelled.
	MaxTrials int

	// TickInterval paces Run. Zero runs unpaced.
	TickInterval time.Duration

	// LogEvery emits a progress line every N trials. Zero disables it.
	LogEvery int

	// Logger receives trial and progress lines. Nil discards them.
	Logger *log.Logger

	// OnTrial is called after each finished trial has been appended to the log.
	OnTrial func(TrialResult)
}

// Driver runs trials back to back over one shared action-value table.
// It is single-threaded: Run and Step must not be called concurrently.
type Driver struct {
	env     Environment
	agent   *agent.Agent
	results *ResultLog
	opts    Options
	logger  *log.Logger

	trial   int // Index of the current (or next) trial, 1-based
	episode *Episode
}

// NewDriver creates a driver. The agent's table is shared by reference and
// keeps accumulating across every trial the driver runs.
func NewDriver(env Environment, ag *agent.Agent, opts Options) *Driver {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Driver{
		env:     env,
		agent:   ag,
		results: NewResultLog(),
		opts:    opts,
		logger:  logger,
		trial:   1,
	}
}

// Run executes trials until ctx is cancelled or MaxTrials is reached.
// It returns nil on reaching MaxTrials and the context error on cancellation;
// an interrupted trial is discarded rather than logged.
func (d *Driver) Run(ctx context.Context) error {
	pacer := NewPacer(d.opts.TickInterval)
	defer pacer.Stop()

	for !d.done() {
		ep := d.current()
		if _, err := ep.Run(ctx, pacer); err != nil {
			return err
		}
		d.finish()
	}
	return nil
}

// Step advances the current trial by one tick, starting the next trial once
// the current one crashes. It is the entry point for externally paced loops
// such as the live view.
func (d *Driver) Step() (StepReport, error) {
	if d.done() {
		return StepReport{}, ErrTrialLimit
	}
	ep := d.current()
	rep, err := ep.Step()
	if err != nil {
		return rep, err
	}
	if ep.State() == Terminal {
		d.finish()
	}
	return rep, nil
}

// ErrTrialLimit is returned by Step once MaxTrials trials have finished.
var ErrTrialLimit = errors.New("trainer: trial limit reached")

// current returns the running episode, starting one if needed.
func (d *Driver) current() *Episode {
	if d.episode == nil {
		d.episode = NewEpisode(d.env, d.agent, d.opts.Seed+int64(d.trial))
	}
	return d.episode
}

// finish records the crashed episode and moves on to the next trial index.
func (d *Driver) finish() {
	r := TrialResult{Trial: d.trial, Score: d.episode.Score(), Ticks: d.episode.Ticks()}
	d.results.Append(r)
	d.episode = nil
	d.trial++

	d.logger.Debug("trial finished", "trial", r.Trial, "score", r.Score, "ticks", r.Ticks)
	if d.opts.LogEvery > 0 && r.Trial%d.opts.LogEvery == 0 {
		best, _ := d.results.Best()
		d.logger.Info("training progress",
			"trial", r.Trial,
			"score", r.Score,
			"best", best.Score,
			"mean", d.results.Mean(d.opts.LogEvery),
			"visited", d.agent.Table().Visited(),
		)
	}
	if d.opts.OnTrial != nil {
		d.opts.OnTrial(r)
	}
}

func (d *Driver) done() bool {
	return d.opts.MaxTrials > 0 && d.results.Len() >= d.opts.MaxTrials
}

// Trial returns the index of the trial in progress (or about to start).
func (d *Driver) Trial() int {
	return d.trial
}

// Episode returns the trial in progress, or nil between trials.
func (d *Driver) Episode() *Episode {
	return d.episode
}

// Results returns the log of finished trials.
func (d *Driver) Results() *ResultLog {
	return d.results
}

// Agent returns the agent whose table is being trained.
func (d *Driver) Agent() *agent.Agent {
	return d.agent
}
