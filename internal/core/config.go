package core

import "time"

// DefaultTickRate is the pace of the reference game: 32 ticks per second.
const DefaultTickRate = 32

// RuntimeConfig carries the process-level settings shared by the headless
// trainer and the live view.
type RuntimeConfig struct {
	ScreenW  int   // Terminal width in characters (live view only)
	ScreenH  int   // Terminal height in characters (live view only)
	TickRate int   // Ticks per second; 0 runs unpaced
	Seed     int64 // Base RNG seed; 0 means derive one from the clock
}

// DefaultConfig returns a RuntimeConfig with the reference pacing.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: DefaultTickRate,
		Seed:     0,
	}
}

// TickInterval returns the wall-clock time one tick should take.
// Zero means the loop is not paced.
func (c RuntimeConfig) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.TickRate)
}

// ResolveSeed returns the configured seed, or a clock-derived one when unset.
func (c RuntimeConfig) ResolveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
