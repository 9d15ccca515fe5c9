// Package config provides YAML-based configuration for the simulated world,
// the state discretizer and the training loop.
//
// The learning constants of the update rule are intentionally absent: they are
// fixed in package agent and cannot be changed at runtime.
package config

import (
	"errors"
	"fmt"
)

// Config is the full set of tunables resolved once at startup.
type Config struct {
	World       WorldConfig       `yaml:"world"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Obstacles   ObstacleConfig    `yaml:"obstacles"`
	Sprites     SpriteConfig      `yaml:"sprites"`
	Discretizer DiscretizerConfig `yaml:"discretizer"`
	Training    TrainingConfig    `yaml:"training"`
}

// WorldConfig describes the playfield in world units (pixels of the reference game).
type WorldConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	GroundRatio float64 `yaml:"ground_ratio"` // Ground line as a fraction of Height
	AvatarXDiv  int     `yaml:"avatar_x_div"` // Avatar sits at Width / AvatarXDiv
}

// GroundY returns the y coordinate of the ground line.
func (w WorldConfig) GroundY() float64 {
	return float64(w.Height) * w.GroundRatio
}

// PhysicsConfig defines the fixed-step motion model.
type PhysicsConfig struct {
	Gravity         float64 `yaml:"gravity"`          // Added to vertical velocity per tick
	FlapVelocity    float64 `yaml:"flap_velocity"`    // Velocity set on flap (negative = up)
	MaxFallSpeed    float64 `yaml:"max_fall_speed"`   // Gravity stops accelerating past this
	InitialVelocity float64 `yaml:"initial_velocity"` // Vertical velocity at trial start
	PipeSpeed       int     `yaml:"pipe_speed"`       // Leftward pipe movement per tick
	GroundSpeed     int     `yaml:"ground_speed"`     // Ground scroll per tick
	BackgroundSpeed int     `yaml:"background_speed"` // Background scroll per tick
}

// ObstacleConfig defines how pipe pairs are generated and recycled.
type ObstacleConfig struct {
	SpawnOffset int     `yaml:"spawn_offset"` // New pipes appear at Width + SpawnOffset
	SpawnWindow int     `yaml:"spawn_window"` // Spawn when the lead pipe drops below this x
	GapRatio    float64 `yaml:"gap_ratio"`    // Gap height as a fraction of world Height
	GapSpread   float64 `yaml:"gap_spread"`   // Multiplier of the gap excluded from the random range
}

// Size is a sprite bounding box.
type Size struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// SpriteConfig holds the sprite dimensions that drive hitboxes and scrolling.
type SpriteConfig struct {
	Avatar     Size `yaml:"avatar"`
	Pipe       Size `yaml:"pipe"`
	Base       Size `yaml:"base"`
	Background Size `yaml:"background"`
}

// DiscretizerConfig defines the bucket geometry of the action-value table.
type DiscretizerConfig struct {
	CellSize  float64 `yaml:"cell_size"`
	XOffset   float64 `yaml:"x_offset"`
	BelowFold float64 `yaml:"below_fold"` // Added to |dy| when the gap is above the avatar's y
	XBuckets  int     `yaml:"x_buckets"`
	YBuckets  int     `yaml:"y_buckets"`
}

// TrainingConfig controls pacing and reporting of the trial driver.
type TrainingConfig struct {
	TickRate  int    `yaml:"tick_rate"`  // Ticks per second, 0 = unpaced
	LogEvery  int    `yaml:"log_every"`  // Progress line every N trials
	TableName string `yaml:"table_name"` // Key for the persisted action-value table
}

// Validate reports every setting that would break the simulation or
// produce an unusable table.
func (c Config) Validate() error {
	var errs []error
	if c.World.Width <= 0 || c.World.Height <= 0 {
		errs = append(errs, fmt.Errorf("world size must be positive, got %dx%d", c.World.Width, c.World.Height))
	}
	if c.World.GroundRatio <= 0 || c.World.GroundRatio > 1 {
		errs = append(errs, fmt.Errorf("world.ground_ratio must be in (0, 1], got %v", c.World.GroundRatio))
	}
	if c.World.AvatarXDiv <= 0 {
		errs = append(errs, fmt.Errorf("world.avatar_x_div must be positive, got %d", c.World.AvatarXDiv))
	}
	if c.Physics.PipeSpeed <= 0 {
		errs = append(errs, fmt.Errorf("physics.pipe_speed must be positive, got %d", c.Physics.PipeSpeed))
	}
	if c.Obstacles.SpawnWindow <= 0 {
		errs = append(errs, fmt.Errorf("obstacles.spawn_window must be positive, got %d", c.Obstacles.SpawnWindow))
	}
	if c.Obstacles.GapRatio <= 0 || c.Obstacles.GapRatio >= 1 {
		errs = append(errs, fmt.Errorf("obstacles.gap_ratio must be in (0, 1), got %v", c.Obstacles.GapRatio))
	}
	for name, s := range map[string]Size{
		"avatar":     c.Sprites.Avatar,
		"pipe":       c.Sprites.Pipe,
		"base":       c.Sprites.Base,
		"background": c.Sprites.Background,
	} {
		if s.W <= 0 || s.H <= 0 {
			errs = append(errs, fmt.Errorf("sprites.%s must have a positive size, got %dx%d", name, s.W, s.H))
		}
	}
	if c.Discretizer.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("discretizer.cell_size must be positive, got %v", c.Discretizer.CellSize))
	}
	if c.Discretizer.XBuckets <= 0 || c.Discretizer.YBuckets <= 0 {
		errs = append(errs, fmt.Errorf("discretizer buckets must be positive, got %dx%d",
			c.Discretizer.XBuckets, c.Discretizer.YBuckets))
	}
	if c.Training.TickRate < 0 {
		errs = append(errs, fmt.Errorf("training.tick_rate must not be negative, got %d", c.Training.TickRate))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
}
