// Package flappy implements the deterministic Flappy Bird world the agent is
// trained in. An avatar at a fixed x falls under gravity, flaps on demand and
// must pass through the gaps of pipes that scroll in from the right.
//
// The world knows nothing about learning: each tick it takes one boolean
// action and reports whether the avatar crashed or scored.
package flappy

import (
	"math"

	"github.com/vovakirdan/flappyq/internal/config"
	"github.com/vovakirdan/flappyq/internal/core"
)

// World holds the full simulation state of one trial.
type World struct {
	cfg       config.Config
	pipes     *PipeManager
	avatarX   float64 // Fixed horizontal position (left edge of hitbox)
	avatarY   float64 // Top of hitbox
	avatarVel float64 // Vertical velocity, positive is down
	groundX   int     // Ground scroll offset, in (-base width, 0]
	bgX       int     // Background scroll offset, in (-background width, 0]
	crashed   bool
	tickCount int
}

// New creates a world and resets it with the given seed.
func New(cfg config.Config, seed int64) *World {
	w := &World{cfg: cfg}
	w.pipes = NewPipeManager(seed, &w.cfg)
	w.Reset(seed)
	return w
}

// Reset starts a fresh trial: avatar centered vertically, two pipes ahead.
func (w *World) Reset(seed int64) {
	w.avatarX = float64(w.cfg.World.Width / w.cfg.World.AvatarXDiv)
	w.avatarY = float64(w.cfg.World.Height / 2)
	w.avatarVel = w.cfg.Physics.InitialVelocity
	w.groundX = 0
	w.bgX = 0
	w.crashed = false
	w.tickCount = 0
	w.pipes.Reset(seed)
}

// Step advances the world by one fixed tick.
// After a crash the world is frozen until the next Reset.
func (w *World) Step(flap bool) core.StepResult {
	if w.crashed {
		return core.StepResult{Crashed: true}
	}
	w.tickCount++

	phys := w.cfg.Physics
	flapped := false
	if flap && w.avatarY > 0 {
		w.avatarVel = phys.FlapVelocity
		flapped = true
	}
	if w.avatarVel < phys.MaxFallSpeed && !flapped {
		w.avatarVel += phys.Gravity
	}
	// Never sink below the ground line; landing on it is a crash.
	floor := w.cfg.World.GroundY() - float64(w.cfg.Sprites.Avatar.H)
	w.avatarY += math.Min(w.avatarVel, floor-w.avatarY)

	w.pipes.Advance()
	w.scroll()

	if w.collides() {
		w.crashed = true
		return core.StepResult{Crashed: true}
	}

	mid := w.avatarX + float64(w.cfg.Sprites.Avatar.W)/2
	return core.StepResult{Scored: w.pipes.Crossed(mid)}
}

// scroll moves the ground and background strips, wrapping by sprite width.
func (w *World) scroll() {
	w.groundX -= w.cfg.Physics.GroundSpeed
	if baseW := w.cfg.Sprites.Base.W; w.groundX <= -baseW {
		w.groundX += baseW
	}
	w.bgX -= w.cfg.Physics.BackgroundSpeed
	if bgW := w.cfg.Sprites.Background.W; w.bgX <= -bgW {
		w.bgX += bgW
	}
}

// collides tests the avatar against the ceiling, the ground and every pipe.
func (w *World) collides() bool {
	floor := w.cfg.World.GroundY() - float64(w.cfg.Sprites.Avatar.H)
	if w.avatarY >= floor || w.avatarY < 0 {
		return true
	}
	return w.pipes.CheckCollision(w.hitbox())
}

func (w *World) hitbox() core.Rect {
	a := w.cfg.Sprites.Avatar
	return core.NewRect(int(w.avatarX), int(w.avatarY), a.W, a.H)
}

// Observe returns the continuous state the agent discretizes.
func (w *World) Observe() core.WorldState {
	lead := w.pipes.Lead()
	return core.WorldState{
		AvatarX:    w.avatarX,
		AvatarY:    w.avatarY,
		AvatarVelY: w.avatarVel,
		GapX:       float64(lead.X),
		GapY:       float64(lead.BottomY),
	}
}
