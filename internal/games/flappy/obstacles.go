package flappy

import (
	"math/rand"

	"github.com/vovakirdan/flappyq/internal/config"
	"github.com/vovakirdan/flappyq/internal/core"
)

// Pipe is a pair of vertical segments sharing an x position, with an
// opening between the bottom of the upper segment and the top of the lower one.
type Pipe struct {
	X       int // Left edge of both segments
	TopY    int // Top of the upper segment (usually above the screen)
	BottomY int // Top of the lower segment, i.e. the bottom of the gap
}

// TopRect returns the hitbox of the upper segment.
func (p Pipe) TopRect(size config.Size) core.Rect {
	return core.NewRect(p.X, p.TopY, size.W, size.H)
}

// BottomRect returns the hitbox of the lower segment.
func (p Pipe) BottomRect(size config.Size) core.Rect {
	return core.NewRect(p.X, p.BottomY, size.W, size.H)
}

// PipeManager handles spawning, movement and recycling of pipes.
// The first pipe in the list is the lead pipe: the one the agent observes.
type PipeManager struct {
	pipes []Pipe
	rng   *rand.Rand
	cfg   *config.Config
}

// NewPipeManager creates a pipe manager seeded for deterministic generation.
func NewPipeManager(seed int64, cfg *config.Config) *PipeManager {
	pm := &PipeManager{
		pipes: make([]Pipe, 0, 4),
		cfg:   cfg,
	}
	pm.Reset(seed)
	return pm
}

// Reset clears all pipes, reseeds the generator and places two pipe pairs
// at the spawn position. Both share one x, so the first obstacle is the
// overlap of two openings and every later pipe follows one spawn pitch apart.
func (pm *PipeManager) Reset(seed int64) {
	pm.pipes = pm.pipes[:0]
	pm.rng = rand.New(rand.NewSource(seed))
	pm.pipes = append(pm.pipes, pm.newPipe(), pm.newPipe())
}

// newPipe generates a pipe at the spawn position with a random gap height.
// The lower segment starts somewhere in [gap, gap+span), where span keeps the
// opening clear of the ground sprite.
func (pm *PipeManager) newPipe() Pipe {
	world := pm.cfg.World
	obs := pm.cfg.Obstacles
	sprites := pm.cfg.Sprites

	gap := int(float64(world.Height) * obs.GapRatio)
	span := int(float64(world.Height-sprites.Base.H) - obs.GapSpread*float64(gap))

	bottomY := gap
	if span > 0 {
		bottomY += pm.rng.Intn(span)
	}

	return Pipe{
		X:       world.Width + obs.SpawnOffset,
		TopY:    bottomY - gap - sprites.Pipe.H,
		BottomY: bottomY,
	}
}

// Advance moves every pipe left by one tick, spawns a successor on the tick
// the lead pipe crosses the spawn threshold and recycles the lead pipe once
// it has scrolled fully off-screen. A pipe that crosses the threshold while
// not in the lead never spawns.
func (pm *PipeManager) Advance() {
	speed := pm.cfg.Physics.PipeSpeed
	for i := range pm.pipes {
		pm.pipes[i].X -= speed
	}

	if len(pm.pipes) > 0 {
		window := pm.cfg.Obstacles.SpawnWindow
		if x := pm.pipes[0].X; x < window && x+speed >= window {
			pm.pipes = append(pm.pipes, pm.newPipe())
		}
		if pm.pipes[0].X < -pm.cfg.Sprites.Pipe.W {
			pm.pipes = pm.pipes[1:]
		}
	}

	if len(pm.pipes) == 0 {
		pm.pipes = append(pm.pipes, pm.newPipe())
	}
}

// Lead returns the pipe the agent is currently steering for.
func (pm *PipeManager) Lead() Pipe {
	return pm.pipes[0]
}

// Pipes returns the current list of pipes, lead first.
func (pm *PipeManager) Pipes() []Pipe {
	return pm.pipes
}

// CheckCollision tests the hitbox against both segments of every pipe.
func (pm *PipeManager) CheckCollision(hitbox core.Rect) bool {
	size := pm.cfg.Sprites.Pipe
	for _, p := range pm.pipes {
		if hitbox.Intersects(p.TopRect(size)) || hitbox.Intersects(p.BottomRect(size)) {
			return true
		}
	}
	return false
}

// Crossed reports whether the avatar midpoint lies in the scoring window of
// any pipe: [pipeMid, pipeMid+speed). The window is one tick of travel wide,
// so every pipe scores exactly once.
func (pm *PipeManager) Crossed(avatarMid float64) bool {
	half := float64(pm.cfg.Sprites.Pipe.W) / 2
	window := float64(pm.cfg.Physics.PipeSpeed)
	for _, p := range pm.pipes {
		mid := float64(p.X) + half
		if mid <= avatarMid && avatarMid < mid+window {
			return true
		}
	}
	return false
}
