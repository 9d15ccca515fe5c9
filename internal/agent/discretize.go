package agent

import (
	"math"

	"github.com/vovakirdan/flappyq/internal/config"
	"github.com/vovakirdan/flappyq/internal/core"
)

// Discretizer maps continuous positions onto table buckets.
//
// The vertical axis is split in two halves: a gap below the avatar uses
// buckets [0, BelowFold/CellSize) and a gap above it is shifted by BelowFold.
// Changing that partition invalidates any table learned with the old one.
type Discretizer struct {
	CellSize    float64
	XOffset     float64
	BelowFold   float64
	MaxDistance float64 // Horizontal distances are capped here before bucketing
	XBuckets    int
	YBuckets    int
}

// NewDiscretizer builds a discretizer from config. maxDistance is the width
// of the visible world: obstacles farther away all land in the last bucket.
func NewDiscretizer(cfg config.DiscretizerConfig, maxDistance float64) Discretizer {
	return Discretizer{
		CellSize:    cfg.CellSize,
		XOffset:     cfg.XOffset,
		BelowFold:   cfg.BelowFold,
		MaxDistance: maxDistance,
		XBuckets:    cfg.XBuckets,
		YBuckets:    cfg.YBuckets,
	}
}

// Discretize returns the bucket pair for the avatar and the lead gap.
// avatarX does not affect the result; only the obstacle distance matters.
// The result is always inside [0, XBuckets) x [0, YBuckets), whatever the input.
func (d Discretizer) Discretize(avatarX, avatarY, gapX, gapY float64) State {
	x := math.Min(d.MaxDistance, gapX)
	xb := bucket(x/d.CellSize-d.XOffset, d.XBuckets)

	dy := gapY - avatarY
	if dy < 0 {
		dy = -dy + d.BelowFold
	}
	yb := bucket(dy/d.CellSize, d.YBuckets)

	return State{X: xb, Y: yb}
}

// Observe discretizes a full world snapshot.
func (d Discretizer) Observe(ws core.WorldState) State {
	return d.Discretize(ws.AvatarX, ws.AvatarY, ws.GapX, ws.GapY)
}

// bucket truncates v toward zero and clamps it into [0, n-1].
// Clamping happens in float space so NaN and infinities never reach the
// float-to-int conversion.
func bucket(v float64, n int) int {
	return int(core.ClampF(v, 0, float64(n-1)))
}
