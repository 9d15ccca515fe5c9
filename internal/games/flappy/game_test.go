package flappy

import (
	"testing"

	"github.com/vovakirdan/flappyq/internal/config"
	"github.com/vovakirdan/flappyq/internal/core"
)

func TestWorldDeterminism(t *testing.T) {
	cfg := config.DefaultConfig()
	seed := int64(12345)

	// Flap every 12 ticks to stay airborne for a while
	actions := make([]bool, 300)
	for i := range actions {
		actions[i] = i%12 == 0
	}

	w1 := New(cfg, seed)
	w2 := New(cfg, seed)
	for i, flap := range actions {
		r1 := w1.Step(flap)
		r2 := w2.Step(flap)
		if r1 != r2 {
			t.Fatalf("tick %d: results differ: %+v vs %+v", i, r1, r2)
		}
		if w1.Observe() != w2.Observe() {
			t.Fatalf("tick %d: observations differ: %+v vs %+v", i, w1.Observe(), w2.Observe())
		}
		if r1.Crashed {
			break
		}
	}
}

func TestWorldReset(t *testing.T) {
	cfg := config.DefaultConfig()
	w := New(cfg, 42)
	for i := 0; i < 50; i++ {
		w.Step(i%10 == 0)
	}

	w.Reset(42)

	if w.crashed {
		t.Error("Reset should clear the crash flag")
	}
	if w.tickCount != 0 {
		t.Errorf("Reset should clear the tick count, got %d", w.tickCount)
	}
	ws := w.Observe()
	if ws.AvatarX != 56 || ws.AvatarY != 255 {
		t.Errorf("avatar should restart at (56, 255), got (%v, %v)", ws.AvatarX, ws.AvatarY)
	}
	if ws.AvatarVelY != -9 {
		t.Errorf("initial velocity should be -9, got %v", ws.AvatarVelY)
	}
	if ws.GapX != 580 {
		t.Errorf("lead pipe should start at x=580, got %v", ws.GapX)
	}
	if len(w.pipes.Pipes()) != 2 || w.pipes.Pipes()[1].X != 580 {
		t.Errorf("expected two pipes at the spawn position, got %+v", w.pipes.Pipes())
	}
}

func TestWorldFlapPhysics(t *testing.T) {
	w := New(config.DefaultConfig(), 1)

	w.Step(false)
	if ws := w.Observe(); ws.AvatarVelY != -8 || ws.AvatarY != 247 {
		t.Errorf("gravity tick: vel=%v y=%v, expected -8 and 247", ws.AvatarVelY, ws.AvatarY)
	}

	w.Step(true)
	if ws := w.Observe(); ws.AvatarVelY != -8 || ws.AvatarY != 239 {
		t.Errorf("flap tick: vel=%v y=%v, expected -8 and 239 (no gravity on flap)", ws.AvatarVelY, ws.AvatarY)
	}
}

func TestWorldFallSpeedIsCapped(t *testing.T) {
	w := New(config.DefaultConfig(), 1)
	for i := 0; i < 30 && !w.crashed; i++ {
		w.Step(false)
		if v := w.Observe().AvatarVelY; v > 10 {
			t.Fatalf("tick %d: velocity %v exceeds terminal velocity", i, v)
		}
	}
}

func TestWorldIdleAgentCrashes(t *testing.T) {
	w := New(config.DefaultConfig(), 7)
	var res core.StepResult
	for i := 0; i < 200 && !res.Crashed; i++ {
		res = w.Step(false)
	}
	if !res.Crashed || !w.crashed {
		t.Fatal("an avatar that never flaps should crash")
	}

	floor := config.DefaultConfig().World.GroundY() - 24
	if y := w.Observe().AvatarY; y > floor {
		t.Errorf("avatar sank below the ground line: y=%v floor=%v", y, floor)
	}

	before := w.tickCount
	if !w.Step(true).Crashed || w.tickCount != before {
		t.Error("a crashed world should stay frozen until Reset")
	}
}

func TestWorldCeilingCrash(t *testing.T) {
	w := New(config.DefaultConfig(), 3)
	var res core.StepResult
	for i := 0; i < 100 && !res.Crashed; i++ {
		res = w.Step(true)
	}
	if !res.Crashed {
		t.Fatal("flapping every tick should hit the ceiling")
	}
}

func TestWorldCollision(t *testing.T) {
	cfg := config.DefaultConfig()
	w := New(cfg, 1)
	// Avatar hitbox spans x [56, 90), y [255, 279).
	tests := []struct {
		name     string
		pipe     Pipe
		expected bool
	}{
		{"inside the gap", Pipe{X: 50, TopY: 200 - 320, BottomY: 300}, false},
		{"lower segment too high", Pipe{X: 50, TopY: 150 - 320, BottomY: 270}, true},
		{"upper segment too low", Pipe{X: 50, TopY: 260 - 320, BottomY: 400}, true},
		{"pipe already behind", Pipe{X: 56 - 52, TopY: 260 - 320, BottomY: 270}, false},
		{"pipe not yet reached", Pipe{X: 90, TopY: 260 - 320, BottomY: 270}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w.pipes.pipes = []Pipe{tc.pipe}
			if got := w.collides(); got != tc.expected {
				t.Errorf("collides() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestPipeSpawnAndRecycle(t *testing.T) {
	cfg := config.DefaultConfig()
	pm := NewPipeManager(9, &cfg)

	for i := 0; i < 144; i++ {
		pm.Advance()
	}
	pipes := pm.Pipes()
	if len(pipes) != 3 {
		t.Fatalf("lead pipe at x=4 should spawn a third pipe, got %d pipes", len(pipes))
	}
	if pipes[0].X != 4 || pipes[2].X != 580 {
		t.Errorf("unexpected pipe positions: %+v", pipes)
	}

	for i := 0; i < 14; i++ {
		pm.Advance()
	}
	if len(pm.Pipes()) != 3 {
		t.Fatalf("lead pipe at x=-52 is still visible, got %d pipes", len(pm.Pipes()))
	}

	pm.Advance()
	pipes = pm.Pipes()
	if len(pipes) != 2 {
		t.Fatalf("lead pipe past x=-52 should be recycled, got %d pipes", len(pipes))
	}
	if pipes[0].X != -56 || pipes[1].X != 520 {
		t.Errorf("unexpected pipe positions after recycle: %+v", pipes)
	}

	// The twin starting pipe is already past the threshold when it takes the
	// lead, so it is recycled without spawning.
	pm.Advance()
	pipes = pm.Pipes()
	if len(pipes) != 1 || pipes[0].X != 516 {
		t.Errorf("expected a single pipe at x=516, got %+v", pipes)
	}
}

func TestPipeSpacingStaysConstant(t *testing.T) {
	cfg := config.DefaultConfig()
	pm := NewPipeManager(11, &cfg)

	spacings := map[int]int{}
	spawns := 0
	prevLen := len(pm.Pipes())
	for tick := 0; tick < 2000; tick++ {
		pm.Advance()
		pipes := pm.Pipes()
		if len(pipes) > prevLen {
			spawns++
		}
		prevLen = len(pipes)
		if spawns == 0 {
			continue
		}
		for i := 1; i < len(pipes); i++ {
			if d := pipes[i].X - pipes[i-1].X; d != 0 {
				spacings[d]++
			}
		}
	}

	if spawns < 10 {
		t.Fatalf("expected a steady stream of pipes, got %d spawns", spawns)
	}
	if len(spacings) != 1 || spacings[576] == 0 {
		t.Errorf("consecutive pipes should stay 576 apart, got spacings %v", spacings)
	}
}

func TestPipeGapGeometry(t *testing.T) {
	cfg := config.DefaultConfig()
	pm := NewPipeManager(5, &cfg)
	for i := 0; i < 200; i++ {
		p := pm.newPipe()
		if gap := p.BottomY - (p.TopY + cfg.Sprites.Pipe.H); gap != 127 {
			t.Fatalf("gap height = %d, expected 127", gap)
		}
		if p.BottomY < 127 || p.BottomY >= 127+246 {
			t.Fatalf("gap bottom %d outside [127, 373)", p.BottomY)
		}
	}
}

func TestPipeScoringWindow(t *testing.T) {
	cfg := config.DefaultConfig()
	pm := NewPipeManager(1, &cfg)
	avatarMid := 56.0 + 17

	crossings := 0
	for x := 580; x > -60; x -= cfg.Physics.PipeSpeed {
		pm.pipes = []Pipe{{X: x}}
		if pm.Crossed(avatarMid) {
			crossings++
			if x != 44 {
				t.Errorf("crossing reported at x=%d, expected 44", x)
			}
		}
	}
	if crossings != 1 {
		t.Errorf("a pipe should score exactly once, got %d", crossings)
	}
}

func TestRender(t *testing.T) {
	w := New(config.DefaultConfig(), 1)
	screen := core.NewScreen(70, 32)
	w.Render(screen)

	var avatar, ground int
	for y := 0; y < screen.Height(); y++ {
		for x := 0; x < screen.Width(); x++ {
			switch screen.Get(x, y) {
			case AvatarChar:
				avatar++
			case GroundChar:
				ground++
			}
		}
	}
	if avatar == 0 {
		t.Error("avatar should be drawn")
	}
	if ground != 70 {
		t.Errorf("ground line should span the screen, got %d cells", ground)
	}
}
