package flappy

import "github.com/vovakirdan/flappyq/internal/core"

// Glyphs used by Render. The live view styles cells by rune.
const (
	AvatarChar  = '●'
	PipeChar    = '█'
	PipeCapChar = '▀'
	GroundChar  = '═'
	DirtChar    = '░'
	DirtAltChar = '▒'
)

// Render draws the world scaled onto dst. The ground occupies the rows
// below the projected ground line and scrolls with the world.
func (w *World) Render(dst *core.Screen) {
	dst.Clear()
	vp := core.Viewport{
		WorldW:  float64(w.cfg.World.Width),
		WorldH:  float64(w.cfg.World.Height),
		ScreenW: dst.Width(),
		ScreenH: dst.Height(),
	}
	groundRow := vp.ProjectY(w.cfg.World.GroundY())

	size := w.cfg.Sprites.Pipe
	for _, p := range w.pipes.Pipes() {
		top := vp.Project(p.TopRect(size))
		dst.DrawRect(top, PipeChar)
		dst.DrawHLine(top.X, top.Bottom()-1, top.W, PipeCapChar)
		dst.DrawRect(vp.Project(p.BottomRect(size)), PipeChar)
	}

	dst.DrawHLine(0, groundRow, dst.Width(), GroundChar)
	// Alternate dirt texture in blocks of 8 world units, shifted by the scroll offset.
	for y := groundRow + 1; y < dst.Height(); y++ {
		for x := 0; x < dst.Width(); x++ {
			wx := int(float64(x)*vp.WorldW/float64(dst.Width())) - w.groundX
			if (wx/8)%2 == 0 {
				dst.Set(x, y, DirtChar)
			} else {
				dst.Set(x, y, DirtAltChar)
			}
		}
	}

	dst.DrawRect(vp.Project(w.hitbox()), AvatarChar)
}
