package core

// WorldState is the continuous snapshot the simulation exposes once per tick.
// GapX/GapY locate the lead obstacle's lower segment: its left edge and the
// top of the opening the avatar has to fly through.
type WorldState struct {
	AvatarX    float64
	AvatarY    float64
	AvatarVelY float64
	GapX       float64
	GapY       float64
}

// StepResult is what the simulation reports after applying one action.
type StepResult struct {
	Crashed bool // The avatar hit the ground, the ceiling or a pipe
	Scored  bool // The avatar's midpoint just crossed a pipe's midpoint
}
