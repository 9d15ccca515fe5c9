package config

import (
	_ "embed"
)

//go:embed defaults/flappyq.yaml
var defaultYAML []byte

// DefaultConfig returns the geometry of the reference game.
// It mirrors defaults/flappyq.yaml and is used when the embedded file cannot be parsed.
func DefaultConfig() Config {
	return Config{
		World: WorldConfig{
			Width:       280,
			Height:      511,
			GroundRatio: 0.8,
			AvatarXDiv:  5,
		},
		Physics: PhysicsConfig{
			Gravity:         1,
			FlapVelocity:    -8,
			MaxFallSpeed:    10,
			InitialVelocity: -9,
			PipeSpeed:       4,
			GroundSpeed:     4,
			BackgroundSpeed: 2,
		},
		Obstacles: ObstacleConfig{
			SpawnOffset: 300,
			SpawnWindow: 5,
			GapRatio:    0.25,
			GapSpread:   1.2,
		},
		Sprites: SpriteConfig{
			Avatar:     Size{W: 34, H: 24},
			Pipe:       Size{W: 52, H: 320},
			Base:       Size{W: 336, H: 112},
			Background: Size{W: 288, H: 512},
		},
		Discretizer: DiscretizerConfig{
			CellSize:  40,
			XOffset:   1,
			BelowFold: 408,
			XBuckets:  7,
			YBuckets:  21,
		},
		Training: TrainingConfig{
			TickRate:  32,
			LogEvery:  50,
			TableName: "default",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
