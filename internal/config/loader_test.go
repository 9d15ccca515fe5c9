package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("Parse(embedded) failed: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("embedded yaml and DefaultConfig() disagree:\n%+v\n%+v", cfg, DefaultConfig())
	}
}

func TestLoadCustomPathOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := "physics:\n  pipe_speed: 6\ntraining:\n  tick_rate: 0\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Physics.PipeSpeed != 6 {
		t.Errorf("pipe_speed = %d, expected 6", cfg.Physics.PipeSpeed)
	}
	if cfg.Training.TickRate != 0 {
		t.Errorf("tick_rate = %d, expected 0", cfg.Training.TickRate)
	}
	if cfg.Discretizer.XBuckets != 7 {
		t.Errorf("unset keys should keep defaults, x_buckets = %d", cfg.Discretizer.XBuckets)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestLoadMalformedCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("world: [1, 2"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero cell size", func(c *Config) { c.Discretizer.CellSize = 0 }, "cell_size"},
		{"no buckets", func(c *Config) { c.Discretizer.YBuckets = 0 }, "buckets"},
		{"flat world", func(c *Config) { c.World.Height = 0 }, "world size"},
		{"ground above screen", func(c *Config) { c.World.GroundRatio = 1.5 }, "ground_ratio"},
		{"static pipes", func(c *Config) { c.Physics.PipeSpeed = 0 }, "pipe_speed"},
		{"missing sprite", func(c *Config) { c.Sprites.Avatar = Size{} }, "sprites.avatar"},
		{"negative tick rate", func(c *Config) { c.Training.TickRate = -1 }, "tick_rate"},
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("error %q should mention %q", err, tc.field)
			}
		})
	}
}
