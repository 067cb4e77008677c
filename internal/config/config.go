// Package config loads the TOML configuration shared by the bundled programs.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rotisserie/eris"
)

// Config is the top-level configuration structure.
type Config struct {
	Display DisplayConfig `toml:"display"`
	Balls   BallsConfig   `toml:"balls"`
	Stress  StressConfig  `toml:"stress"`
	Debug   DebugConfig   `toml:"debug"`
	Logging LoggingConfig `toml:"logging"`
}

type DisplayConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	TPS    int    `toml:"tps"` // simulation ticks per second
}

type BallsConfig struct {
	Count     int     `toml:"count"`
	MinRadius float64 `toml:"min_radius"`
	MaxRadius float64 `toml:"max_radius"`
	MaxSpeed  float64 `toml:"max_speed"` // pixels per second along each axis
	Seed      int64   `toml:"seed"`      // 0 seeds from the clock
}

type StressConfig struct {
	Duration       time.Duration `toml:"duration"`
	Entities       int           `toml:"entities"`
	ChurnPerFrame  int           `toml:"churn_per_frame"` // entities killed and respawned each frame
	CompactEvery   int           `toml:"compact_every"`   // frames between arena compactions, 0 disables
	GCPauseMetrics bool          `toml:"gc_pause_metrics"`
	Profile        string        `toml:"profile"` // "", "cpu", "mem" or "trace"
	ProfilePath    string        `toml:"profile_path"`
}

type DebugConfig struct {
	Overlay bool `toml:"overlay"` // show the ImGui windows at startup
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Load reads the file at path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read config %s", path)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, eris.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, eris.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that an empty path yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return defaults(), nil
	}
	return Load(path)
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaults()
}

func defaults() *Config {
	return &Config{
		Display: DisplayConfig{
			Title:  "ecskit balls",
			Width:  800,
			Height: 600,
			TPS:    60,
		},
		Balls: BallsConfig{
			Count:     100,
			MinRadius: 4,
			MaxRadius: 15,
			MaxSpeed:  200,
		},
		Stress: StressConfig{
			Duration:      10 * time.Second,
			Entities:      10000,
			ChurnPerFrame: 100,
			CompactEvery:  600,
			ProfilePath:   ".",
		},
		Debug: DebugConfig{
			Overlay: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

var (
	ErrInvalidDisplay = eris.New("invalid display config")
	ErrInvalidBalls   = eris.New("invalid balls config")
	ErrInvalidStress  = eris.New("invalid stress config")
)

// Validate rejects non-positive sizes and inverted radius ranges.
func (c *Config) Validate() error {
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return eris.Wrapf(ErrInvalidDisplay, "size %dx%d", c.Display.Width, c.Display.Height)
	}
	if c.Display.TPS <= 0 {
		return eris.Wrapf(ErrInvalidDisplay, "tps %d", c.Display.TPS)
	}

	if c.Balls.Count < 0 {
		return eris.Wrapf(ErrInvalidBalls, "count %d", c.Balls.Count)
	}
	if c.Balls.MinRadius <= 0 || c.Balls.MaxRadius < c.Balls.MinRadius {
		return eris.Wrapf(ErrInvalidBalls, "radius range [%g, %g]", c.Balls.MinRadius, c.Balls.MaxRadius)
	}
	if c.Balls.MaxSpeed < 0 {
		return eris.Wrapf(ErrInvalidBalls, "max speed %g", c.Balls.MaxSpeed)
	}

	if c.Stress.Duration <= 0 || c.Stress.Entities <= 0 {
		return eris.Wrapf(ErrInvalidStress, "duration %s, entities %d", c.Stress.Duration, c.Stress.Entities)
	}
	if c.Stress.ChurnPerFrame < 0 || c.Stress.CompactEvery < 0 {
		return eris.Wrapf(ErrInvalidStress, "churn %d, compact every %d", c.Stress.ChurnPerFrame, c.Stress.CompactEvery)
	}
	switch c.Stress.Profile {
	case "", "cpu", "mem", "trace":
	default:
		return eris.Wrapf(ErrInvalidStress, "unknown profile mode %q", c.Stress.Profile)
	}
	return nil
}
