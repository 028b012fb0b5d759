// Package config loads and validates the application configuration from
// a TOML file, layered over built-in defaults.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full application configuration.
type Config struct {
	Window  Window  `toml:"window"`
	Capture Capture `toml:"capture"`
	Game    Game    `toml:"game"`
}

// Window configures the application window.
type Window struct {
	Width     int     `toml:"width"`
	Height    int     `toml:"height"`
	Title     string  `toml:"title"`
	TargetFPS float64 `toml:"target_fps"`
}

// Capture configures the screenshot subsystem.
type Capture struct {
	// Enabled switches the whole subsystem; when false no GPU buffers
	// are allocated and all triggers are no-ops. The CLI flag overrides.
	Enabled bool `toml:"enabled"`
	// OutputDir is the screenshot directory, relative to the working
	// directory unless absolute.
	OutputDir string `toml:"output_dir"`
	// Slots is the readback buffer count (2 = ping-pong).
	Slots int `toml:"slots"`
	// Workers is the encode pool size.
	Workers int `toml:"workers"`
}

// Game configures gameplay tuning.
type Game struct {
	CatchRange          float64 `toml:"catch_range"`
	BaseDrainRate       float64 `toml:"base_drain_rate"`
	PassiveStaminaDrain float64 `toml:"passive_stamina_drain"`
	MaxHealth           float64 `toml:"max_health"`
	MaxStamina          float64 `toml:"max_stamina"`
	TraversalTime       float64 `toml:"traversal_time"`
	KittenSpeedFactor   float64 `toml:"kitten_speed_factor"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: Window{
			Width:     800,
			Height:    600,
			Title:     "Chaser",
			TargetFPS: 60,
		},
		Capture: Capture{
			Enabled:   false,
			OutputDir: "screenshots",
			Slots:     2,
			Workers:   1,
		},
		Game: Game{
			CatchRange:          100,
			BaseDrainRate:       20,
			PassiveStaminaDrain: 2,
			MaxHealth:           100,
			MaxStamina:          100,
			TraversalTime:       10,
			KittenSpeedFactor:   1.5,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults
// unchanged; a missing file is an error (the user named it explicitly).
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window dimensions must be positive, got %dx%d",
			c.Window.Width, c.Window.Height)
	}
	if c.Window.TargetFPS <= 0 || c.Window.TargetFPS > 240 {
		return fmt.Errorf("target_fps must be in (0, 240], got %g", c.Window.TargetFPS)
	}
	if c.Capture.Slots < 1 {
		return fmt.Errorf("capture.slots must be >= 1, got %d", c.Capture.Slots)
	}
	if c.Capture.Workers < 1 {
		return fmt.Errorf("capture.workers must be >= 1, got %d", c.Capture.Workers)
	}
	if c.Game.MaxHealth <= 0 || c.Game.MaxStamina <= 0 {
		return fmt.Errorf("game vitals maxima must be positive")
	}
	if c.Game.CatchRange <= 0 {
		return fmt.Errorf("game.catch_range must be positive, got %g", c.Game.CatchRange)
	}
	if c.Game.TraversalTime <= 0 || c.Game.KittenSpeedFactor <= 0 {
		return fmt.Errorf("game movement tuning must be positive")
	}
	return nil
}
