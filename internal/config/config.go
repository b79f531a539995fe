package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	World   WorldConfig   `toml:"world"`
	Sim     SimConfig     `toml:"sim"`
	Logging LoggingConfig `toml:"logging"`
	Profile ProfileConfig `toml:"profile"`
}

type WorldConfig struct {
	InitialCapacity int `toml:"initial_capacity"` // expected live entities, sizes the record table
}

type SimConfig struct {
	TickRate   time.Duration `toml:"tick_rate"`
	MaxTicks   int           `toml:"max_ticks"` // 0 = run until signalled
	Bounds     float32       `toml:"bounds"`    // half-extent of the cube entities may occupy; 0 disables
	Seed       int64         `toml:"seed"`      // spread offsets for scenario templates
	Scenario   string        `toml:"scenario"`  // YAML entity templates, empty to skip
	ScriptsDir string        `toml:"scripts_dir"`
	Snapshot   string        `toml:"snapshot"` // JSON world dump written at stop, empty to skip
	StartTime  int64         // set at boot, not from config
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type ProfileConfig struct {
	Mode string `toml:"mode"` // "", "cpu", "mem", "alloc", "block", "mutex"
	Path string `toml:"path"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Sim.StartTime = time.Now().Unix()
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("sim.tick_rate must be positive, got %s", c.Sim.TickRate)
	}
	if c.Sim.MaxTicks < 0 {
		return fmt.Errorf("sim.max_ticks must not be negative, got %d", c.Sim.MaxTicks)
	}
	if c.Sim.Bounds < 0 {
		return fmt.Errorf("sim.bounds must not be negative, got %g", c.Sim.Bounds)
	}
	switch c.Profile.Mode {
	case "", "cpu", "mem", "alloc", "block", "mutex":
	default:
		return fmt.Errorf("unknown profile.mode %q", c.Profile.Mode)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		World: WorldConfig{
			InitialCapacity: 1024,
		},
		Sim: SimConfig{
			TickRate:   time.Second / 120,
			MaxTicks:   0,
			Bounds:     64,
			Seed:       1,
			Scenario:   "data/yaml/scenario.yaml",
			ScriptsDir: "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Profile: ProfileConfig{
			Path: ".",
		},
	}
}
