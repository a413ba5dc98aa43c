// Package config loads the TOML configuration of the pool tools.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/plus3/dunepool/pool"
)

type Config struct {
	Enhancement EnhancementConfig `toml:"enhancement"`
	Logging     LoggingConfig     `toml:"logging"`
	Stress      StressConfig      `toml:"stress"`
	MapGen      MapGenConfig      `toml:"mapgen"`
}

type EnhancementConfig struct {
	// RaiseUnitCap selects the raised capacity mode for the session.
	RaiseUnitCap bool `toml:"raise_unit_cap"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type StressConfig struct {
	Duration     time.Duration `toml:"duration"`
	TickRate     time.Duration `toml:"tick_rate"` // 0 runs ticks back to back
	Seed         uint64        `toml:"seed"`
	SpawnPerTick int           `toml:"spawn_per_tick"`
	HouseUnitMax uint16        `toml:"house_unit_max"`
	SaveEvery    int           `toml:"save_every"` // ticks between save/load round trips, 0 disables
	Profile      string        `toml:"profile"`    // "", "cpu", "mem" or "trace"
	ScriptPath   string        `toml:"script_path"`

	// CheckpointDir keeps the round-trip saves on disk, indexed by a
	// catalog.db in the same directory. Empty round-trips in memory.
	CheckpointDir string `toml:"checkpoint_dir"`
}

type MapGenConfig struct {
	Attempts int `toml:"attempts"`
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Stress: StressConfig{
			Duration:     10 * time.Second,
			Seed:         1,
			SpawnPerTick: 8,
			HouseUnitMax: 50,
			SaveEvery:    500,
		},
		MapGen: MapGenConfig{
			Attempts: 64,
		},
	}
}

// CapacityPolicy returns the pool capacity the configuration selects.
func (c *Config) CapacityPolicy() pool.CapacityPolicy {
	return pool.NewCapacityPolicy(pool.CapacityModeFor(c.Enhancement.RaiseUnitCap))
}

func (c *Config) validate() error {
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	switch c.Stress.Profile {
	case "", "cpu", "mem", "trace":
	default:
		return fmt.Errorf("stress.profile must be cpu, mem or trace, got %q", c.Stress.Profile)
	}
	if c.Stress.SpawnPerTick < 0 || c.Stress.SaveEvery < 0 {
		return fmt.Errorf("stress counts must not be negative")
	}
	if c.MapGen.Attempts <= 0 {
		return fmt.Errorf("mapgen.attempts must be positive, got %d", c.MapGen.Attempts)
	}
	return nil
}
