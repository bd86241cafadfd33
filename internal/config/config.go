// Package config handles planetgen configuration loading and management.
package config

import (
	"time"

	"github.com/Faultbox/planetgen/pkg/math"
	"github.com/Faultbox/planetgen/pkg/planet"
)

// Config holds all planetgen settings.
type Config struct {
	Planet    PlanetConfig    `yaml:"planet"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// PlanetConfig holds the generation parameters of the planet to build.
type PlanetConfig struct {
	Seed          uint32     `yaml:"seed"`
	Resolution    uint32     `yaml:"resolution"`
	Strength      float32    `yaml:"strength"`
	Layers        uint32     `yaml:"layers"`
	BaseRoughness float32    `yaml:"base_roughness"`
	Roughness     float32    `yaml:"roughness"`
	Persistence   float32    `yaml:"persistence"`
	Center        [3]float32 `yaml:"center,flow"`
	Tint          [4]float32 `yaml:"tint,flow"` // RGBA handed to the renderer as-is
}

// SchedulerConfig holds regeneration settings.
type SchedulerConfig struct {
	Workers       int           `yaml:"workers"`        // 0 means one per CPU
	MaxResolution uint32        `yaml:"max_resolution"` // 0 disables the limit
	TickInterval  time.Duration `yaml:"tick_interval"`  // host update cycle period
	MaxCycles     int           `yaml:"max_cycles"`     // cycles before giving up on a dirty planet
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	params := planet.DefaultParams(0, 64)
	return &Config{
		Planet: PlanetConfig{
			Seed:          params.Seed,
			Resolution:    params.Resolution,
			Strength:      params.Strength,
			Layers:        params.Layers,
			BaseRoughness: params.BaseRoughness,
			Roughness:     params.Roughness,
			Persistence:   params.Persistence,
			Tint:          [4]float32{1, 1, 1, 1},
		},
		Scheduler: SchedulerConfig{
			Workers:       0,
			MaxResolution: planet.DefaultMaxResolution,
			TickInterval:  16 * time.Millisecond,
			MaxCycles:     600,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Params converts the planet section into generation parameters.
func (c PlanetConfig) Params() planet.Params {
	return planet.Params{
		Seed:          c.Seed,
		Resolution:    c.Resolution,
		Strength:      c.Strength,
		Layers:        c.Layers,
		BaseRoughness: c.BaseRoughness,
		Roughness:     c.Roughness,
		Persistence:   c.Persistence,
		Center:        math.Vec3{X: c.Center[0], Y: c.Center[1], Z: c.Center[2]},
	}
}

// SchedulerOptions converts the scheduler section into scheduler options.
func (c SchedulerConfig) SchedulerOptions() []planet.Option {
	opts := []planet.Option{planet.WithMaxResolution(c.MaxResolution)}
	if c.Workers > 0 {
		opts = append(opts, planet.WithWorkers(c.Workers))
	}
	return opts
}
